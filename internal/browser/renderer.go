package browser

import (
	"errors"
	"time"
)

// ErrSelectorNotFound is returned by WaitForSelector when the element never
// shows up inside the bounded wait.
var ErrSelectorNotFound = errors.New("selector not found")

// Element is a handle to a rendered DOM element.
type Element interface {
	Click() error
	ScrollIntoView() error
}

// Renderer is the capability the scrape pipeline needs from a rendered
// page: navigation, bounded waits and the current HTML. Implementations
// own exactly one page.
type Renderer interface {
	Navigate(url string) error
	WaitForSelector(selector string, timeout time.Duration) (Element, error)
	Content() (string, error)
	Close() error
}
