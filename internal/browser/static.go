package browser

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

// StaticRenderer fetches pages over plain HTTP and answers waits from the
// fetched markup. The demo catalog renders without scripts, so this mode
// covers CI runs and environments without a browser install. Clicking an
// anchor follows its href.
type StaticRenderer struct {
	client  *resty.Client
	doc     *goquery.Document
	html    string
	current *url.URL
}

func NewStaticRenderer(client *resty.Client) *StaticRenderer {
	if client == nil {
		client = resty.New().SetTimeout(30 * time.Second)
	}
	return &StaticRenderer{client: client}
}

func (r *StaticRenderer) Navigate(rawURL string) error {
	resp, err := r.client.R().Get(rawURL)
	if err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	if resp.StatusCode() >= 400 {
		return fmt.Errorf("navigation failed: %s returned %d", rawURL, resp.StatusCode())
	}

	html := resp.String()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", rawURL, err)
	}

	r.doc = doc
	r.html = html
	r.current = parsed
	return nil
}

// WaitForSelector resolves immediately: a static document either contains
// the element or never will.
func (r *StaticRenderer) WaitForSelector(selector string, _ time.Duration) (Element, error) {
	if r.doc == nil {
		return nil, fmt.Errorf("%w: %s: no page loaded", ErrSelectorNotFound, selector)
	}
	sel := r.doc.Find(selector).First()
	if sel.Length() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrSelectorNotFound, selector)
	}
	return &staticElement{renderer: r, sel: sel}, nil
}

func (r *StaticRenderer) Content() (string, error) {
	if r.doc == nil {
		return "", fmt.Errorf("no page loaded")
	}
	return r.html, nil
}

func (r *StaticRenderer) Close() error {
	return nil
}

type staticElement struct {
	renderer *StaticRenderer
	sel      *goquery.Selection
}

// Click follows the element's href relative to the current page.
func (e *staticElement) Click() error {
	href, ok := e.sel.Attr("href")
	if !ok || href == "" {
		return fmt.Errorf("element has no href to follow")
	}

	ref, err := url.Parse(href)
	if err != nil {
		return fmt.Errorf("invalid href %q: %w", href, err)
	}

	return e.renderer.Navigate(e.renderer.current.ResolveReference(ref).String())
}

func (e *staticElement) ScrollIntoView() error {
	return nil
}
