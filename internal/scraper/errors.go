package scraper

import "errors"

var (
	// ErrCardsNotRendered means a catalog page never produced its product
	// cards inside the bounded wait. The page template is assumed stable,
	// so this is fatal for the whole run.
	ErrCardsNotRendered = errors.New("product cards never rendered")

	// ErrNoSummaries means traversal finished without a single usable card.
	ErrNoSummaries = errors.New("no catalog items extracted")
)
