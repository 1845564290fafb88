package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/maltedev/bookstore-scraper/internal/models"
)

// ParseError reports a field whose text carried no parseable value.
type ParseError struct {
	Field string
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %s from %q", e.Field, e.Input)
}

var (
	priceCleanRe = regexp.MustCompile(`[^\d.]`)
	digitRunRe   = regexp.MustCompile(`\d+`)

	ratingWords = map[string]int{
		"One":   1,
		"Two":   2,
		"Three": 3,
		"Four":  4,
		"Five":  5,
	}
)

// Price strips everything but digits and the decimal point and parses the
// remainder. It fails only when no digits are left.
func Price(text string) (float64, error) {
	cleaned := priceCleanRe.ReplaceAllString(text, "")
	if !strings.ContainsAny(cleaned, "0123456789") {
		return 0, &ParseError{Field: "price", Input: text}
	}
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, &ParseError{Field: "price", Input: text}
	}
	return value, nil
}

// StockCount returns the first run of digits in the availability text, or 0
// when there is none. A missing count means out of stock or unknown, not an
// error.
func StockCount(text string) int {
	match := digitRunRe.FindString(text)
	if match == "" {
		return 0
	}
	count, err := strconv.Atoi(match)
	if err != nil {
		return 0
	}
	return count
}

// RatingFromCard maps the star-rating class word of a product card to 1..5.
// ok is false when the rating element or a recognized word is missing.
func RatingFromCard(card *goquery.Selection) (int, bool) {
	tag := card.Find(".star-rating").First()
	if tag.Length() == 0 {
		return 0, false
	}
	classes, _ := tag.Attr("class")
	for _, class := range strings.Fields(classes) {
		if rating, ok := ratingWords[class]; ok {
			return rating, true
		}
	}
	return 0, false
}

// AbsoluteURL normalizes a possibly relative card href. Already absolute
// hrefs pass through; relative ones are resolved under base+catalogPrefix
// with parent-directory segments stripped.
func AbsoluteURL(href, base, catalogPrefix string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return base + catalogPrefix + strings.ReplaceAll(href, "../", "")
}

// Cards extracts one summary per product card on a rendered catalog page.
// Cards missing a title, an href, or a parseable price are dropped; the
// remaining field extractors never fail.
func Cards(html, base, catalogPrefix string) ([]models.BookSummary, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog page: %w", err)
	}

	var summaries []models.BookSummary
	doc.Find("article.product_pod").Each(func(_ int, card *goquery.Selection) {
		summary, ok := cardSummary(card, base, catalogPrefix)
		if ok {
			summaries = append(summaries, summary)
		}
	})
	return summaries, nil
}

func cardSummary(card *goquery.Selection, base, catalogPrefix string) (models.BookSummary, bool) {
	link := card.Find("h3 a").First()
	title := strings.TrimSpace(link.AttrOr("title", ""))
	href := link.AttrOr("href", "")
	if title == "" || href == "" {
		return models.BookSummary{}, false
	}

	price, err := Price(card.Find(".price_color").First().Text())
	if err != nil {
		return models.BookSummary{}, false
	}

	stockText := strings.TrimSpace(card.Find("p.instock.availability").First().Text())
	if stockText == "" {
		stockText = strings.TrimSpace(card.Find("p.availability").First().Text())
	}

	summary := models.BookSummary{
		Title:      title,
		Price:      price,
		StockCount: StockCount(stockText),
		DetailURL:  AbsoluteURL(href, base, catalogPrefix),
	}
	if rating, ok := RatingFromCard(card); ok {
		summary.Rating = &rating
	}
	return summary, true
}

// BreadcrumbCategory recovers the category from a detail page breadcrumb
// trail: the third segment when at least three exist.
func BreadcrumbCategory(html string) (string, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", false
	}

	var segments []string
	doc.Find("ul.breadcrumb li").Each(func(_ int, li *goquery.Selection) {
		segments = append(segments, strings.TrimSpace(li.Text()))
	})
	if len(segments) < 3 {
		return "", false
	}
	return segments[2], true
}
