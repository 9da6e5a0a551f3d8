package scraper

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/prodlens/backend/internal/domain"
)

const (
	defaultTitle     = "Product"
	maxFeatures      = 8
	minFeatureLength = 4
)

var (
	whitespaceRegex   = regexp.MustCompile(`\s+`)
	priceStripRegex   = regexp.MustCompile(`[,\s]`)
	priceTextRegex    = regexp.MustCompile(`(\$|₹|€|£)?(\d+(?:\.\d{1,2})?)`)
	featureNoiseRegex = regexp.MustCompile(`(?i)About this item|Buy now|Free shipping|Main content`)
)

// titleSelectors and descriptionSelectors are tried in order; the first
// non-empty value wins.
var (
	titleSelectors = []selector{
		{query: `meta[property="og:title"]`, attr: "content"},
		{query: `meta[name="twitter:title"]`, attr: "content"},
		{query: "h1", first: true},
		{query: "title"},
	}
	descriptionSelectors = []selector{
		{query: `meta[name="description"]`, attr: "content"},
		{query: `meta[property="og:description"]`, attr: "content"},
		{query: `meta[name="twitter:description"]`, attr: "content"},
		{query: "div#productDescription"},
		{query: "p", first: true},
	}
	priceSelectors = []string{
		"#priceblock_ourprice",
		"#priceblock_dealprice",
		`[class*="price"]`,
		`[id*="price"]`,
	}
)

type selector struct {
	query string
	attr  string
	first bool
}

func (s selector) value(doc *goquery.Document) string {
	sel := doc.Find(s.query)
	if s.attr != "" {
		v, _ := sel.First().Attr(s.attr)
		return clean(v)
	}
	if s.first {
		sel = sel.First()
	}
	return clean(sel.Text())
}

// ParseProduct extracts a product record from a parsed page.
func ParseProduct(doc *goquery.Document, url string) domain.ProductRecord {
	title := firstValue(doc, titleSelectors)
	if title == "" {
		title = defaultTitle
	}
	sourceURL := url

	return domain.ProductRecord{
		Title:       title,
		Description: firstValue(doc, descriptionSelectors),
		Price:       extractPagePrice(doc),
		Features:    extractFeatures(doc),
		Specs:       extractSpecs(doc),
		SourceURL:   &sourceURL,
	}
}

func firstValue(doc *goquery.Document, selectors []selector) string {
	for _, s := range selectors {
		if v := s.value(doc); v != "" {
			return v
		}
	}
	return ""
}

func extractPagePrice(doc *goquery.Document) domain.Price {
	for _, q := range priceSelectors {
		if p := findPrice(clean(doc.Find(q).First().Text())); p != "" {
			return domain.TextPrice(p)
		}
	}
	return domain.Price{}
}

// findPrice returns the first currency amount in text, keeping a leading
// currency symbol when present: "$1,299.99" -> "$1299.99".
func findPrice(text string) string {
	if text == "" {
		return ""
	}
	m := priceTextRegex.FindStringSubmatch(priceStripRegex.ReplaceAllString(text, ""))
	if m == nil {
		return ""
	}
	return m[1] + m[2]
}

// extractFeatures collects list items, dropping short and navigational
// entries, de-duplicated in page order and capped at maxFeatures.
func extractFeatures(doc *goquery.Document) []string {
	features := []string{}
	seen := map[string]struct{}{}
	doc.Find("ul li").EachWithBreak(func(_ int, li *goquery.Selection) bool {
		t := clean(li.Text())
		if utf8.RuneCountInString(t) < minFeatureLength || featureNoiseRegex.MatchString(t) {
			return true
		}
		if _, dup := seen[t]; dup {
			return true
		}
		seen[t] = struct{}{}
		features = append(features, t)
		return len(features) < maxFeatures
	})
	return features
}

// extractSpecs reads key/value rows from th/td table rows.
func extractSpecs(doc *goquery.Document) map[string]string {
	specs := map[string]string{}
	doc.Find("table tr").Each(func(_ int, tr *goquery.Selection) {
		key := clean(tr.Find("th").Text())
		val := clean(tr.Find("td").Text())
		if key != "" && val != "" {
			specs[key] = val
		}
	})
	return specs
}

func clean(s string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " "))
}
