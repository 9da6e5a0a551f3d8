package scraper

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prodlens/backend/internal/domain"
)

const productPage = `<!doctype html>
<html>
<head>
  <title>Fallback Title</title>
  <meta property="og:title" content="  Acme   Noise-Cancelling Headphones ">
  <meta name="description" content="Wireless over-ear headphones. Forty hour battery.">
</head>
<body>
  <h1>Heading Title</h1>
  <span id="priceblock_ourprice">$1,299.99</span>
  <ul>
    <li>About this item</li>
    <li>Active noise cancelling</li>
    <li>40h   battery</li>
    <li>Active noise cancelling</li>
    <li>USB</li>
    <li>Buy now with 1-click</li>
  </ul>
  <table>
    <tr><th>Weight</th><td>250 g</td></tr>
    <tr><th>Color</th><td> Black </td></tr>
    <tr><th>Empty</th><td></td></tr>
  </table>
</body>
</html>`

func parse(t *testing.T, html string) domain.ProductRecord {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return ParseProduct(doc, "https://shop.example.com/p/1")
}

func TestParseProduct_FullPage(t *testing.T) {
	rec := parse(t, productPage)

	assert.Equal(t, "Acme Noise-Cancelling Headphones", rec.Title)
	assert.Equal(t, "Wireless over-ear headphones. Forty hour battery.", rec.Description)
	assert.Equal(t, domain.TextPrice("$1299.99"), rec.Price)
	assert.Equal(t, []string{"Active noise cancelling", "40h battery"}, rec.Features)
	assert.Equal(t, map[string]string{"Weight": "250 g", "Color": "Black"}, rec.Specs)
	require.NotNil(t, rec.SourceURL)
	assert.Equal(t, "https://shop.example.com/p/1", *rec.SourceURL)
}

func TestParseProduct_SelectorCascade(t *testing.T) {
	tests := []struct {
		name      string
		html      string
		wantTitle string
		wantDesc  string
	}{
		{
			name:      "twitter title when no og title",
			html:      `<meta name="twitter:title" content="Tw"><h1>H</h1>`,
			wantTitle: "Tw",
		},
		{
			name:      "first h1",
			html:      `<h1>First</h1><h1>Second</h1><p>Para one</p><p>Para two</p>`,
			wantTitle: "First",
			wantDesc:  "Para one",
		},
		{
			name:      "document title",
			html:      `<html><head><title>Doc Title</title></head><body></body></html>`,
			wantTitle: "Doc Title",
		},
		{
			name:      "default title",
			html:      `<div>nothing</div>`,
			wantTitle: "Product",
		},
		{
			name:      "product description div beats paragraph",
			html:      `<div id="productDescription"> Solid  build </div><p>Other</p>`,
			wantTitle: "Product",
			wantDesc:  "Solid build",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := parse(t, tt.html)
			assert.Equal(t, tt.wantTitle, rec.Title)
			assert.Equal(t, tt.wantDesc, rec.Description)
		})
	}
}

func TestFindPrice(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"$1,299.99", "$1299.99"},
		{"€ 45", "€45"},
		{"₹2,499", "₹2499"},
		{"Price: 19.999", "19.99"},
		{"Now only 30 dollars", "30"},
		{"call us", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, findPrice(tt.in))
		})
	}
}

func TestExtractPagePrice_ClassSelector(t *testing.T) {
	rec := parse(t, `<div class="product-price-now">£ 12.50</div>`)
	assert.Equal(t, domain.TextPrice("£12.50"), rec.Price)

	rec = parse(t, `<div>no price here</div>`)
	assert.False(t, rec.Price.IsSet())
}

func TestExtractFeatures_CapsAtEight(t *testing.T) {
	var b strings.Builder
	b.WriteString("<ul>")
	for i := 0; i < 12; i++ {
		b.WriteString("<li>Feature number ")
		b.WriteByte(byte('a' + i))
		b.WriteString("</li>")
	}
	b.WriteString("</ul>")

	rec := parse(t, b.String())
	assert.Len(t, rec.Features, 8)
	assert.Equal(t, "Feature number a", rec.Features[0])
	assert.Equal(t, "Feature number h", rec.Features[7])
}
