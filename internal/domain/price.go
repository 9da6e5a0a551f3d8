package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

type priceKind uint8

const (
	priceUnset priceKind = iota
	priceNumber
	priceText
)

// Price is a product price as supplied by a user or a scraped page: absent,
// a bare number, or free text such as "$1,200.50". It round-trips through
// JSON as null, a number or a string respectively.
type Price struct {
	kind priceKind
	num  float64
	text string
}

// NumberPrice returns a numeric price.
func NumberPrice(v float64) Price {
	return Price{kind: priceNumber, num: v}
}

// TextPrice returns a textual price.
func TextPrice(s string) Price {
	return Price{kind: priceText, text: s}
}

// IsSet reports whether a value was supplied.
func (p Price) IsSet() bool {
	return p.kind != priceUnset
}

// Number returns the numeric value when the price was supplied as a number.
func (p Price) Number() (float64, bool) {
	return p.num, p.kind == priceNumber
}

// Text returns the raw text when the price was supplied as a string.
func (p Price) Text() (string, bool) {
	return p.text, p.kind == priceText
}

// String renders the raw value. Numbers use the shortest representation
// ("40", "1200.5"); unset prices render as an empty string.
func (p Price) String() string {
	switch p.kind {
	case priceNumber:
		return strconv.FormatFloat(p.num, 'f', -1, 64)
	case priceText:
		return p.text
	default:
		return ""
	}
}

// MarshalJSON implements json.Marshaler.
func (p Price) MarshalJSON() ([]byte, error) {
	switch p.kind {
	case priceNumber:
		return json.Marshal(p.num)
	case priceText:
		return json.Marshal(p.text)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*p = Price{}
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = TextPrice(s)
	default:
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return fmt.Errorf("price must be a number, a string or null: %w", err)
		}
		*p = NumberPrice(f)
	}
	return nil
}
