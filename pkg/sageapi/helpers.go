package sageapi

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dustin/go-humanize"
)

// FormatNumber formats n with thousand separators and two decimals.
// Returns "-" for missing values.
func FormatNumber(n Number) string {
	if !n.Valid {
		return "-"
	}
	f, _ := n.Decimal.Round(2).Float64()
	return humanize.FormatFloat("#,###.##", f)
}

// FormatInteger formats n with thousand separators and no decimals.
// Returns "-" for missing values.
func FormatInteger(n Number) string {
	if !n.Valid {
		return "-"
	}
	return humanize.Comma(n.Decimal.Round(0).IntPart())
}

// FormatChange formats a percentage change with an explicit sign.
// Returns "-" for missing values.
func FormatChange(n Number) string {
	if !n.Valid {
		return "-"
	}
	s := n.Decimal.StringFixed(2) + "%"
	if n.Decimal.IsPositive() {
		return "+" + s
	}
	return s
}

// PlainText strips markup from an HTML fragment and collapses whitespace.
// Input that is not HTML comes back with whitespace collapsed.
func PlainText(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.Join(strings.Fields(fragment), " ")
	}
	doc.Find("script, style").Remove()
	doc.Find("br").ReplaceWithHtml(" ")
	doc.Find("p, div, li, h1, h2, h3, h4, h5, h6, tr, td, th, blockquote").AppendHtml(" ")
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// Truncate shortens s to at most max runes, ending in "..." when cut.
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
