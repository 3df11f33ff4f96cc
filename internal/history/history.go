// Package history reads the daily index history CSV used for charting.
package history

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/stocksage/sage/pkg/sageapi"
)

// dateLayouts are tried in order for the Date column.
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
}

// Point is one trading day.
type Point struct {
	Date  time.Time
	Close decimal.Decimal
}

// Series is the parsed history plus the number of rows that were dropped
// because their date or value could not be read.
type Series struct {
	Points  []Point
	Skipped int
}

// Load opens path and parses it with Parse.
func Load(path string, sinceYear int) (*Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Parse(f, sinceYear)
}

// Parse reads CSV with a header row containing Date and Close columns, in
// any order and any case. Rows dated before sinceYear are dropped. The
// result is sorted by date, oldest first.
func Parse(r io.Reader, sinceYear int) (*Series, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &sageapi.ParseError{What: "history", Err: errors.New("empty file")}
		}
		return nil, &sageapi.ParseError{What: "history header", Err: err}
	}

	dateCol, closeCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))) {
		case "date":
			dateCol = i
		case "close":
			closeCol = i
		}
	}
	if dateCol < 0 || closeCol < 0 {
		return nil, &sageapi.ParseError{What: "history header", Err: fmt.Errorf("need Date and Close columns, got %v", header)}
	}

	series := &Series{}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var csvErr *csv.ParseError
			if errors.As(err, &csvErr) {
				series.Skipped++
				continue
			}
			return nil, &sageapi.ParseError{What: "history", Err: err}
		}
		if dateCol >= len(record) || closeCol >= len(record) {
			series.Skipped++
			continue
		}

		date, ok := parseDate(record[dateCol])
		if !ok {
			series.Skipped++
			continue
		}
		if date.Year() < sinceYear {
			continue
		}

		value, err := sageapi.NewNumber(record[closeCol])
		if err != nil || !value.Valid {
			series.Skipped++
			continue
		}

		series.Points = append(series.Points, Point{Date: date, Close: value.Decimal})
	}

	sort.SliceStable(series.Points, func(i, j int) bool {
		return series.Points[i].Date.Before(series.Points[j].Date)
	})
	return series, nil
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// MonthLabels returns one axis label per point: the lower-case short month
// name on the first point of each month, empty otherwise.
func MonthLabels(points []Point) []string {
	labels := make([]string, len(points))
	seen := make(map[string]bool)
	for i, p := range points {
		key := p.Date.Format("2006-01")
		if seen[key] {
			continue
		}
		seen[key] = true
		labels[i] = strings.ToLower(p.Date.Format("Jan"))
	}
	return labels
}

// Summary describes a series at a glance.
type Summary struct {
	First     Point
	Last      Point
	Min       Point
	Max       Point
	Change    decimal.Decimal
	ChangePct decimal.Decimal
	Days      int
}

// Summarize computes a Summary. ok is false for an empty series.
func Summarize(points []Point) (Summary, bool) {
	if len(points) == 0 {
		return Summary{}, false
	}

	s := Summary{
		First: points[0],
		Last:  points[len(points)-1],
		Min:   points[0],
		Max:   points[0],
		Days:  len(points),
	}
	for _, p := range points[1:] {
		if p.Close.LessThan(s.Min.Close) {
			s.Min = p
		}
		if p.Close.GreaterThan(s.Max.Close) {
			s.Max = p
		}
	}

	s.Change = s.Last.Close.Sub(s.First.Close)
	if !s.First.Close.IsZero() {
		s.ChangePct = s.Change.Div(s.First.Close).Mul(decimal.NewFromInt(100)).Round(2)
	}
	return s, true
}
