// Package output renders command results as aligned text or JSON.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Formatter handles output formatting (table or JSON).
type Formatter struct {
	Writer   io.Writer
	JSONMode bool
}

// New creates a new Formatter with the specified writer and JSON mode.
func New(w io.Writer, jsonMode bool) *Formatter {
	return &Formatter{
		Writer:   w,
		JSONMode: jsonMode,
	}
}

// PageInfo describes where a table sits in a paginated listing.
type PageInfo struct {
	Page       int
	TotalPages int
	TotalItems int
	// Noun names the items in the footer, e.g. "companies".
	Noun string
}

// Footer returns the "Page x of y (n noun)" line.
func (p PageInfo) Footer() string {
	return fmt.Sprintf("Page %d of %d (%d %s)", p.Page, p.TotalPages, p.TotalItems, p.Noun)
}

// Table outputs data as a formatted table or JSON array depending on mode.
// Headers define column names, rows contain the data.
func (f *Formatter) Table(headers []string, rows [][]string) error {
	if f.JSONMode {
		return f.Print(rowsAsObjects(headers, rows))
	}
	return f.tableAsText(headers, rows)
}

// Paged outputs one page of a listing. In text mode an empty page prints
// empty instead of a table, followed by the page footer. In JSON mode data,
// the typed page, is printed as-is so numeric fields keep their types.
func (f *Formatter) Paged(data any, headers []string, rows [][]string, info PageInfo, empty string) error {
	if f.JSONMode {
		return f.Print(data)
	}

	if len(rows) == 0 {
		if _, err := fmt.Fprintln(f.Writer, empty); err != nil {
			return err
		}
	} else if err := f.tableAsText(headers, rows); err != nil {
		return err
	}
	_, err := fmt.Fprintf(f.Writer, "\n%s\n", info.Footer())
	return err
}

// KeyValues outputs label/value pairs, one per line, in the given order.
// JSON mode emits a single object.
func (f *Formatter) KeyValues(pairs [][2]string) error {
	if f.JSONMode {
		obj := make(map[string]string, len(pairs))
		for _, kv := range pairs {
			obj[kv[0]] = kv[1]
		}
		return f.Print(obj)
	}

	tw := tabwriter.NewWriter(f.Writer, 0, 0, 2, ' ', 0)
	for _, kv := range pairs {
		if _, err := fmt.Fprintf(tw, "%s:\t%s\n", kv[0], kv[1]); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// Message prints a human-readable status line. JSON mode wraps it as
// {"message": "..."}.
func (f *Formatter) Message(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if f.JSONMode {
		return f.Print(map[string]string{"message": msg})
	}
	_, err := fmt.Fprintln(f.Writer, msg)
	return err
}

// Print outputs data as formatted JSON (pretty-printed) or as a simple string representation.
func (f *Formatter) Print(data any) error {
	if f.JSONMode {
		encoder := json.NewEncoder(f.Writer)
		encoder.SetIndent("", "  ")
		return encoder.Encode(data)
	}

	_, err := fmt.Fprintf(f.Writer, "%v\n", data)
	return err
}

// tableAsText renders a table with aligned columns.
func (f *Formatter) tableAsText(headers []string, rows [][]string) error {
	tw := tabwriter.NewWriter(f.Writer, 0, 0, 2, ' ', 0)

	if _, err := fmt.Fprintln(tw, strings.Join(headers, "\t")); err != nil {
		return err
	}

	separators := make([]string, len(headers))
	for i, h := range headers {
		separators[i] = strings.Repeat("-", len(h))
	}
	if _, err := fmt.Fprintln(tw, strings.Join(separators, "\t")); err != nil {
		return err
	}

	for _, row := range rows {
		if _, err := fmt.Fprintln(tw, strings.Join(row, "\t")); err != nil {
			return err
		}
	}

	return tw.Flush()
}

// rowsAsObjects keys every row by its header; missing cells become "".
func rowsAsObjects(headers []string, rows [][]string) []map[string]string {
	result := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		obj := make(map[string]string, len(headers))
		for i, header := range headers {
			if i < len(row) {
				obj[header] = row[i]
			} else {
				obj[header] = ""
			}
		}
		result = append(result, obj)
	}
	return result
}
