package app

import (
	"strings"

	"restorank/internal/domain"
)

// Normalize lower-cases every column key and drops rows whose values are all
// blank after trimming (trailing empty spreadsheet rows). Key collisions
// after lower-casing resolve last-write-wins in original column order.
func Normalize(t domain.Table) domain.Table {
	headers := make([]string, 0, len(t.Headers))
	seen := make(map[string]struct{}, len(t.Headers))
	for _, h := range t.Headers {
		lh := strings.ToLower(h)
		if _, ok := seen[lh]; ok {
			continue
		}
		seen[lh] = struct{}{}
		headers = append(headers, lh)
	}

	rows := make([]domain.Row, 0, len(t.Rows))
	for _, r := range t.Rows {
		nr := make(domain.Row, len(r))
		blank := true
		for _, h := range t.Headers {
			v := r[h]
			nr[strings.ToLower(h)] = v
			if strings.TrimSpace(v) != "" {
				blank = false
			}
		}
		// keys the header row doesn't cover still survive, first value wins
		for k, v := range r {
			lk := strings.ToLower(k)
			if _, ok := nr[lk]; !ok {
				nr[lk] = v
				if strings.TrimSpace(v) != "" {
					blank = false
				}
			}
		}
		if blank {
			continue
		}
		rows = append(rows, nr)
	}
	return domain.Table{Headers: headers, Rows: rows}
}

// Verdict classifies a fetched source after normalization.
type Verdict int

const (
	SourceValid Verdict = iota
	// SourceEmpty: zero rows survived normalization.
	SourceEmpty
	// SourcePrivate: the payload was an HTML login/error page served in
	// place of CSV (private spreadsheet).
	SourcePrivate
	// SourceNoName: tabular data without a resolvable name column; only
	// raised for the main listing.
	SourceNoName
)

func (v Verdict) String() string {
	switch v {
	case SourceValid:
		return "valid"
	case SourceEmpty:
		return "empty"
	case SourcePrivate:
		return "private"
	case SourceNoName:
		return "no_name_column"
	}
	return "unknown"
}

// htmlMarkers are matched against the normalized (lower-cased) keys of the
// first row. A CSV parse of an HTML page turns its first line into header
// text, so the markers land in the keys.
var htmlMarkers = []string{"<!doctype", "<html>"}

// Validate must run before any row is trusted as data.
func Validate(t domain.Table) Verdict {
	if len(t.Rows) == 0 {
		return SourceEmpty
	}
	for k := range t.Rows[0] {
		for _, m := range htmlMarkers {
			if strings.Contains(k, m) {
				return SourcePrivate
			}
		}
	}
	return SourceValid
}

// HasNameColumn reports whether the row carries either name alias as a key.
func HasNameColumn(row domain.Row) bool {
	_, n := row["name"]
	_, ne := row["nombre"]
	return n || ne
}
