package domain

// RawRow is one fetched spreadsheet row keyed by column name in original case.
type RawRow = map[string]string

// Row is a normalized row: every key lower-cased, blank-only rows dropped.
type Row = map[string]string

// Table carries rows together with the header order they were decoded in.
// Header order matters for positional mappings (people's survey) and for
// deterministic key-collision resolution during normalization.
type Table struct {
	Headers []string
	Rows    []Row
}

// Restaurant is the canonical record assembled from the main listing.
// Name is the only mandatory field; everything else degrades to a defined
// fallback value during mapping, never to an absent field.
type Restaurant struct {
	Rank        int
	Name        string
	Rating      string // string-encoded number, "0" when unresolvable
	Location    string
	Date        string // DD/MM/YYYY display form, may be empty
	Description string
	Address     string
	Phone       string
	Instagram   string
	MapLink     string
	OrderedBy   string
	Photos      string // semicolon-delimited URLs, possibly borrowed from a critic row
}

// CriticScoreRow is one critic's resolved score line for a restaurant.
// Presencial mode fills Place/Service, delivery mode fills Shipping/Price;
// the unused pair stays empty. Cells default to "-" when the matched row
// lacks the field.
type CriticScoreRow struct {
	Critic   string
	Average  string
	Food     string
	Place    string
	Service  string
	Shipping string
	Price    string
}

// PeopleScore is one entry of the people's-survey source, taken positionally
// from its first two columns.
type PeopleScore struct {
	Name  string
	Score string
}

// AggregateResult is the outcome of one full load cycle.
type AggregateResult struct {
	Restaurants  []Restaurant
	CriticIndex  map[string][]Row
	CriticOrder  []string
	PeopleScores []PeopleScore
}

// Mode names one source configuration bundle.
type Mode string

const (
	ModePresencial Mode = "presencial"
	ModeDelivery   Mode = "delivery"
)

// SourceRef addresses one tabular feed: an http(s) CSV export URL, or a
// local workbook path of the form "path.xlsx#Sheet".
type SourceRef string

type CriticSource struct {
	ID  string
	Ref SourceRef
}

// SourceConfig is the full set of feeds for one mode. Critics keeps the
// fixed iteration order used by photo and score resolution. People is
// optional; empty means the mode has no survey feed.
type SourceConfig struct {
	Main    SourceRef
	Critics []CriticSource
	People  SourceRef
}
