package core

import (
	"fmt"
	"strings"
)

// UnnamedColumnPrefix marks header cells that were blank in the source
// workbook. The reader synthesizes "Unnamed: N" labels for them so column
// names stay unique; the selector counts them as a pivot-table signal.
const UnnamedColumnPrefix = "Unnamed:"

// Row is a single record keyed by column name. Cells absent from the source
// read as the empty string.
type Row map[string]string

// Get returns the cell value for the given column, or "" if absent.
func (r Row) Get(column string) string {
	return r[column]
}

// IsBlank reports whether the cell for the given column is empty or
// whitespace-only.
func (r Row) IsBlank(column string) bool {
	return strings.TrimSpace(r[column]) == ""
}

// Sheet is a named table of columns and ordered rows.
type Sheet struct {
	Name    string
	Columns []string
	Rows    []Row
}

// Workbook is an ordered collection of sheets, immutable once loaded.
type Workbook struct {
	Name   string
	Sheets []Sheet
}

// SheetScore is the selector's per-sheet evaluation.
type SheetScore struct {
	SheetName      string
	IsPivot        bool
	MatchedColumns []string
	Score          int
}

// SelectedDataset is the one sheet chosen by the selector for a run.
type SelectedDataset struct {
	Sheet Sheet
	Score SheetScore
}

// FilteredRecordSet holds the rows whose status matched the configured
// target set, plus the distinct status values observed in the source so an
// empty result can be diagnosed.
type FilteredRecordSet struct {
	Rows             []Row
	StatusField      string
	ObservedStatuses []string
}

// Len returns the number of matching rows.
func (s *FilteredRecordSet) Len() int {
	return len(s.Rows)
}

// RequesterGroup is the ordered set of rows entered by one requester.
type RequesterGroup struct {
	Key  string
	Rows []Row
}

// Mode selects the dispatch behavior.
type Mode string

const (
	ModePreview Mode = "preview"
	ModeDemo    Mode = "demo"
	ModeLive    Mode = "live"
)

// ParseMode validates a mode string from the command line.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModePreview:
		return ModePreview, nil
	case ModeDemo:
		return ModeDemo, nil
	case ModeLive:
		return ModeLive, nil
	}
	return "", fmt.Errorf("unknown mode %q (expected preview, demo or live)", s)
}

// Message is a rendered digest before addressing.
type Message struct {
	Subject string
	Body    string
}

// OutboundMessage is a fully addressed message handed to the transport.
type OutboundMessage struct {
	To          string
	Cc          []string
	Subject     string
	Body        string
	Attachments []string
}

// ResolutionTier identifies which strategy produced an address.
type ResolutionTier int

const (
	TierNone ResolutionTier = iota
	TierPassthrough
	TierExact
	TierFuzzy
	TierDirectory
)

func (t ResolutionTier) String() string {
	switch t {
	case TierPassthrough:
		return "passthrough"
	case TierExact:
		return "exact"
	case TierFuzzy:
		return "fuzzy"
	case TierDirectory:
		return "directory"
	}
	return "none"
}

// Resolution is a successful address lookup.
type Resolution struct {
	Address string
	Tier    ResolutionTier
}

// ResolutionStats counts resolution outcomes for one dispatch batch.
type ResolutionStats struct {
	Mapped            int
	DirectoryResolved int
	Failed            int
}

// RecipientReport is the per-group line of a dispatch result.
type RecipientReport struct {
	GroupKey string
	Address  string
	Tier     ResolutionTier
	Items    int
	Sent     bool
}

// DispatchResult is the per-run aggregate of a dispatch batch.
type DispatchResult struct {
	Mode           Mode
	Successful     int
	Failed         int
	Resolved       int
	Unresolved     int
	PerRecipient   []RecipientReport
	Stats          ResolutionStats
	UnmappedExport string
}

// UnmappedEntry is one row of the unmapped-identifier export.
type UnmappedEntry struct {
	Identifier string
	Status     string
	Mode       string
	Timestamp  string
	Action     string
}
