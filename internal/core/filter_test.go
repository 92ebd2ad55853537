package core

import (
	"errors"
	"reflect"
	"testing"
)

var targetStatuses = []string{"On order", "Received"}

func statusDataset(statuses ...string) *SelectedDataset {
	sheet := Sheet{Name: "Data", Columns: []string{"ERF Nr", "Entered by", "ERF Sched Line Status"}}
	for i, s := range statuses {
		sheet.Rows = append(sheet.Rows, Row{
			"ERF Nr":                string(rune('A' + i)),
			"Entered by":            "JDOE",
			"ERF Sched Line Status": s,
		})
	}
	return &SelectedDataset{Sheet: sheet}
}

func TestFilterByStatusExactMatch(t *testing.T) {
	tests := []struct {
		name     string
		statuses []string
		want     int
	}{
		{"keeps target statuses", []string{"On order", "Received", "Cancelled"}, 2},
		{"case sensitive", []string{"on order", "ON ORDER", "received"}, 0},
		{"no trimming", []string{" On order", "On order "}, 0},
		{"empty cells dropped", []string{"", "On order"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := FilterByStatus(statusDataset(tt.statuses...), "ERF Sched Line Status", targetStatuses)
			if rs.Len() != tt.want {
				t.Fatalf("got %d rows, want %d", rs.Len(), tt.want)
			}
		})
	}
}

func TestFilterByStatusObservedStatuses(t *testing.T) {
	ds := statusDataset("Cancelled", "In planning", "Cancelled", "On order")
	rs := FilterByStatus(ds, "ERF Sched Line Status", targetStatuses)

	want := []string{"Cancelled", "In planning", "On order"}
	if !reflect.DeepEqual(rs.ObservedStatuses, want) {
		t.Fatalf("observed statuses %v, want %v", rs.ObservedStatuses, want)
	}
	if rs.Len() != 1 {
		t.Fatalf("got %d rows, want 1", rs.Len())
	}
}

func TestFilterByStatusIdempotent(t *testing.T) {
	ds := statusDataset("On order", "Received", "Cancelled", "On order")
	once := FilterByStatus(ds, "ERF Sched Line Status", targetStatuses)
	twice := Refilter(once, "ERF Sched Line Status", targetStatuses)

	if !reflect.DeepEqual(once.Rows, twice.Rows) {
		t.Fatalf("refiltering changed the row set: %v vs %v", once.Rows, twice.Rows)
	}
}

func requesterSet(keys ...string) *FilteredRecordSet {
	rs := &FilteredRecordSet{StatusField: "ERF Sched Line Status"}
	for i, k := range keys {
		rs.Rows = append(rs.Rows, Row{
			"ERF Nr":     string(rune('A' + i)),
			"Entered by": k,
		})
	}
	return rs
}

func TestGroupByRequesterPartition(t *testing.T) {
	rs := requesterSet("JDOE", "ASMITH", "JDOE", "BJONES", "ASMITH")
	groups, err := GroupByRequester(rs, "Entered by")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantKeys := []string{"JDOE", "ASMITH", "BJONES"}
	if len(groups) != len(wantKeys) {
		t.Fatalf("got %d groups, want %d", len(groups), len(wantKeys))
	}
	total := 0
	for i, g := range groups {
		if g.Key != wantKeys[i] {
			t.Errorf("group %d key %q, want %q", i, g.Key, wantKeys[i])
		}
		total += len(g.Rows)
	}
	if total != rs.Len() {
		t.Fatalf("groups cover %d rows, want %d", total, rs.Len())
	}
}

func TestGroupByRequesterTrimsAndDropsBlank(t *testing.T) {
	rs := requesterSet("  JDOE  ", "", "   ", "JDOE")
	groups, err := GroupByRequester(rs, "Entered by")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(groups) != 1 || groups[0].Key != "JDOE" {
		t.Fatalf("unexpected groups: %+v", groups)
	}
	if len(groups[0].Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(groups[0].Rows))
	}
}

func TestGroupByRequesterNoValidKeys(t *testing.T) {
	rs := requesterSet("", "  ")
	_, err := GroupByRequester(rs, "Entered by")
	var noKeys *NoValidKeysError
	if !errors.As(err, &noKeys) {
		t.Fatalf("expected NoValidKeysError, got %v", err)
	}
	if noKeys.KeyField != "Entered by" {
		t.Fatalf("unexpected key field: %q", noKeys.KeyField)
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"preview", ModePreview, false},
		{"DEMO", ModeDemo, false},
		{" live ", ModeLive, false},
		{"production", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseMode(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseMode(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}
