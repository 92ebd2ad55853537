package config

import (
	"testing"
	"time"
)

func testConfig() *Config {
	return NewFromViper(NewEmptyViper())
}

func TestDefaults(t *testing.T) {
	cfg := testConfig()

	if got := cfg.GetString("workbook.status_column"); got != "ERF Sched Line Status" {
		t.Errorf("status column %q", got)
	}
	if got := cfg.GetString("workbook.requester_column"); got != "Entered by" {
		t.Errorf("requester column %q", got)
	}
	if got := cfg.GetStringSlice("workbook.required_columns"); len(got) != 16 {
		t.Errorf("got %d required columns, want 16", len(got))
	}
	if got := cfg.GetStringSlice("filter.target_statuses"); len(got) != 2 ||
		got[0] != "On order" || got[1] != "Received" {
		t.Errorf("target statuses %v", got)
	}
	if got := cfg.GetFloat64("selector.unnamed_column_ratio"); got != 0.70 {
		t.Errorf("unnamed column ratio %v", got)
	}
	if got := cfg.GetFloat64("selector.empty_first_row_ratio"); got != 0.80 {
		t.Errorf("empty first row ratio %v", got)
	}
	if got := cfg.GetInt("digest.demo_group_limit"); got != 5 {
		t.Errorf("demo group limit %d", got)
	}
	if got := cfg.GetString("transport.type"); got != "console" {
		t.Errorf("transport type %q", got)
	}
	if !cfg.GetBool("resolver.directory_enabled") {
		t.Error("directory tier disabled by default")
	}
}

func TestGetDuration(t *testing.T) {
	cfg := testConfig()

	pace, err := cfg.GetDuration("resolver.directory_pace")
	if err != nil {
		t.Fatalf("GetDuration: %v", err)
	}
	if pace != 250*time.Millisecond {
		t.Errorf("directory pace %v", pace)
	}

	if _, err := cfg.GetDuration("workbook.status_column"); err == nil {
		t.Error("expected parse error for non-duration value")
	}
}

func TestTypedSubConfigs(t *testing.T) {
	cfg := testConfig()

	wb := cfg.GetWorkbook()
	if wb.StatusColumn != "ERF Sched Line Status" || len(wb.RequiredColumns) != 16 {
		t.Errorf("unexpected workbook config: %+v", wb)
	}

	sel := cfg.GetSelector()
	if sel.PivotScanRows != 5 || sel.PivotScanCols != 5 || len(sel.PivotMarkers) != 5 {
		t.Errorf("unexpected selector config: %+v", sel)
	}

	smtp := cfg.GetSMTP()
	if smtp.Host != "localhost" || smtp.Port != 25 || smtp.From != "erf-digest@example.com" {
		t.Errorf("unexpected smtp config: %+v", smtp)
	}

	digest := cfg.GetDigest()
	if digest.SubjectTemplate != "ERF Status Update - %d Items" || len(digest.DisplayColumns) != 11 {
		t.Errorf("unexpected digest config: %+v", digest)
	}

	export := cfg.GetExport()
	if export.Dir != "." || export.UnmappedAction == "" {
		t.Errorf("unexpected export config: %+v", export)
	}
}

func TestOverride(t *testing.T) {
	v := NewEmptyViper()
	v.Set("filter.target_statuses", []string{"Shipped"})
	v.Set("digest.demo_group_limit", 2)
	cfg := NewFromViper(v)

	if got := cfg.GetFilter().TargetStatuses; len(got) != 1 || got[0] != "Shipped" {
		t.Errorf("target statuses %v", got)
	}
	if got := cfg.GetDigest().DemoGroupLimit; got != 2 {
		t.Errorf("demo group limit %d", got)
	}
}
