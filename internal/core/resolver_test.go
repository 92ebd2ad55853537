package core

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"go.uber.org/zap"
)

type mapSource struct {
	columns []string
	rows    []Row
	err     error
}

func (m *mapSource) Load() ([]string, []Row, error) {
	return m.columns, m.rows, m.err
}

type fakeDirectory struct {
	addresses map[string]string
	calls     int
	err       error
}

func (d *fakeDirectory) Search(_ context.Context, fragment string) (string, error) {
	d.calls++
	if d.err != nil {
		return "", d.err
	}
	return d.addresses[fragment], nil
}

func mappingFixture() *mapSource {
	return &mapSource{
		columns: []string{"Username", "Email"},
		rows: []Row{
			{"Username": "JDOE", "Email": "j.doe@example.com"},
			{"Username": "asmith", "Email": "a.smith@example.com"},
			{"Username": "BJONES", "Email": "b.jones@example.com"},
		},
	}
}

func newTestResolver(t *testing.T, src MappingSource, dir DirectorySearcher) *Resolver {
	t.Helper()
	cfg := ResolverConfig{DirectoryEnabled: dir != nil}
	return NewResolver(src, dir, cfg, zap.NewNop())
}

func TestResolvePassthrough(t *testing.T) {
	r := newTestResolver(t, mappingFixture(), nil)
	res, ok := r.Resolve(context.Background(), "someone@example.com")
	if !ok {
		t.Fatal("expected passthrough resolution")
	}
	if res.Address != "someone@example.com" || res.Tier != TierPassthrough {
		t.Fatalf("unexpected resolution: %+v", res)
	}
	if s := r.Stats(); s != (ResolutionStats{}) {
		t.Fatalf("passthrough must not touch counters: %+v", s)
	}
}

func TestResolveExactCaseInsensitive(t *testing.T) {
	r := newTestResolver(t, mappingFixture(), nil)

	for _, id := range []string{"jdoe", "JDOE", "  JDoe  "} {
		res, ok := r.Resolve(context.Background(), id)
		if !ok {
			t.Fatalf("Resolve(%q): expected hit", id)
		}
		if res.Address != "j.doe@example.com" || res.Tier != TierExact {
			t.Fatalf("Resolve(%q) = %+v", id, res)
		}
	}
	if got := r.Stats().Mapped; got != 3 {
		t.Fatalf("mapped counter %d, want 3", got)
	}
}

func TestResolveExactBeatsFuzzy(t *testing.T) {
	src := &mapSource{
		columns: []string{"Username", "Email"},
		rows: []Row{
			{"Username": "DOE", "Email": "fuzzy@example.com"},
			{"Username": "JDOE", "Email": "exact@example.com"},
		},
	}
	r := newTestResolver(t, src, nil)
	res, ok := r.Resolve(context.Background(), "jdoe")
	if !ok || res.Address != "exact@example.com" || res.Tier != TierExact {
		t.Fatalf("unexpected resolution: %+v ok=%v", res, ok)
	}
}

func TestResolveFuzzyBothDirections(t *testing.T) {
	r := newTestResolver(t, mappingFixture(), nil)

	tests := []struct {
		id   string
		want string
	}{
		// Identifier contained in a key.
		{"doe", "j.doe@example.com"},
		// Key contained in the identifier.
		{"asmith-contractor", "a.smith@example.com"},
	}
	for _, tt := range tests {
		res, ok := r.Resolve(context.Background(), tt.id)
		if !ok {
			t.Fatalf("Resolve(%q): expected fuzzy hit", tt.id)
		}
		if res.Address != tt.want || res.Tier != TierFuzzy {
			t.Fatalf("Resolve(%q) = %+v, want %s", tt.id, res, tt.want)
		}
	}
}

func TestResolveFuzzyDeterministicFirstKey(t *testing.T) {
	src := &mapSource{
		columns: []string{"Username", "Email"},
		rows: []Row{
			{"Username": "ADOE", "Email": "a.doe@example.com"},
			{"Username": "BDOE", "Email": "b.doe@example.com"},
		},
	}
	// Both keys contain "DOE"; the earlier mapping row must win every time.
	for i := 0; i < 10; i++ {
		r := newTestResolver(t, src, nil)
		res, ok := r.Resolve(context.Background(), "doe")
		if !ok || res.Address != "a.doe@example.com" {
			t.Fatalf("run %d: got %+v ok=%v, want a.doe@example.com", i, res, ok)
		}
	}
}

func TestResolveNoSubstringNoMatch(t *testing.T) {
	src := &mapSource{
		columns: []string{"Username", "Email"},
		rows:    []Row{{"Username": "JDOE", "Email": "j.doe@example.com"}},
	}
	r := newTestResolver(t, src, nil)
	if _, ok := r.Resolve(context.Background(), "JOHND"); ok {
		t.Fatal("JOHND shares no substring relation with JDOE, must not resolve")
	}
	if got := r.Stats().Failed; got != 1 {
		t.Fatalf("failed counter %d, want 1", got)
	}
}

func TestResolveDirectoryTier(t *testing.T) {
	dir := &fakeDirectory{addresses: map[string]string{"Unknown User": "u.user@example.com"}}
	r := newTestResolver(t, mappingFixture(), dir)

	res, ok := r.Resolve(context.Background(), "Unknown User")
	if !ok || res.Address != "u.user@example.com" || res.Tier != TierDirectory {
		t.Fatalf("unexpected resolution: %+v ok=%v", res, ok)
	}
	if dir.calls != 1 {
		t.Fatalf("directory called %d times, want 1", dir.calls)
	}
	if got := r.Stats().DirectoryResolved; got != 1 {
		t.Fatalf("directory counter %d, want 1", got)
	}
}

func TestResolveDirectoryDisabled(t *testing.T) {
	dir := &fakeDirectory{addresses: map[string]string{"Unknown User": "u.user@example.com"}}
	r := NewResolver(mappingFixture(), dir, ResolverConfig{DirectoryEnabled: false}, zap.NewNop())

	if _, ok := r.Resolve(context.Background(), "Unknown User"); ok {
		t.Fatal("directory tier disabled, must not resolve")
	}
	if dir.calls != 0 {
		t.Fatalf("directory called %d times, want 0", dir.calls)
	}
}

func TestResolveDirectoryErrorFallsThrough(t *testing.T) {
	dir := &fakeDirectory{err: errors.New("connection refused")}
	r := newTestResolver(t, mappingFixture(), dir)

	if _, ok := r.Resolve(context.Background(), "whoever"); ok {
		t.Fatal("directory error must count as no match")
	}
	if got := r.Stats().Failed; got != 1 {
		t.Fatalf("failed counter %d, want 1", got)
	}
}

func TestUnmappedKeepsOriginalForm(t *testing.T) {
	r := newTestResolver(t, mappingFixture(), nil)
	ctx := context.Background()

	r.Resolve(ctx, "Mr. Nobody")
	r.Resolve(ctx, "ghost")
	r.Resolve(ctx, "Mr. Nobody") // duplicate failure, recorded once

	want := []string{"Mr. Nobody", "ghost"}
	if got := r.Unmapped(); !reflect.DeepEqual(got, want) {
		t.Fatalf("unmapped %v, want %v", got, want)
	}
	if got := r.Stats().Failed; got != 3 {
		t.Fatalf("failed counter %d, want 3 (one per attempt)", got)
	}
}

func TestAddManualMapping(t *testing.T) {
	r := newTestResolver(t, mappingFixture(), nil)
	ctx := context.Background()

	if _, ok := r.Resolve(ctx, "Mr. Nobody"); ok {
		t.Fatal("expected initial failure")
	}
	if !r.AddManualMapping("Mr. Nobody", "m.nobody@example.com") {
		t.Fatal("expected manual mapping to be accepted")
	}
	if len(r.Unmapped()) != 0 {
		t.Fatalf("unmapped still holds %v", r.Unmapped())
	}

	res, ok := r.Resolve(ctx, "mr. nobody")
	if !ok || res.Address != "m.nobody@example.com" || res.Tier != TierExact {
		t.Fatalf("unexpected resolution after manual mapping: %+v ok=%v", res, ok)
	}

	// Idempotent.
	if !r.AddManualMapping("Mr. Nobody", "m.nobody@example.com") {
		t.Fatal("repeat manual mapping must still succeed")
	}

	if r.AddManualMapping("someone", "not-an-address") {
		t.Fatal("address without @ must be rejected")
	}
	if r.AddManualMapping("  ", "x@example.com") {
		t.Fatal("blank identifier must be rejected")
	}
}

func TestLoadManualMappings(t *testing.T) {
	r := newTestResolver(t, &mapSource{columns: []string{"Username", "Email"}}, nil)
	src := &mapSource{
		columns: []string{"Username", "Status", "Mode", "Timestamp", "Email"},
		rows: []Row{
			{"Username": "GHOST", "Status": "Email Not Found", "Email": "ghost@example.com"},
			{"Username": "BLANK", "Status": "Email Not Found", "Email": ""},
		},
	}
	if added := r.LoadManualMappings(src); added != 1 {
		t.Fatalf("added %d, want 1", added)
	}
	if res, ok := r.Resolve(context.Background(), "ghost"); !ok || res.Address != "ghost@example.com" {
		t.Fatalf("unexpected resolution: %+v ok=%v", res, ok)
	}
}

func TestResolverDegradedMode(t *testing.T) {
	tests := []struct {
		name string
		src  MappingSource
	}{
		{"nil source", nil},
		{"load error", &mapSource{err: errors.New("no such file")}},
		{"no columns", &mapSource{}},
		{"no address column", &mapSource{
			columns: []string{"Username", "Notes"},
			rows:    []Row{{"Username": "JDOE", "Notes": "hello"}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestResolver(t, tt.src, nil)
			if r.MappingSize() != 0 {
				t.Fatalf("expected empty dictionary, got %d entries", r.MappingSize())
			}
			// Passthrough still works in degraded mode.
			if _, ok := r.Resolve(context.Background(), "x@example.com"); !ok {
				t.Fatal("passthrough must survive degraded mode")
			}
			if _, ok := r.Resolve(context.Background(), "JDOE"); ok {
				t.Fatal("dictionary tiers must miss in degraded mode")
			}
		})
	}
}

func TestMappingLoadRejectsRows(t *testing.T) {
	src := &mapSource{
		columns: []string{"Eng", "Email"},
		rows: []Row{
			{"Eng": "JDOE", "Email": "j.doe@example.com"},
			{"Eng": "", "Email": "orphan@example.com"},           // blank identifier
			{"Eng": "NOADDR", "Email": "missing-at-sign"},        // malformed address
			{"Eng": "eng", "Email": "header@example.com"},        // header token repeated in data
			{"Eng": "JDOE", "Email": "j.doe.alt@example.com"},    // duplicate key, last wins
		},
	}
	r := newTestResolver(t, src, nil)
	if r.MappingSize() != 1 {
		t.Fatalf("dictionary size %d, want 1", r.MappingSize())
	}
	res, ok := r.Resolve(context.Background(), "JDOE")
	if !ok || res.Address != "j.doe.alt@example.com" {
		t.Fatalf("unexpected resolution: %+v ok=%v", res, ok)
	}
}

func TestDetectAddressColumnByHeader(t *testing.T) {
	src := &mapSource{
		columns: []string{"Username", "Contact (@work)"},
		rows: []Row{
			{"Username": "JDOE", "Contact (@work)": "j.doe@example.com"},
		},
	}
	r := newTestResolver(t, src, nil)
	if r.MappingSize() != 1 {
		t.Fatalf("header containing @ must select the column, size %d", r.MappingSize())
	}
}

func TestDetectAddressColumnByValues(t *testing.T) {
	src := &mapSource{
		columns: []string{"Username", "Department", "Mail"},
		rows: []Row{
			{"Username": "JDOE", "Department": "Logistics", "Mail": "j.doe@example.com"},
			{"Username": "ASMITH", "Department": "Planning", "Mail": "a.smith@example.com"},
		},
	}
	r := newTestResolver(t, src, nil)
	if r.MappingSize() != 2 {
		t.Fatalf("value probing must find the Mail column, size %d", r.MappingSize())
	}
	res, ok := r.Resolve(context.Background(), "ASMITH")
	if !ok || res.Address != "a.smith@example.com" {
		t.Fatalf("unexpected resolution: %+v ok=%v", res, ok)
	}
}
