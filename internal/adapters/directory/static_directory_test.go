package directory

import (
	"context"
	"testing"

	"go.uber.org/zap"
)

func testContacts() map[string]string {
	return map[string]string{
		"Doe, John":    "j.doe@example.com",
		"Doe, Jane":    "jane.doe@example.com",
		"Smith, Alice": "a.smith@example.com",
		"":             "blank@example.com",
		"No Address":   "not-an-address",
	}
}

func TestStaticDirectorySearch(t *testing.T) {
	d := NewStaticDirectory(testContacts(), zap.NewNop())
	ctx := context.Background()

	tests := []struct {
		name     string
		fragment string
		want     string
	}{
		{"case insensitive substring", "smith", "a.smith@example.com"},
		{"uppercase fragment", "SMITH", "a.smith@example.com"},
		{"first match in sorted order", "Doe", "jane.doe@example.com"},
		{"full name", "Doe, John", "j.doe@example.com"},
		{"no match", "Zebra", ""},
		{"blank fragment", "   ", ""},
		{"entry without address skipped", "No Address", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.Search(ctx, tt.fragment)
			if err != nil {
				t.Fatalf("Search(%q): %v", tt.fragment, err)
			}
			if got != tt.want {
				t.Errorf("Search(%q) = %q, want %q", tt.fragment, got, tt.want)
			}
		})
	}
}

func TestStaticDirectoryCancelledContext(t *testing.T) {
	d := NewStaticDirectory(testContacts(), zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := d.Search(ctx, "smith"); err == nil {
		t.Fatal("expected context error")
	}
}

func TestStaticDirectoryEmpty(t *testing.T) {
	d := NewStaticDirectory(nil, zap.NewNop())
	got, err := d.Search(context.Background(), "anyone")
	if err != nil || got != "" {
		t.Fatalf("Search on empty directory = %q, %v", got, err)
	}
}
