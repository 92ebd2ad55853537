// Package directory provides implementations of the external
// directory-search collaborator.
package directory

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
)

// StaticDirectory is an in-memory directory of display names, typically
// loaded from configuration. Lookups are case-insensitive substring matches
// against the display name; entries are scanned in sorted name order so the
// first match is deterministic.
type StaticDirectory struct {
	names     []string
	folded    []string
	addresses map[string]string
	logger    *zap.Logger
}

var fold = cases.Fold()

// NewStaticDirectory creates a directory from a display-name to address map.
func NewStaticDirectory(contacts map[string]string, logger *zap.Logger) *StaticDirectory {
	d := &StaticDirectory{
		addresses: make(map[string]string, len(contacts)),
		logger:    logger,
	}
	for name, addr := range contacts {
		name = strings.TrimSpace(name)
		addr = strings.TrimSpace(addr)
		if name == "" || !strings.Contains(addr, "@") {
			continue
		}
		d.names = append(d.names, name)
		d.addresses[name] = addr
	}
	sort.Strings(d.names)
	for _, name := range d.names {
		d.folded = append(d.folded, fold.String(name))
	}

	if len(d.names) > 0 {
		logger.Info("Initialized static directory", zap.Int("contacts", len(d.names)))
	}
	return d
}

// Search finds the first display name containing the fragment.
func (d *StaticDirectory) Search(ctx context.Context, fragment string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	needle := fold.String(strings.TrimSpace(fragment))
	if needle == "" {
		return "", nil
	}

	for i, folded := range d.folded {
		if strings.Contains(folded, needle) {
			name := d.names[i]
			d.logger.Debug("Directory hit",
				zap.String("fragment", fragment),
				zap.String("display_name", name))
			return d.addresses[name], nil
		}
	}
	return "", nil
}
