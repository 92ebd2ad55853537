package core

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ResolverConfig holds the resolver's tunable behavior.
type ResolverConfig struct {
	// DirectoryEnabled turns the external directory tier on.
	DirectoryEnabled bool
	// DirectoryPace is a fixed delay before each directory lookup. It is a
	// throttle for the external collaborator, not a correctness requirement.
	DirectoryPace time.Duration
}

// Resolver maps a requester identifier to a deliverable address through a
// tiered strategy: passthrough for values already shaped like an address,
// exact dictionary hit, substring dictionary hit, then the external
// directory. Identifiers no tier can resolve are recorded for export.
//
// The resolver owns its mapping, unmapped set and stats; it is not safe for
// concurrent use and the pipeline never shares it across goroutines.
type Resolver struct {
	mapping  map[string]string
	keys     []string // mapping keys in load order, so the fuzzy tier is deterministic
	unmapped []string
	seen     map[string]struct{}
	stats    ResolutionStats

	directory DirectorySearcher
	cfg       ResolverConfig
	logger    *zap.Logger
}

// NewResolver creates a resolver and loads its dictionary from the mapping
// source. A missing or unreadable source degrades to an empty dictionary:
// every identifier then falls through to the later tiers.
func NewResolver(src MappingSource, directory DirectorySearcher, cfg ResolverConfig, logger *zap.Logger) *Resolver {
	r := &Resolver{
		mapping:   make(map[string]string),
		seen:      make(map[string]struct{}),
		directory: directory,
		cfg:       cfg,
		logger:    logger,
	}
	if src != nil {
		r.loadMapping(src)
	} else {
		logger.Warn("No mapping source configured, resolver starts in degraded mode")
	}
	return r
}

func (r *Resolver) loadMapping(src MappingSource) {
	columns, rows, err := src.Load()
	if err != nil {
		r.logger.Warn("Mapping source unavailable, resolver starts in degraded mode", zap.Error(err))
		return
	}
	if len(columns) == 0 {
		r.logger.Warn("Mapping source has no columns, resolver starts in degraded mode")
		return
	}

	idCol := columns[0]
	addrCol, ok := detectAddressColumn(columns, rows)
	if !ok {
		r.logger.Warn("No address column detected in mapping source, resolver starts in degraded mode",
			zap.Strings("columns", columns))
		return
	}

	headerToken := normalizeIdentifier(idCol)
	accepted := 0
	for _, row := range rows {
		id := normalizeIdentifier(row.Get(idCol))
		addr := strings.TrimSpace(row.Get(addrCol))
		if id == "" || id == headerToken || !strings.Contains(addr, "@") {
			continue
		}
		if _, exists := r.mapping[id]; !exists {
			r.keys = append(r.keys, id)
		}
		r.mapping[id] = addr
		accepted++
	}

	r.logger.Info("Loaded email mapping",
		zap.String("identifier_column", idCol),
		zap.String("address_column", addrCol),
		zap.Int("entries", len(r.mapping)),
		zap.Int("accepted_rows", accepted))
}

// detectAddressColumn picks the address-bearing column: a column whose name
// contains "@" wins outright, otherwise the first non-identifier column
// whose first few non-empty values contain "@".
func detectAddressColumn(columns []string, rows []Row) (string, bool) {
	for _, c := range columns {
		if strings.Contains(c, "@") {
			return c, true
		}
	}
	const sampleSize = 3
	for _, c := range columns[1:] {
		sampled := 0
		for _, row := range rows {
			v := strings.TrimSpace(row.Get(c))
			if v == "" {
				continue
			}
			if strings.Contains(v, "@") {
				return c, true
			}
			sampled++
			if sampled >= sampleSize {
				break
			}
		}
	}
	return "", false
}

func normalizeIdentifier(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// looksLikeAddress is the basic shape check for the passthrough tier.
func looksLikeAddress(s string) bool {
	return strings.Contains(s, "@") && strings.Contains(s, ".")
}

// Resolve maps an identifier to an address. The boolean is false when no
// tier resolved it; the identifier is then recorded in the unmapped set in
// its original form.
func (r *Resolver) Resolve(ctx context.Context, identifier string) (Resolution, bool) {
	if identifier == "" {
		r.markFailed(identifier)
		return Resolution{}, false
	}

	// Tier 0: already an address. No counters.
	if looksLikeAddress(identifier) {
		return Resolution{Address: identifier, Tier: TierPassthrough}, true
	}

	normalized := normalizeIdentifier(identifier)

	// Tier 1: exact dictionary hit.
	if addr, ok := r.mapping[normalized]; ok {
		r.stats.Mapped++
		r.logger.Debug("Resolved via mapping",
			zap.String("identifier", identifier),
			zap.String("address", addr))
		return Resolution{Address: addr, Tier: TierExact}, true
	}

	// Tier 2: substring match either direction, first hit in load order.
	for _, key := range r.keys {
		if strings.Contains(key, normalized) || strings.Contains(normalized, key) {
			addr := r.mapping[key]
			r.stats.Mapped++
			r.logger.Info("Resolved via partial mapping match",
				zap.String("identifier", identifier),
				zap.String("matched_key", key),
				zap.String("address", addr))
			return Resolution{Address: addr, Tier: TierFuzzy}, true
		}
	}

	// Tier 3: external directory.
	if r.cfg.DirectoryEnabled && r.directory != nil {
		if addr := r.searchDirectory(ctx, identifier); addr != "" {
			r.stats.DirectoryResolved++
			r.logger.Info("Resolved via directory",
				zap.String("identifier", identifier),
				zap.String("address", addr))
			return Resolution{Address: addr, Tier: TierDirectory}, true
		}
	}

	r.markFailed(identifier)
	r.logger.Warn("No address resolution found", zap.String("identifier", identifier))
	return Resolution{}, false
}

func (r *Resolver) searchDirectory(ctx context.Context, fragment string) string {
	if r.cfg.DirectoryPace > 0 {
		select {
		case <-time.After(r.cfg.DirectoryPace):
		case <-ctx.Done():
			return ""
		}
	}
	addr, err := r.directory.Search(ctx, fragment)
	if err != nil {
		r.logger.Warn("Directory search failed",
			zap.String("fragment", fragment),
			zap.Error(err))
		return ""
	}
	return addr
}

func (r *Resolver) markFailed(identifier string) {
	r.stats.Failed++
	if _, ok := r.seen[identifier]; ok {
		return
	}
	r.seen[identifier] = struct{}{}
	r.unmapped = append(r.unmapped, identifier)
}

// AddManualMapping inserts or overwrites an exact-tier entry and discards
// the identifier from the unmapped set. Idempotent; addresses without "@"
// are rejected.
func (r *Resolver) AddManualMapping(identifier, address string) bool {
	address = strings.TrimSpace(address)
	if strings.TrimSpace(identifier) == "" || !strings.Contains(address, "@") {
		return false
	}

	normalized := normalizeIdentifier(identifier)
	if _, exists := r.mapping[normalized]; !exists {
		r.keys = append(r.keys, normalized)
	}
	r.mapping[normalized] = address

	if _, ok := r.seen[identifier]; ok {
		delete(r.seen, identifier)
		for i, u := range r.unmapped {
			if u == identifier {
				r.unmapped = append(r.unmapped[:i], r.unmapped[i+1:]...)
				break
			}
		}
	}

	r.logger.Info("Added manual mapping",
		zap.String("identifier", normalized),
		zap.String("address", address))
	return true
}

// LoadManualMappings feeds a previously exported unmapped workbook, with
// its address column filled in by the operator, back through
// AddManualMapping. It returns the number of entries added.
func (r *Resolver) LoadManualMappings(src MappingSource) int {
	columns, rows, err := src.Load()
	if err != nil {
		r.logger.Warn("Manual mapping source unavailable", zap.Error(err))
		return 0
	}

	idCol, addrCol := "", ""
	for _, c := range columns {
		switch strings.ToLower(strings.TrimSpace(c)) {
		case "username", "identifier":
			if idCol == "" {
				idCol = c
			}
		case "email", "address":
			if addrCol == "" {
				addrCol = c
			}
		}
	}
	if idCol == "" || addrCol == "" {
		r.logger.Warn("Manual mapping source lacks Username/Email columns",
			zap.Strings("columns", columns))
		return 0
	}

	added := 0
	for _, row := range rows {
		if r.AddManualMapping(row.Get(idCol), row.Get(addrCol)) {
			added++
		}
	}
	r.logger.Info("Loaded manual mappings", zap.Int("added", added))
	return added
}

// Unmapped returns the identifiers no tier resolved, in first-failure order
// and original (non-normalized) form.
func (r *Resolver) Unmapped() []string {
	out := make([]string, len(r.unmapped))
	copy(out, r.unmapped)
	return out
}

// MappingSize returns the number of dictionary entries.
func (r *Resolver) MappingSize() int {
	return len(r.mapping)
}

// ResetStats zeroes the tier counters at the start of a dispatch batch.
func (r *Resolver) ResetStats() {
	r.stats = ResolutionStats{}
}

// Stats returns a copy of the tier counters.
func (r *Resolver) Stats() ResolutionStats {
	return r.stats
}
