package core

import (
	"strings"
)

// FilterByStatus restricts the selected sheet's rows to those whose status
// cell is exactly (case-sensitive, untrimmed) one of the target statuses.
// Zero matches is a normal value, not an error: the returned set carries the
// distinct statuses observed so the caller can report them.
func FilterByStatus(ds *SelectedDataset, statusField string, targetStatuses []string) *FilteredRecordSet {
	targets := make(map[string]struct{}, len(targetStatuses))
	for _, t := range targetStatuses {
		targets[t] = struct{}{}
	}

	out := &FilteredRecordSet{StatusField: statusField}
	seen := make(map[string]struct{})
	for _, row := range ds.Sheet.Rows {
		status := row.Get(statusField)
		if status != "" {
			if _, ok := seen[status]; !ok {
				seen[status] = struct{}{}
				out.ObservedStatuses = append(out.ObservedStatuses, status)
			}
		}
		if _, ok := targets[status]; ok {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// Refilter applies FilterByStatus to an already-filtered set. Filtering is
// idempotent: refiltering by the same status set returns an equal set.
func Refilter(rs *FilteredRecordSet, statusField string, targetStatuses []string) *FilteredRecordSet {
	ds := &SelectedDataset{Sheet: Sheet{Rows: rs.Rows}}
	return FilterByStatus(ds, statusField, targetStatuses)
}

// GroupByRequester partitions the filtered rows by the trimmed value of the
// key field, dropping rows whose key is blank. Group order follows the first
// occurrence of each key. It returns *NoValidKeysError when no row has a
// usable key.
func GroupByRequester(rs *FilteredRecordSet, keyField string) ([]RequesterGroup, error) {
	var (
		groups []RequesterGroup
		index  = make(map[string]int)
	)

	for _, row := range rs.Rows {
		key := strings.TrimSpace(row.Get(keyField))
		if key == "" {
			continue
		}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, RequesterGroup{Key: key})
		}
		groups[i].Rows = append(groups[i].Rows, row)
	}

	if len(groups) == 0 {
		return nil, &NoValidKeysError{KeyField: keyField}
	}
	return groups, nil
}
