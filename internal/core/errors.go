package core

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMappingSourceUnavailable indicates the mapping file is missing or
// unreadable. The resolver degrades to an empty dictionary instead of
// failing the run.
var ErrMappingSourceUnavailable = errors.New("mapping source unavailable")

// Sheet rejection reasons reported by the selector.
const (
	RejectEmpty            = "empty"
	RejectPivot            = "pivot"
	RejectMissingMandatory = "missing_mandatory_columns"
)

// SheetRejection explains why one sheet was not selectable.
type SheetRejection struct {
	SheetName      string
	Reason         string
	Detail         string
	MissingColumns []string
}

func (r SheetRejection) String() string {
	if len(r.MissingColumns) > 0 {
		return fmt.Sprintf("%s: %s (missing %s)", r.SheetName, r.Reason, strings.Join(r.MissingColumns, ", "))
	}
	if r.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", r.SheetName, r.Reason, r.Detail)
	}
	return fmt.Sprintf("%s: %s", r.SheetName, r.Reason)
}

// SheetNotFoundError is returned when no sheet passes pivot rejection and
// the mandatory-column check. It carries the per-sheet rejection list so the
// operator can see what each sheet was missing.
type SheetNotFoundError struct {
	WorkbookName string
	Rejections   []SheetRejection
}

func (e *SheetNotFoundError) Error() string {
	parts := make([]string, 0, len(e.Rejections))
	for _, r := range e.Rejections {
		parts = append(parts, r.String())
	}
	return fmt.Sprintf("no usable data sheet in workbook %q: %s", e.WorkbookName, strings.Join(parts, "; "))
}

// NoRowsMatchError is returned when the status filter yields zero rows. The
// observed statuses guide configuration correction.
type NoRowsMatchError struct {
	StatusField      string
	TargetStatuses   []string
	ObservedStatuses []string
}

func (e *NoRowsMatchError) Error() string {
	return fmt.Sprintf("no rows with %s in %v (statuses present: %v)",
		e.StatusField, e.TargetStatuses, e.ObservedStatuses)
}

// NoValidKeysError is returned when every filtered row lacks a usable
// requester value.
type NoValidKeysError struct {
	KeyField string
}

func (e *NoValidKeysError) Error() string {
	return fmt.Sprintf("no rows with a non-blank %q value", e.KeyField)
}
