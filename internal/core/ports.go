package core

import (
	"context"
)

// DirectorySearcher defines the interface for the external directory lookup
// used by the resolver's last tier. An empty address with a nil error means
// no directory entry matched.
type DirectorySearcher interface {
	// Search finds an address whose display name contains the fragment,
	// case-insensitively.
	Search(ctx context.Context, fragment string) (string, error)
}

// MailTransport defines the interface for sending a single message.
type MailTransport interface {
	// Send delivers one message. A non-nil error counts as a transport
	// failure for that message only.
	Send(ctx context.Context, msg *OutboundMessage) error
}

// DigestRenderer defines the interface for building the per-requester
// digest message.
type DigestRenderer interface {
	// Render produces the subject and HTML body for one requester group.
	Render(group RequesterGroup) (*Message, error)
}

// MappingSource defines the interface for the external table the resolver's
// dictionary is loaded from.
type MappingSource interface {
	// Load returns the source's column names and rows.
	Load() (columns []string, rows []Row, err error)
}

// UnmappedExporter defines the interface for writing the unresolved
// identifier report.
type UnmappedExporter interface {
	// Export writes one row per entry and returns the artifact path.
	Export(entries []UnmappedEntry) (string, error)
}
