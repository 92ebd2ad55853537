package directory

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// SQLiteDirectory looks up addresses in a local SQLite contacts database.
type SQLiteDirectory struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteDirectory opens the contacts database, creating the table when it
// does not exist yet.
func NewSQLiteDirectory(dbPath string, logger *zap.Logger) (*SQLiteDirectory, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS contacts (
			display_name TEXT PRIMARY KEY,
			email TEXT NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create contacts table: %w", err)
	}

	return &SQLiteDirectory{db: db, logger: logger}, nil
}

// Search finds the first contact whose display name contains the fragment,
// case-insensitively, in display-name order.
func (d *SQLiteDirectory) Search(ctx context.Context, fragment string) (string, error) {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return "", nil
	}

	var email string
	err := d.db.QueryRowContext(ctx, `
		SELECT email FROM contacts
		WHERE display_name LIKE ? COLLATE NOCASE
		ORDER BY display_name
		LIMIT 1
	`, "%"+fragment+"%").Scan(&email)

	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("contacts query failed: %w", err)
	}

	d.logger.Debug("Directory hit",
		zap.String("fragment", fragment),
		zap.String("address", email))
	return email, nil
}

// Close releases the database handle.
func (d *SQLiteDirectory) Close() error {
	return d.db.Close()
}
