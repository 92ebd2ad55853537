package directory

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

// MySQLDirectory looks up addresses in a shared MySQL contacts table.
type MySQLDirectory struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewMySQLDirectory connects to the contacts database.
func NewMySQLDirectory(dsn string, logger *zap.Logger) (*MySQLDirectory, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL connection: %w", err)
	}

	db.SetConnMaxLifetime(time.Minute * 3)
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(5)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS contacts (
			display_name VARCHAR(255) PRIMARY KEY,
			email VARCHAR(255) NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create contacts table: %w", err)
	}

	return &MySQLDirectory{db: db, logger: logger}, nil
}

// Search finds the first contact whose display name contains the fragment.
// MySQL's default collation makes LIKE case-insensitive.
func (d *MySQLDirectory) Search(ctx context.Context, fragment string) (string, error) {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return "", nil
	}

	var email string
	err := d.db.QueryRowContext(ctx, `
		SELECT email FROM contacts
		WHERE display_name LIKE ?
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
func (d *MySQLDirectory) Close() error {
	return d.db.Close()
}
