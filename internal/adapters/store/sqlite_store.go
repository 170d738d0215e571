package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikey/lead-outreach/internal/core"
	"go.uber.org/zap"
)

// SQLiteStore is a SQLite implementation of core.LeadRepository
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteStore opens (and if necessary initializes) a SQLite lead store
func NewSQLiteStore(dbPath string, logger *zap.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	if err := initLeadSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db, logger: logger}, nil
}

func initLeadSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS leads (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			email TEXT NOT NULL,
			first_name TEXT,
			last_name TEXT,
			company TEXT,
			title TEXT,
			linkedin_url TEXT,
			city TEXT,
			state TEXT,
			country TEXT,
			timezone TEXT,
			snippets TEXT,
			status TEXT NOT NULL DEFAULT 'pending',
			created_at TIMESTAMP,
			updated_at TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create leads table: %w", err)
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_leads_status ON leads(status)`)
	if err != nil {
		return fmt.Errorf("failed to create status index: %w", err)
	}
	return nil
}

// Create stores a new lead and assigns its ID
func (s *SQLiteStore) Create(ctx context.Context, lead *core.Lead) error {
	if lead.Status == "" {
		lead.Status = core.LeadStatusPending
	}
	now := time.Now()
	lead.CreatedAt = now
	lead.UpdatedAt = now

	snippets, err := encodeSnippets(lead.Snippets)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO leads (email, first_name, last_name, company, title, linkedin_url,
			city, state, country, timezone, snippets, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, lead.Email, lead.FirstName, lead.LastName, lead.Company, lead.Title, lead.LinkedinURL,
		lead.City, lead.State, lead.Country, lead.Timezone, snippets, lead.Status,
		now.Format(time.RFC3339), now.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to insert lead: %w", err)
	}

	lead.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read lead id: %w", err)
	}
	return nil
}

// GetByID fetches one lead
func (s *SQLiteStore) GetByID(ctx context.Context, id int64) (*core.Lead, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, email, first_name, last_name, company, title, linkedin_url,
			city, state, country, timezone, snippets, status, created_at, updated_at
		FROM leads WHERE id = ?
	`, id)

	lead, err := scanLead(row)
	if err == sql.ErrNoRows {
		return nil, ErrLeadNotFound
	}
	return lead, err
}

// ListByStatus returns up to limit leads in the given status, oldest first
func (s *SQLiteStore) ListByStatus(ctx context.Context, status string, limit int) ([]*core.Lead, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, email, first_name, last_name, company, title, linkedin_url,
			city, state, country, timezone, snippets, status, created_at, updated_at
		FROM leads WHERE status = ? ORDER BY id LIMIT ?
	`, status, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leads: %w", err)
	}
	defer rows.Close()

	var leads []*core.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

// UpdateSnippets replaces a lead's generated snippets
func (s *SQLiteStore) UpdateSnippets(ctx context.Context, id int64, snippets map[string]string) error {
	encoded, err := encodeSnippets(snippets)
	if err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx, `
		UPDATE leads SET snippets = ?, updated_at = ? WHERE id = ?
	`, encoded, time.Now().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("failed to update snippets: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrLeadNotFound
	}
	return nil
}

// UpdateStatus moves leads to a new status
func (s *SQLiteStore) UpdateStatus(ctx context.Context, ids []int64, status string) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]interface{}, 0, len(ids)+2)
	args = append(args, status, time.Now().Format(time.RFC3339))
	for _, id := range ids {
		args = append(args, id)
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE leads SET status = ?, updated_at = ? WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return fmt.Errorf("failed to update lead status: %w", err)
	}
	return nil
}

// Close closes the underlying database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLead(row rowScanner) (*core.Lead, error) {
	var lead core.Lead
	var snippets, createdAt, updatedAt sql.NullString
	err := row.Scan(&lead.ID, &lead.Email, &lead.FirstName, &lead.LastName, &lead.Company,
		&lead.Title, &lead.LinkedinURL, &lead.City, &lead.State, &lead.Country,
		&lead.Timezone, &snippets, &lead.Status, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if snippets.Valid && snippets.String != "" {
		if err := json.Unmarshal([]byte(snippets.String), &lead.Snippets); err != nil {
			return nil, fmt.Errorf("failed to decode snippets: %w", err)
		}
	}
	if createdAt.Valid {
		lead.CreatedAt, _ = time.Parse(time.RFC3339, createdAt.String)
	}
	if updatedAt.Valid {
		lead.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt.String)
	}
	return &lead, nil
}

func encodeSnippets(snippets map[string]string) (string, error) {
	if len(snippets) == 0 {
		return "", nil
	}
	encoded, err := json.Marshal(snippets)
	if err != nil {
		return "", fmt.Errorf("failed to encode snippets: %w", err)
	}
	return string(encoded), nil
}
