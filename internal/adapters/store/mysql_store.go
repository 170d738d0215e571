package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/mikey/lead-outreach/internal/core"
	"go.uber.org/zap"
)

// MySQLStore is a MySQL implementation of core.LeadRepository, for
// deployments sharing a lead database between machines
type MySQLStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewMySQLStore connects to MySQL and initializes the schema
func NewMySQLStore(dsn string, logger *zap.Logger) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS leads (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			email VARCHAR(320) NOT NULL,
			first_name VARCHAR(255),
			last_name VARCHAR(255),
			company VARCHAR(255),
			title VARCHAR(255),
			linkedin_url VARCHAR(512),
			city VARCHAR(255),
			state VARCHAR(255),
			country VARCHAR(255),
			timezone VARCHAR(64),
			snippets TEXT,
			status VARCHAR(32) NOT NULL DEFAULT 'pending',
			created_at DATETIME,
			updated_at DATETIME,
			INDEX idx_leads_status (status)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create leads table: %w", err)
	}

	return &MySQLStore{db: db, logger: logger}, nil
}

// Create stores a new lead and assigns its ID
func (s *MySQLStore) Create(ctx context.Context, lead *core.Lead) error {
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
		lead.City, lead.State, lead.Country, lead.Timezone, snippets, lead.Status, now, now)
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
func (s *MySQLStore) GetByID(ctx context.Context, id int64) (*core.Lead, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, email, first_name, last_name, company, title, linkedin_url,
			city, state, country, timezone, snippets, status, created_at, updated_at
		FROM leads WHERE id = ?
	`, id)

	lead, err := scanMySQLLead(row)
	if err == sql.ErrNoRows {
		return nil, ErrLeadNotFound
	}
	return lead, err
}

// ListByStatus returns up to limit leads in the given status, oldest first
func (s *MySQLStore) ListByStatus(ctx context.Context, status string, limit int) ([]*core.Lead, error) {
	if limit <= 0 {
		limit = 1000
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
		lead, err := scanMySQLLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

// UpdateSnippets replaces a lead's generated snippets
func (s *MySQLStore) UpdateSnippets(ctx context.Context, id int64, snippets map[string]string) error {
	encoded, err := encodeSnippets(snippets)
	if err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx, `
		UPDATE leads SET snippets = ?, updated_at = ? WHERE id = ?
	`, encoded, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update snippets: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrLeadNotFound
	}
	return nil
}

// UpdateStatus moves leads to a new status
func (s *MySQLStore) UpdateStatus(ctx context.Context, ids []int64, status string) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]interface{}, 0, len(ids)+2)
	args = append(args, status, time.Now())
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
func (s *MySQLStore) Close() error {
	return s.db.Close()
}

func scanMySQLLead(row rowScanner) (*core.Lead, error) {
	var lead core.Lead
	var snippets sql.NullString
	var createdAt, updatedAt sql.NullTime
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
		lead.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		lead.UpdatedAt = updatedAt.Time
	}
	return &lead, nil
}
