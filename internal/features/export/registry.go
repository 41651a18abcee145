package export

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// FilingRecord is one row of the county's Postgres case registry.
type FilingRecord struct {
	CaseNumber     string
	FirstName      string
	LastName       string
	TypeOfIncident string
	DateOfIncident string
	ReviewerEmail  string
	SignerEmail    string
	DocumentID     string
	FiledAt        time.Time
}

// RegistryClient writes completed filings into the county registry.
type RegistryClient interface {
	UpsertFiling(ctx context.Context, rec FilingRecord) error
	Ping(ctx context.Context) error
	Close() error
}

type PostgresRegistry struct {
	db *sql.DB
}

func NewPostgresRegistry(dsn string) (RegistryClient, error) {
	if dsn == "" {
		return nil, fmt.Errorf("registry DSN not configured")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open registry connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)

	return &PostgresRegistry{db: db}, nil
}

// UpsertFiling is keyed on case_number, so re-exporting a filing is
// harmless.
func (r *PostgresRegistry) UpsertFiling(ctx context.Context, rec FilingRecord) error {
	const query = `
		INSERT INTO filings (
			case_number, first_name, last_name, type_of_incident, date_of_incident,
			reviewer_email, signer_email, document_id, filed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (case_number) DO UPDATE SET
			document_id = EXCLUDED.document_id,
			filed_at = EXCLUDED.filed_at
	`

	_, err := r.db.ExecContext(ctx, query,
		rec.CaseNumber, rec.FirstName, rec.LastName, rec.TypeOfIncident, rec.DateOfIncident,
		rec.ReviewerEmail, rec.SignerEmail, rec.DocumentID, rec.FiledAt,
	)
	if err != nil {
		return fmt.Errorf("upsert filing %s: %w", rec.CaseNumber, err)
	}
	return nil
}

func (r *PostgresRegistry) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *PostgresRegistry) Close() error {
	return r.db.Close()
}
