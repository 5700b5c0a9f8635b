// internal/database/consultations.go
//
// SQL-backed consultation writer.
//
// Context
// -------
// ConsultationRepository is the `backend.kind = sql` alternative to the
// Supabase REST client.  It satisfies lead.Submitter with one INSERT per
// call; id, status, and created_at are left to column defaults, exactly as
// the hosted table does.
//
// Expected schema (Postgres flavour):
//
//	CREATE TABLE consultations (
//	  id            uuid PRIMARY KEY DEFAULT gen_random_uuid(),
//	  name          text NOT NULL,
//	  email         text NOT NULL,
//	  company       text NOT NULL,
//	  business_size text NOT NULL,
//	  service       text NOT NULL,
//	  processes     text NOT NULL,
//	  status        text NOT NULL DEFAULT 'new',
//	  created_at    timestamptz NOT NULL DEFAULT now()
//	);
//
// Notes
// -----
// • Named parameters are rebound by sqlx to `$n` or `?` per driver.
// • The table name is validated once at construction; it is the only
//   identifier interpolated into SQL.
package database

import (
	"context"
	"fmt"
	"regexp"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/herai/automation-site/internal/lead"
)

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

// ConsultationRepository writes lead.Records through sqlx.
type ConsultationRepository struct {
	db     *sqlx.DB
	insert string
}

// NewConsultationRepository binds db to table.  Empty table means
// "consultations".
func NewConsultationRepository(db *sqlx.DB, table string) (*ConsultationRepository, error) {
	if table == "" {
		table = "consultations"
	}
	if !identPattern.MatchString(table) {
		return nil, fmt.Errorf("database: invalid table name %q", table)
	}
	return &ConsultationRepository{
		db: db,
		insert: `INSERT INTO ` + table +
			` (name, email, company, business_size, service, processes)` +
			` VALUES (:name, :email, :company, :business_size, :service, :processes)`,
	}, nil
}

// Submit implements lead.Submitter.
func (r *ConsultationRepository) Submit(ctx context.Context, rec lead.Record) error {
	res, err := r.db.NamedExecContext(ctx, r.insert, rec)
	if err != nil {
		zap.S().Warnw("consultation insert failed", "err", err)
		return lead.NewRemoteError("Database error: "+err.Error(), err)
	}
	if n, err := res.RowsAffected(); err == nil && n != 1 {
		return lead.NewRemoteError(fmt.Sprintf("Database error: %d rows inserted", n), nil)
	}
	return nil
}

// Ping reports whether the pool is reachable.  Used by /healthz.
func (r *ConsultationRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
