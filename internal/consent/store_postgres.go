package consent

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// PostgresStore persists preferences in PostgreSQL.
//
// Schema:
//
//	CREATE TABLE telemetry_preferences (
//	    user_id        TEXT PRIMARY KEY,
//	    only_anonymous BOOLEAN NOT NULL,
//	    opted_out      BOOLEAN NOT NULL,
//	    updated_at     TIMESTAMPTZ NOT NULL
//	);
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, pref Preference) error {
	if pref.UpdatedAt.IsZero() {
		pref.UpdatedAt = time.Now()
	}
	query := `
		INSERT INTO telemetry_preferences (user_id, only_anonymous, opted_out, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			only_anonymous = EXCLUDED.only_anonymous,
			opted_out = EXCLUDED.opted_out,
			updated_at = EXCLUDED.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, pref.UserID, pref.OnlyAnonymous, pref.OptedOut, pref.UpdatedAt); err != nil {
		return fmt.Errorf("save preference: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, userID string) (Preference, bool, error) {
	pref := Preference{UserID: userID}
	err := s.db.QueryRowContext(ctx,
		`SELECT only_anonymous, opted_out, updated_at FROM telemetry_preferences WHERE user_id = $1`,
		userID,
	).Scan(&pref.OnlyAnonymous, &pref.OptedOut, &pref.UpdatedAt)
	if err == sql.ErrNoRows {
		return Preference{}, false, nil
	}
	if err != nil {
		return Preference{}, false, fmt.Errorf("get preference: %w", err)
	}
	return pref, true, nil
}

func (s *PostgresStore) Delete(ctx context.Context, userID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM telemetry_preferences WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete preference: %w", err)
	}
	return nil
}
