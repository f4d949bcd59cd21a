package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stammerchat/stammer/internal/stutter"
)

// PostgresStore persists drafts in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := initSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

func initSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS drafts (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			name TEXT NOT NULL,
			body TEXT NOT NULL,
			settings JSONB NOT NULL DEFAULT '{}'::jsonb,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_drafts_user_updated ON drafts (user_id, updated_at DESC);`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema failed on %q: %w", stmt, err)
		}
	}
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, d Draft) (Draft, error) {
	now := time.Now().UTC()
	if d.ID == "" {
		d.ID = uuid.NewString()
		d.CreatedAt = now
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	d.UpdatedAt = now

	settings, err := json.Marshal(d.Settings)
	if err != nil {
		return Draft{}, fmt.Errorf("encode settings: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO drafts (id, user_id, name, body, settings, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (id) DO UPDATE
		 SET name = EXCLUDED.name, body = EXCLUDED.body,
		     settings = EXCLUDED.settings, updated_at = EXCLUDED.updated_at`,
		d.ID,
		d.UserID,
		d.Name,
		d.Body,
		settings,
		d.CreatedAt,
		d.UpdatedAt,
	)
	if err != nil {
		return Draft{}, fmt.Errorf("save draft: %w", err)
	}
	return d, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (Draft, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, user_id, name, body, settings, created_at, updated_at
		 FROM drafts WHERE id = $1`, id)

	d, err := scanDraft(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Draft{}, ErrNotFound
	}
	if err != nil {
		return Draft{}, fmt.Errorf("get draft: %w", err)
	}
	return d, nil
}

func (s *PostgresStore) List(ctx context.Context, userID string, limit int) ([]Draft, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, name, body, settings, created_at, updated_at
		 FROM drafts WHERE ($1 = '' OR user_id = $1)
		 ORDER BY updated_at DESC LIMIT $2`,
		userID,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query drafts: %w", err)
	}
	defer rows.Close()

	drafts := make([]Draft, 0, limit)
	for rows.Next() {
		d, err := scanDraft(rows)
		if err != nil {
			return nil, fmt.Errorf("scan draft row: %w", err)
		}
		drafts = append(drafts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate draft rows: %w", err)
	}
	return drafts, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM drafts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func scanDraft(row pgx.Row) (Draft, error) {
	var d Draft
	var settings []byte
	if err := row.Scan(&d.ID, &d.UserID, &d.Name, &d.Body, &settings, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return Draft{}, err
	}
	if len(settings) > 0 {
		if err := json.Unmarshal(settings, &d.Settings); err != nil {
			d.Settings = stutter.RawSettings{}
		}
	}
	return d, nil
}
