// Package postgres persists the console audit trail durably. Enabled when
// CONSOLE_POSTGRES_URL is set; deployments that accept a volatile trail run
// the in-memory store instead.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"betelgeuse-console/internal/audit"
)

type Store struct {
	pool *pgxpool.Pool
}

// New connects a pgx pool and ensures the audit table exists.
func New(ctx context.Context, url string) (*Store, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}
	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS console_audit_events (
			id          BIGSERIAL PRIMARY KEY,
			category    TEXT        NOT NULL,
			action      TEXT        NOT NULL,
			actor       TEXT        NOT NULL DEFAULT '',
			entity_type TEXT        NOT NULL DEFAULT '',
			entity_id   TEXT        NOT NULL DEFAULT '',
			detail      TEXT        NOT NULL DEFAULT '',
			client_ip   TEXT        NOT NULL DEFAULT '',
			user_agent  TEXT        NOT NULL DEFAULT '',
			browser     TEXT        NOT NULL DEFAULT '',
			os          TEXT        NOT NULL DEFAULT '',
			request_id  TEXT        NOT NULL DEFAULT '',
			occurred_at TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("create audit table: %w", err)
	}
	return nil
}

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO console_audit_events
			(category, action, actor, entity_type, entity_id, detail,
			 client_ip, user_agent, browser, os, request_id, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		string(event.Category), string(event.Action), event.Actor,
		event.EntityType, event.EntityID, event.Detail,
		event.ClientIP, event.UserAgent, event.Browser, event.OS,
		event.RequestID, event.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

func (s *Store) ListRecent(ctx context.Context, limit int) ([]audit.Event, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx, `
		SELECT category, action, actor, entity_type, entity_id, detail,
		       client_ip, user_agent, browser, os, request_id, occurred_at
		FROM console_audit_events
		ORDER BY occurred_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	var events []audit.Event
	for rows.Next() {
		var e audit.Event
		var category, action string
		if err := rows.Scan(&category, &action, &e.Actor, &e.EntityType,
			&e.EntityID, &e.Detail, &e.ClientIP, &e.UserAgent,
			&e.Browser, &e.OS, &e.RequestID, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		e.Category = audit.EventCategory(category)
		e.Action = audit.Action(action)
		events = append(events, e)
	}
	return events, rows.Err()
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}
