package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Record(ctx context.Context, e Entry) error {
	var details interface{}
	if len(e.Details) > 0 {
		b, err := json.Marshal(e.Details)
		if err != nil {
			return fmt.Errorf("marshal audit details: %w", err)
		}
		details = b
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_logs (actor_id, actor_name, action, resource_type, resource_id, details)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		e.ActorID, e.ActorName, e.Action, e.ResourceType, e.ResourceID, details)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

func (r *postgresRepo) List(ctx context.Context, limit, offset int) ([]*Entry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, actor_id, actor_name, action, resource_type, resource_id, details, created_at
		FROM audit_logs ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []*Entry
	for rows.Next() {
		e := &Entry{}
		var actorID, resourceID sql.NullString
		var details []byte
		if err := rows.Scan(&e.ID, &actorID, &e.ActorName, &e.Action,
			&e.ResourceType, &resourceID, &details, &e.CreatedAt); err != nil {
			return nil, err
		}
		if actorID.Valid {
			e.ActorID = mustParse(actorID.String)
		}
		if resourceID.Valid {
			id := mustParse(resourceID.String)
			e.ResourceID = &id
		}
		if len(details) > 0 {
			_ = json.Unmarshal(details, &e.Details)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func mustParse(s string) uuid.UUID {
	id, _ := uuid.Parse(s)
	return id
}
