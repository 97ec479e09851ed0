package customer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/stockroomhq/stockroom-backend/internal/apperr"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Create(ctx context.Context, s *Customer) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO customers (id, name, contact_name, email, phone, address, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		s.ID, s.Name, s.ContactName, s.Email, s.Phone, s.Address, s.Notes)
	if err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id uuid.UUID) (*Customer, error) {
	s := &Customer{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, contact_name, email, phone, address, notes, created_at, updated_at
		FROM customers WHERE id=$1`, id).
		Scan(&s.ID, &s.Name, &s.ContactName, &s.Email, &s.Phone, &s.Address,
			&s.Notes, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("customer", id)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *postgresRepo) List(ctx context.Context) ([]*Customer, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, contact_name, email, phone, address, notes, created_at, updated_at
		FROM customers ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var customers []*Customer
	for rows.Next() {
		s := &Customer{}
		if err := rows.Scan(&s.ID, &s.Name, &s.ContactName, &s.Email, &s.Phone,
			&s.Address, &s.Notes, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		customers = append(customers, s)
	}
	return customers, rows.Err()
}

func (r *postgresRepo) Update(ctx context.Context, s *Customer) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE customers
		SET name=$1, contact_name=$2, email=$3, phone=$4, address=$5, notes=$6, updated_at=NOW()
		WHERE id=$7`,
		s.Name, s.ContactName, s.Email, s.Phone, s.Address, s.Notes, s.ID)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return apperr.NotFound("customer", s.ID)
	}
	return nil
}

func (r *postgresRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id=$1`, id)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23503" {
		return apperr.Conflictf("customer is referenced by existing sales orders")
	}
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return apperr.NotFound("customer", id)
	}
	return nil
}
