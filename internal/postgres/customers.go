package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/domain"
)

type customerStore struct {
	pool *pgxpool.Pool
}

const customerColumns = `
	email, first_name, last_name, password_hash, role, membership,
	cart, addresses, selected_address, created_at, updated_at`

func scanCustomer(row pgx.Row) (*domain.Customer, error) {
	var (
		c         domain.Customer
		cartJSON  []byte
		addrsJSON []byte
	)
	err := row.Scan(
		&c.Email, &c.FirstName, &c.LastName, &c.PasswordHash, &c.Role, &c.Membership,
		&cartJSON, &addrsJSON, &c.SelectedAddress, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(cartJSON) > 0 {
		if err := json.Unmarshal(cartJSON, &c.Cart); err != nil {
			return nil, err
		}
	}
	if len(addrsJSON) > 0 {
		if err := json.Unmarshal(addrsJSON, &c.Addresses); err != nil {
			return nil, err
		}
	}
	return &c, nil
}

func marshalCustomer(c *domain.Customer) (cartJSON, addrsJSON []byte, err error) {
	cartJSON, err = json.Marshal(&c.Cart)
	if err != nil {
		return nil, nil, err
	}
	if c.Addresses == nil {
		addrsJSON = []byte("[]")
	} else if addrsJSON, err = json.Marshal(c.Addresses); err != nil {
		return nil, nil, err
	}
	return cartJSON, addrsJSON, nil
}

func (s *customerStore) Get(ctx context.Context, email string) (*domain.Customer, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE email = $1`,
		strings.ToLower(email))
	c, err := scanCustomer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, domain.Internal(err, "customers.get", "failed to load customer")
	}
	return c, nil
}

func (s *customerStore) List(ctx context.Context) ([]domain.Customer, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+customerColumns+` FROM customers ORDER BY email`)
	if err != nil {
		return nil, domain.Internal(err, "customers.list", "failed to list customers")
	}
	defer rows.Close()

	var out []domain.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, domain.Internal(err, "customers.list", "failed to scan customer")
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "customers.list", "failed to read customers")
	}
	return out, nil
}

func (s *customerStore) Create(ctx context.Context, c *domain.Customer) error {
	cartJSON, addrsJSON, err := marshalCustomer(c)
	if err != nil {
		return domain.Internal(err, "customers.create", "failed to encode customer")
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO customers (
			email, first_name, last_name, password_hash, role, membership,
			cart, addresses, selected_address, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		strings.ToLower(c.Email), c.FirstName, c.LastName, c.PasswordHash, c.Role, c.Membership,
		cartJSON, addrsJSON, c.SelectedAddress, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrDuplicateEmail
		}
		return domain.Internal(err, "customers.create", "failed to create customer")
	}
	return nil
}

// Update runs the read-modify-write inside a transaction holding the
// customer's row lock. Writes for one customer serialize; other
// customers' rows are untouched, so there is no cross-customer
// contention.
func (s *customerStore) Update(ctx context.Context, email string, fn func(*domain.Customer) error) (*domain.Customer, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.Internal(err, "customers.update", "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE email = $1 FOR UPDATE`,
		strings.ToLower(email))
	c, err := scanCustomer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, domain.Internal(err, "customers.update", "failed to load customer")
	}

	if err := fn(c); err != nil {
		return nil, err
	}

	cartJSON, addrsJSON, err := marshalCustomer(c)
	if err != nil {
		return nil, domain.Internal(err, "customers.update", "failed to encode customer")
	}

	_, err = tx.Exec(ctx, `
		UPDATE customers SET
			first_name = $2, last_name = $3, password_hash = $4, role = $5,
			membership = $6, cart = $7, addresses = $8, selected_address = $9,
			updated_at = now()
		WHERE email = $1`,
		strings.ToLower(email), c.FirstName, c.LastName, c.PasswordHash, c.Role,
		c.Membership, cartJSON, addrsJSON, c.SelectedAddress,
	)
	if err != nil {
		return nil, domain.Internal(err, "customers.update", "failed to save customer")
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.Internal(err, "customers.update", "failed to commit")
	}
	return c, nil
}

func (s *customerStore) Delete(ctx context.Context, email string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM customers WHERE email = $1`, strings.ToLower(email))
	if err != nil {
		return domain.Internal(err, "customers.delete", "failed to delete customer")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCustomerNotFound
	}
	return nil
}

func (s *customerStore) CountByRole(ctx context.Context, role domain.Role) (int64, error) {
	var n int64
	err := s.pool.QueryRow(ctx, `SELECT count(*) FROM customers WHERE role = $1`, role).Scan(&n)
	if err != nil {
		return 0, domain.Internal(err, "customers.count", "failed to count customers")
	}
	return n, nil
}
