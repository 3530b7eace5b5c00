package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/domain"
)

type catalogStore struct {
	pool *pgxpool.Pool
}

const productColumns = `
	id, name, category, description, image_ref,
	base_price_cents, discount_percent, on_sale, discounted_price_cents,
	created_at, updated_at`

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Category, &p.Description, &p.ImageRef,
		&p.BasePriceCents, &p.DiscountPercent, &p.OnSale, &p.DiscountedPriceCents,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *catalogStore) Get(ctx context.Context, id int64) (*domain.Product, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, domain.Internal(err, "catalog.get", "failed to load product")
	}
	return p, nil
}

func (s *catalogStore) List(ctx context.Context) ([]domain.Product, error) {
	return s.query(ctx, `SELECT `+productColumns+` FROM products ORDER BY id`)
}

func (s *catalogStore) ListByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	return s.query(ctx,
		`SELECT `+productColumns+` FROM products WHERE lower(category) = lower($1) ORDER BY id`,
		category)
}

func (s *catalogStore) ListOnSale(ctx context.Context) ([]domain.Product, error) {
	return s.query(ctx, `SELECT `+productColumns+` FROM products WHERE on_sale ORDER BY id`)
}

func (s *catalogStore) query(ctx context.Context, sql string, args ...any) ([]domain.Product, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, domain.Internal(err, "catalog.list", "failed to list products")
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, domain.Internal(err, "catalog.list", "failed to scan product")
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "catalog.list", "failed to read products")
	}
	return out, nil
}

func (s *catalogStore) Put(ctx context.Context, p *domain.Product) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO products (
			id, name, category, description, image_ref,
			base_price_cents, discount_percent, on_sale, discounted_price_cents,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			category = EXCLUDED.category,
			description = EXCLUDED.description,
			image_ref = EXCLUDED.image_ref,
			base_price_cents = EXCLUDED.base_price_cents,
			discount_percent = EXCLUDED.discount_percent,
			on_sale = EXCLUDED.on_sale,
			discounted_price_cents = EXCLUDED.discounted_price_cents,
			updated_at = EXCLUDED.updated_at`,
		p.ID, p.Name, p.Category, p.Description, p.ImageRef,
		p.BasePriceCents, p.DiscountPercent, p.OnSale, p.DiscountedPriceCents,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return domain.Internal(err, "catalog.put", "failed to save product")
	}
	return nil
}

// Update locks the product row for the duration of the read-modify-write,
// so concurrent edits to the same product serialize while other products
// stay untouched.
func (s *catalogStore) Update(ctx context.Context, id int64, fn func(*domain.Product) error) (*domain.Product, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.Internal(err, "catalog.update", "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, domain.Internal(err, "catalog.update", "failed to load product")
	}

	if err := fn(p); err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		UPDATE products SET
			name = $2, category = $3, description = $4, image_ref = $5,
			base_price_cents = $6, discount_percent = $7, on_sale = $8,
			discounted_price_cents = $9, updated_at = $10
		WHERE id = $1`,
		p.ID, p.Name, p.Category, p.Description, p.ImageRef,
		p.BasePriceCents, p.DiscountPercent, p.OnSale,
		p.DiscountedPriceCents, p.UpdatedAt,
	)
	if err != nil {
		return nil, domain.Internal(err, "catalog.update", "failed to save product")
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.Internal(err, "catalog.update", "failed to commit")
	}
	return p, nil
}

func (s *catalogStore) Delete(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return domain.Internal(err, "catalog.delete", "failed to delete product")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (s *catalogStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM products`).Scan(&n); err != nil {
		return 0, domain.Internal(err, "catalog.count", "failed to count products")
	}
	return n, nil
}
