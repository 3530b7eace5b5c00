package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/domain"
)

type carouselStore struct {
	pool *pgxpool.Pool
}

func scanCarouselItem(row pgx.Row) (*domain.CarouselItem, error) {
	var item domain.CarouselItem
	err := row.Scan(&item.ID, &item.ImageRef, &item.Title, &item.Caption, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *carouselStore) Get(ctx context.Context, id int64) (*domain.CarouselItem, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, image_ref, title, caption, created_at, updated_at FROM carousel_items WHERE id = $1`, id)
	item, err := scanCarouselItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCarouselItemNotFound
		}
		return nil, domain.Internal(err, "carousel.get", "failed to load carousel item")
	}
	return item, nil
}

func (s *carouselStore) List(ctx context.Context) ([]domain.CarouselItem, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, image_ref, title, caption, created_at, updated_at FROM carousel_items ORDER BY id`)
	if err != nil {
		return nil, domain.Internal(err, "carousel.list", "failed to list carousel items")
	}
	defer rows.Close()

	var out []domain.CarouselItem
	for rows.Next() {
		item, err := scanCarouselItem(rows)
		if err != nil {
			return nil, domain.Internal(err, "carousel.list", "failed to scan carousel item")
		}
		out = append(out, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "carousel.list", "failed to read carousel items")
	}
	return out, nil
}

func (s *carouselStore) Put(ctx context.Context, item *domain.CarouselItem) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO carousel_items (id, image_ref, title, caption, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			image_ref = EXCLUDED.image_ref,
			title = EXCLUDED.title,
			caption = EXCLUDED.caption,
			updated_at = EXCLUDED.updated_at`,
		item.ID, item.ImageRef, item.Title, item.Caption, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return domain.Internal(err, "carousel.put", "failed to save carousel item")
	}
	return nil
}

func (s *carouselStore) Delete(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM carousel_items WHERE id = $1`, id)
	if err != nil {
		return domain.Internal(err, "carousel.delete", "failed to delete carousel item")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCarouselItemNotFound
	}
	return nil
}
