package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/andreasstove999/ecommerce-system/services/storefront-state-go/internal/catalog"
)

// DBPool matches the methods from *pgxpool.Pool that we use.
// This allows us to mock the database in tests.
type DBPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// PostgresRepository serves the product listing from the products table. It
// satisfies catalog.Lister.
type PostgresRepository struct {
	pool DBPool
}

func NewPostgresRepository(pool DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const productColumns = `id, name, category, description, price::float8, image_url`

func (r *PostgresRepository) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	out := []catalog.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, p catalog.Product) error {
	if p.ID == "" || p.Name == "" {
		return errors.New("product id and name are required")
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO products(id, name, category, description, price, image_url)
		VALUES($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name=EXCLUDED.name,
			category=EXCLUDED.category,
			description=EXCLUDED.description,
			price=EXCLUDED.price,
			image_url=EXCLUDED.image_url,
			updated_at=now()
	`, string(p.ID), p.Name, p.Category, p.Description, p.Price, p.ImageURL)
	if err != nil {
		return fmt.Errorf("upsert product %s: %w", p.ID, err)
	}
	return nil
}

func scanProduct(row pgx.Row) (catalog.Product, error) {
	var (
		p  catalog.Product
		id string
	)
	if err := row.Scan(&id, &p.Name, &p.Category, &p.Description, &p.Price, &p.ImageURL); err != nil {
		return catalog.Product{}, err
	}
	p.ID = catalog.ID(id)
	return p, nil
}

// Seed upserts every product in order and stops at the first failure.
func (r *PostgresRepository) Seed(ctx context.Context, products []catalog.Product) error {
	for _, p := range products {
		if err := r.Upsert(ctx, p); err != nil {
			return err
		}
	}
	return nil
}
