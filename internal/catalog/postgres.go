package catalog

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/LucasAlvarez99/LA-PICADA/internal/domain"
)

// PostgresProvider reads the product catalog from PostgreSQL.
type PostgresProvider struct {
	pool *pgxpool.Pool
}

// Compile-time check that PostgresProvider implements Provider.
var _ Provider = (*PostgresProvider)(nil)

// NewPostgresProvider creates a PostgreSQL-backed catalog provider.
func NewPostgresProvider(pool *pgxpool.Pool) *PostgresProvider {
	return &PostgresProvider{pool: pool}
}

const productColumns = `id, name, description, price, unit, image_url, category, stock, active`

func scanProduct(row pgx.Row) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Unit,
		&p.ImageURL, &p.Category, &p.Stock, &p.Active)
	return p, err
}

func collectProducts(rows pgx.Rows) ([]domain.Product, error) {
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListProducts returns all active, publicly listed products.
func (s *PostgresProvider) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+productColumns+`
		 FROM products
		 WHERE active AND category NOT IN ($1, $2)
		 ORDER BY id`,
		CategoryWholesale, CategoryPromo)
	if err != nil {
		return nil, domain.Internal(err, "catalog.list", "failed to list products")
	}

	products, err := collectProducts(rows)
	if err != nil {
		return nil, domain.Internal(err, "catalog.list", "failed to scan products")
	}
	return products, nil
}

// ListByCategory returns active products in one category.
func (s *PostgresProvider) ListByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+productColumns+`
		 FROM products
		 WHERE active AND category = $1
		 ORDER BY id`,
		category)
	if err != nil {
		return nil, domain.Internal(err, "catalog.list_category", "failed to list products")
	}

	products, err := collectProducts(rows)
	if err != nil {
		return nil, domain.Internal(err, "catalog.list_category", "failed to scan products")
	}
	return products, nil
}

// GetProduct returns a single product by ID.
func (s *PostgresProvider) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id)

	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Product{}, domain.NotFound("catalog.get", "product", strconv.FormatInt(id, 10))
		}
		return domain.Product{}, domain.Internal(err, "catalog.get", "failed to get product")
	}
	return p, nil
}

// Categories returns the distinct public categories, sorted.
func (s *PostgresProvider) Categories(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT DISTINCT category
		 FROM products
		 WHERE active AND category NOT IN ($1, $2)
		 ORDER BY category`,
		CategoryWholesale, CategoryPromo)
	if err != nil {
		return nil, domain.Internal(err, "catalog.categories", "failed to list categories")
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var cat string
		if err := rows.Scan(&cat); err != nil {
			return nil, domain.Internal(err, "catalog.categories", "failed to scan category")
		}
		out = append(out, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "catalog.categories", "failed to read categories")
	}
	return out, nil
}
