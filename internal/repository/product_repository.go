package repository

import (
	"context"
	"database/sql"

	"heavymachines/internal/models"
)

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	ListByCategory(ctx context.Context, category string) ([]models.Product, error)
}

type productRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (name, price, description, image, category)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	return r.db.QueryRowContext(ctx, query,
		product.Name,
		product.Price,
		product.Description,
		product.Image,
		product.Category,
	).Scan(&product.ID)
}

func (r *productRepository) ListByCategory(ctx context.Context, category string) ([]models.Product, error) {
	query := `
		SELECT id, name, price, description, image, category
		FROM products
		WHERE category = $1
	`

	rows, err := r.db.QueryContext(ctx, query, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]models.Product, 0)
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Description, &p.Image, &p.Category); err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	return products, rows.Err()
}
