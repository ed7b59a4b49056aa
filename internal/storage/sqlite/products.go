package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/GustavoCaso/bookcatalog/internal/storage"
)

const productColumns = "id, sku, name, author, description, price, rating, image_url"

func (s *sqliteStorage) GetProducts(ctx context.Context) ([]storage.Product, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+productColumns+" FROM products ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []storage.Product{}
	for rows.Next() {
		product, scanErr := productFromRow(rows.Scan)
		if scanErr != nil {
			return nil, scanErr
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}

	return products, nil
}

func (s *sqliteStorage) GetProductByID(ctx context.Context, id int64) (storage.Product, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+productColumns+" FROM products WHERE id = ?", id)

	product, err := productFromRow(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &storage.NotFoundError{}
		}
		return nil, err
	}

	return product, nil
}

func (s *sqliteStorage) InsertProducts(ctx context.Context, products []storage.Product) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // Will be no-op if committed
	}()

	statement, err := tx.PrepareContext(ctx, `
		INSERT INTO products (sku, name, author, description, price, rating, image_url)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert product statement: %w", err)
	}
	defer statement.Close()

	var inserted int64
	for _, p := range products {
		var rating sql.NullFloat64
		if p.Rating() != nil {
			rating = sql.NullFloat64{Float64: *p.Rating(), Valid: true}
		}

		result, execErr := statement.ExecContext(ctx,
			p.SKU(), p.Name(), p.Author(), p.Description(), p.Price(), rating, p.ImageURL())
		if execErr != nil {
			return 0, fmt.Errorf("failed to insert product %q: %w", p.Name(), execErr)
		}

		affected, affectedErr := result.RowsAffected()
		if affectedErr != nil {
			return 0, fmt.Errorf("failed to get rows affected: %w", affectedErr)
		}
		inserted += affected
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return inserted, nil
}

func (s *sqliteStorage) DeleteProducts(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM products")
	if err != nil {
		return 0, fmt.Errorf("failed to delete products: %w", err)
	}

	return result.RowsAffected()
}

func productFromRow(scan func(dest ...any) error) (storage.Product, error) {
	var id int64
	var sku, name, author, description, imageURL string
	var price int64
	var rating sql.NullFloat64

	err := scan(&id, &sku, &name, &author, &description, &price, &rating, &imageURL)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}

	var ratingPtr *float64
	if rating.Valid {
		ratingPtr = &rating.Float64
	}

	return storage.NewProduct(id, sku, name, author, description, price, ratingPtr, imageURL), nil
}
