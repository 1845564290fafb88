package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/maltedev/bookstore-scraper/internal/models"
)

// EnsureSchema creates the catalog tables when they do not exist yet.
func (db *DB) EnsureSchema(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS catalog_products (
			id BIGSERIAL PRIMARY KEY,
			run_id UUID NOT NULL,
			title TEXT NOT NULL,
			category TEXT NOT NULL,
			price NUMERIC(10,2) NOT NULL,
			stock_count INT NOT NULL,
			rating INT,
			detail_url TEXT NOT NULL,
			extraction_date DATE NOT NULL
		);
		CREATE TABLE IF NOT EXISTS simulated_sales (
			id BIGSERIAL PRIMARY KEY,
			run_id UUID NOT NULL,
			sale_date DATE NOT NULL,
			title TEXT NOT NULL,
			category TEXT NOT NULL,
			unit_price NUMERIC(10,2) NOT NULL,
			quantity INT NOT NULL,
			amount NUMERIC(10,2) NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_catalog_products_run ON catalog_products (run_id);
		CREATE INDEX IF NOT EXISTS idx_simulated_sales_run ON simulated_sales (run_id);`

	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// SaveDataset inserts all catalog rows of one run in a single transaction.
func (db *DB) SaveDataset(ctx context.Context, ds *models.CatalogDataset) error {
	query := `
		INSERT INTO catalog_products
			(run_id, title, category, price, stock_count, rating, detail_url, extraction_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	return db.Transaction(ctx, func(tx pgx.Tx) error {
		for _, r := range ds.Records {
			if _, err := tx.Exec(ctx, query,
				ds.RunID, r.Title, r.Category, r.Price, r.StockCount, r.Rating, r.DetailURL, ds.ExtractionDate,
			); err != nil {
				return fmt.Errorf("failed to insert product %q: %w", r.Title, err)
			}
		}
		return nil
	})
}

// SaveSales inserts the simulated sales of one run in a single transaction.
func (db *DB) SaveSales(ctx context.Context, runID string, sales []models.Sale) error {
	query := `
		INSERT INTO simulated_sales
			(run_id, sale_date, title, category, unit_price, quantity, amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	return db.Transaction(ctx, func(tx pgx.Tx) error {
		for _, s := range sales {
			if _, err := tx.Exec(ctx, query,
				runID, s.Date, s.Title, s.Category, s.UnitPrice, s.Quantity, s.Amount,
			); err != nil {
				return fmt.Errorf("failed to insert sale for %q: %w", s.Title, err)
			}
		}
		return nil
	})
}
