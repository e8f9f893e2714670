package orders

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DailyStockRepo struct{ DB *pgxpool.Pool }

// ensureDayTx lazily creates the (product, date) snapshot with
// opening = closing = the stock the product had before the triggering
// movement. ON CONFLICT DO NOTHING makes it idempotent.
func ensureDayTx(ctx context.Context, tx pgx.Tx, productID int64, day time.Time, currentStock int) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO daily_stocks(product_id, date, opening_stock, closing_stock)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (product_id, date) DO NOTHING`,
		productID, day, currentStock)
	if err != nil {
		return mapPgErr("ensure daily stock", err)
	}
	return nil
}

func applySaleTx(ctx context.Context, tx pgx.Tx, productID int64, day time.Time, qty, closing int) error {
	_, err := tx.Exec(ctx, `
		UPDATE daily_stocks
		SET sold = sold + $3, closing_stock = $4, updated_at = now()
		WHERE product_id = $1 AND date = $2`,
		productID, day, qty, closing)
	if err != nil {
		return mapPgErr("apply sale", err)
	}
	return nil
}

func applyAdjustmentTx(ctx context.Context, tx pgx.Tx, productID int64, day time.Time, delta, closing int) error {
	_, err := tx.Exec(ctx, `
		UPDATE daily_stocks
		SET adjusted = adjusted + $3, closing_stock = $4, updated_at = now()
		WHERE product_id = $1 AND date = $2`,
		productID, day, delta, closing)
	if err != nil {
		return mapPgErr("apply adjustment", err)
	}
	return nil
}

// CloseDay forces a finalized snapshot for every active product, including
// ones with zero movement that day. Safe to re-run: it only ever creates the
// missing zero-activity rows and re-sets closing to live stock.
func (r *DailyStockRepo) CloseDay(ctx context.Context, day time.Time) (int, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return 0, mapPgErr("begin close", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		INSERT INTO daily_stocks(product_id, date, opening_stock, closing_stock)
		SELECT id, $1, stock, stock FROM products WHERE is_active
		ON CONFLICT (product_id, date) DO NOTHING`, day); err != nil {
		return 0, mapPgErr("close: seed missing rows", err)
	}

	ct, err := tx.Exec(ctx, `
		UPDATE daily_stocks d
		SET closing_stock = p.stock, updated_at = now()
		FROM products p
		WHERE d.product_id = p.id AND d.date = $1 AND p.is_active`, day)
	if err != nil {
		return 0, mapPgErr("close: set closing", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, mapPgErr("commit close", err)
	}
	return int(ct.RowsAffected()), nil
}

func (r *DailyStockRepo) List(ctx context.Context, limit int) ([]DailyStock, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.DB.Query(ctx, `
		SELECT id, product_id, date, opening_stock, closing_stock, sold, adjusted
		FROM daily_stocks ORDER BY date DESC, product_id LIMIT $1`, limit)
	if err != nil {
		return nil, mapPgErr("list daily stocks", err)
	}
	defer rows.Close()

	var out []DailyStock
	for rows.Next() {
		var d DailyStock
		if err := rows.Scan(&d.ID, &d.ProductID, &d.Date, &d.OpeningStock, &d.ClosingStock, &d.Sold, &d.Adjusted); err != nil {
			return nil, mapPgErr("scan daily stock", err)
		}
		out = append(out, d)
	}
	return out, mapPgErr("list daily stocks", rows.Err())
}
