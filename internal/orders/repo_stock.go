package orders

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type LedgerRepo struct{ DB *pgxpool.Pool }

// reservedProduct is what reserveTx hands back to the order transaction:
// the price snapshot and the post-decrement stock.
type reservedProduct struct {
	ID       int64
	Name     string
	Price    decimal.Decimal
	NewStock int
}

// reserveTx locks the product row (FOR UPDATE), checks stock and commits the
// decrement as one step inside the caller's transaction. Two concurrent
// reservations on the same product serialize on the row lock, so a stale
// stock check can never pass. On shortage nothing is written and the caller
// must roll back the whole tx.
func reserveTx(ctx context.Context, tx pgx.Tx, productID int64, qty int, actor string, day time.Time) (*reservedProduct, error) {
	var (
		name  string
		price decimal.Decimal
		stock int
	)
	err := tx.QueryRow(ctx, `
		SELECT name, price, stock FROM products
		WHERE id = $1 AND is_active
		FOR UPDATE`, productID).Scan(&name, &price, &stock)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &NotFoundError{Entity: "product", Key: productID}
	}
	if err != nil {
		return nil, mapPgErr("reserve product", err)
	}

	if stock < qty {
		return nil, &InsufficientStockError{
			ProductID:   productID,
			ProductName: name,
			Requested:   qty,
			Available:   stock,
		}
	}

	newStock := stock - qty
	if _, err := tx.Exec(ctx, `UPDATE products SET stock = $2, updated_at = now() WHERE id = $1`,
		productID, newStock); err != nil {
		return nil, mapPgErr("decrement stock", err)
	}
	if err := appendMovement(ctx, tx, productID, "out", qty, "order", actor); err != nil {
		return nil, err
	}
	// daily snapshot: opening = stok sebelum reservasi
	if err := ensureDayTx(ctx, tx, productID, day, stock); err != nil {
		return nil, err
	}
	if err := applySaleTx(ctx, tx, productID, day, qty, newStock); err != nil {
		return nil, err
	}

	return &reservedProduct{ID: productID, Name: name, Price: price, NewStock: newStock}, nil
}

// Adjust is the manual-correction path. A negative delta larger than current
// stock clamps to zero rather than failing (legacy policy). The movement and
// the daily `adjusted` column record the requested delta either way.
func (r *LedgerRepo) Adjust(ctx context.Context, productID int64, delta int, reason, actor string) (*Product, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, mapPgErr("begin adjust", err)
	}
	defer tx.Rollback(ctx)

	var p Product
	err = tx.QueryRow(ctx, `
		SELECT id, name, price, stock, is_active, created_at, updated_at
		FROM products WHERE id = $1
		FOR UPDATE`, productID).
		Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &NotFoundError{Entity: "product", Key: productID}
	}
	if err != nil {
		return nil, mapPgErr("load product", err)
	}

	before := p.Stock
	after := before + delta
	if after < 0 {
		after = 0
	}
	if _, err := tx.Exec(ctx, `UPDATE products SET stock = $2, updated_at = now() WHERE id = $1`,
		productID, after); err != nil {
		return nil, mapPgErr("adjust stock", err)
	}

	movType := "in"
	qty := delta
	if delta < 0 {
		movType = "out"
		qty = -delta
	}
	if reason == "" {
		reason = "adjust"
	}
	if err := appendMovement(ctx, tx, productID, movType, qty, reason, actor); err != nil {
		return nil, err
	}
	if err := ensureDayTx(ctx, tx, productID, today(), before); err != nil {
		return nil, err
	}
	if err := applyAdjustmentTx(ctx, tx, productID, today(), delta, after); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, mapPgErr("commit adjust", err)
	}
	p.Stock = after
	return &p, nil
}

func appendMovement(ctx context.Context, tx pgx.Tx, productID int64, movType string, qty int, reason, actor string) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO stock_movements(product_id, type, quantity, reason, created_by)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''))`,
		productID, movType, qty, reason, actor)
	if err != nil {
		return mapPgErr("append movement", err)
	}
	return nil
}

func today() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}
