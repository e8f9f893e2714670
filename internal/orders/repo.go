package orders

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ReadyLeadTime is the default kitchen estimate stamped on new orders.
const ReadyLeadTime = 20 * time.Minute

type LineInput struct {
	ProductID int64    `json:"product_id"`
	Quantity  int      `json:"quantity"`
	Note      *string  `json:"note,omitempty"`
	Modifiers []string `json:"modifiers,omitempty"`
}

type CreateOrderInput struct {
	UserID        *int64      `json:"user_id,omitempty"`
	OrderType     OrderType   `json:"order_type"`
	TableID       *int64      `json:"table_id,omitempty"`
	TableNumber   *string     `json:"table_number,omitempty"`
	TableCapacity *int        `json:"table_capacity,omitempty"`
	Note          *string     `json:"note,omitempty"`
	PromoCode     *string     `json:"promo_code,omitempty"`
	Items         []LineInput `json:"items"`
}

func (in CreateOrderInput) validate() error {
	if !in.OrderType.Valid() {
		return Invalid("order_type must be dine_in or takeaway, got %q", in.OrderType)
	}
	if len(in.Items) == 0 {
		return Invalid("order must contain at least one item")
	}
	for _, it := range in.Items {
		if it.Quantity <= 0 {
			return Invalid("invalid quantity %d for product %d", it.Quantity, it.ProductID)
		}
	}
	return nil
}

type Repo struct{ DB *pgxpool.Pool }

// QueueKey serializes queue numbering per (order_type, calendar day) via an
// advisory xact lock; no process-local counter, so numbers stay correct under
// multiple instances.
func QueueKey(t OrderType, day time.Time) string {
	return fmt.Sprintf("queue:%s:%s", t, day.Format("2006-01-02"))
}

// CreateOrderTx runs the whole intake as one atomic unit: queue numbering,
// per-line stock reservation, pricing, promo, order + item snapshots, table
// occupancy. Any failure rolls back everything, reservations included —
// tidak ada saga, tidak ada kompensasi.
func (r *Repo) CreateOrderTx(ctx context.Context, in CreateOrderInput, now time.Time) (*Order, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, mapPgErr("begin order", err)
	}
	defer tx.Rollback(ctx)

	day := now.UTC().Truncate(24 * time.Hour)

	// serialize (order_type, day) so two concurrent orders never share a number
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`,
		QueueKey(in.OrderType, day)); err != nil {
		return nil, mapPgErr("queue lock", err)
	}
	var queueNumber int
	if err := tx.QueryRow(ctx, `
		SELECT COUNT(*) + 1 FROM orders
		WHERE order_type = $1 AND created_at >= $2`,
		in.OrderType, day).Scan(&queueNumber); err != nil {
		return nil, mapPgErr("queue number", err)
	}

	// reserve in product-id order: fixed lock order avoids deadlocks when
	// concurrent orders overlap on products
	reserveOrder := make([]int, len(in.Items))
	for i := range reserveOrder {
		reserveOrder[i] = i
	}
	sort.SliceStable(reserveOrder, func(a, b int) bool {
		return in.Items[reserveOrder[a]].ProductID < in.Items[reserveOrder[b]].ProductID
	})

	actor := ""
	if in.UserID != nil {
		actor = fmt.Sprintf("%d", *in.UserID)
	}
	reserved := make(map[int]*reservedProduct, len(in.Items))
	subtotal := decimal.Zero
	for _, idx := range reserveOrder {
		it := in.Items[idx]
		rp, err := reserveTx(ctx, tx, it.ProductID, it.Quantity, actor, day)
		if err != nil {
			return nil, err // rollback via defer: no partial reservation survives
		}
		reserved[idx] = rp
		subtotal = subtotal.Add(rp.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}

	discount := decimal.Zero
	if in.PromoCode != nil && *in.PromoCode != "" {
		promo, err := findPromotionTx(ctx, tx, *in.PromoCode)
		if err != nil {
			return nil, err // promo failure aborts the whole order (legacy policy)
		}
		discount, err = EvaluatePromo(*promo, subtotal, now)
		if err != nil {
			return nil, err
		}
	}
	totals := ComputeTotals(subtotal, discount)

	readyAt := now.Add(ReadyLeadTime)
	o := &Order{
		ID:            uuid.NewString(),
		UserID:        in.UserID,
		OrderType:     in.OrderType,
		TableID:       in.TableID,
		TableNumber:   in.TableNumber,
		TableCapacity: in.TableCapacity,
		QueueNumber:   queueNumber,
		Status:        StatusProcessing,
		PromoCode:     in.PromoCode,
		Subtotal:      totals.Subtotal,
		Tax:           totals.Tax,
		Service:       totals.Service,
		Discount:      totals.Discount,
		Total:         totals.Total,
		ReadyAt:       &readyAt,
		Note:          in.Note,
		CreatedAt:     now,
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO orders(id, user_id, order_type, table_id, table_number, table_capacity,
		                   queue_number, status, promo_code, subtotal, tax, service, discount,
		                   total, ready_at, note, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)`,
		o.ID, o.UserID, o.OrderType, o.TableID, o.TableNumber, o.TableCapacity,
		o.QueueNumber, o.Status, o.PromoCode, o.Subtotal, o.Tax, o.Service, o.Discount,
		o.Total, o.ReadyAt, o.Note, o.CreatedAt); err != nil {
		return nil, mapPgErr("insert order", err)
	}

	// item snapshots keep input order regardless of reservation order
	for idx, it := range in.Items {
		rp := reserved[idx]
		item := OrderItem{
			OrderID:      o.ID,
			ProductID:    it.ProductID,
			ProductName:  rp.Name,
			ProductPrice: rp.Price,
			Quantity:     it.Quantity,
			Note:         it.Note,
			Modifiers:    it.Modifiers,
		}
		if err := tx.QueryRow(ctx, `
			INSERT INTO order_items(order_id, product_id, product_name, product_price, quantity, note, modifiers)
			VALUES ($1,$2,$3,$4,$5,$6,$7)
			RETURNING id`,
			item.OrderID, item.ProductID, item.ProductName, item.ProductPrice,
			item.Quantity, item.Note, item.Modifiers).Scan(&item.ID); err != nil {
			return nil, mapPgErr("insert order item", err)
		}
		o.Items = append(o.Items, item)
	}

	if o.OrderType == TypeDineIn && o.TableID != nil {
		if _, err := tx.Exec(ctx, `
			UPDATE restaurant_tables SET status = $2, updated_at = now() WHERE id = $1`,
			*o.TableID, TableOccupied); err != nil {
			return nil, mapPgErr("occupy table", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, mapPgErr("commit order", err)
	}
	return o, nil
}

func findPromotionTx(ctx context.Context, tx pgx.Tx, code string) (*Promotion, error) {
	var p Promotion
	err := tx.QueryRow(ctx, `
		SELECT id, code, title, type, value, starts_at, ends_at, min_order, max_discount, is_active
		FROM promotions WHERE code = $1 AND is_active`, code).
		Scan(&p.ID, &p.Code, &p.Title, &p.Type, &p.Value, &p.StartsAt, &p.EndsAt,
			&p.MinOrder, &p.MaxDiscount, &p.IsActive)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &PromoError{Code: code, Reason: PromoNotFound}
	}
	if err != nil {
		return nil, mapPgErr("find promotion", err)
	}
	return &p, nil
}

// UpdateStatusTx applies a lifecycle transition. Entering READY stamps
// ready_at (now if absent); entering a terminal state on a dine-in order
// releases its table. Returns the updated order and whether a readiness
// event should be emitted (exactly once, by the caller, after commit).
func (r *Repo) UpdateStatusTx(ctx context.Context, orderID string, next Status, readyAt *time.Time, now time.Time) (*Order, bool, error) {
	if !ValidStatus(next) {
		return nil, false, Invalid("unknown status %q", next)
	}

	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, false, mapPgErr("begin status update", err)
	}
	defer tx.Rollback(ctx)

	o, err := scanOrderRow(tx.QueryRow(ctx, selectOrder+` WHERE id = $1 FOR UPDATE`, orderID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, &NotFoundError{Entity: "order", Key: orderID}
	}
	if err != nil {
		return nil, false, err
	}

	if !CanTransition(o.Status, next) {
		return nil, false, &StatusTransitionError{From: o.Status, To: next}
	}

	emitReady := next == StatusReady
	if emitReady {
		if readyAt == nil {
			readyAt = &now
		}
		o.ReadyAt = readyAt
	}
	o.Status = next

	if _, err := tx.Exec(ctx, `
		UPDATE orders SET status = $2, ready_at = $3, updated_at = now() WHERE id = $1`,
		o.ID, o.Status, o.ReadyAt); err != nil {
		return nil, false, mapPgErr("update status", err)
	}

	if next.Terminal() && o.OrderType == TypeDineIn && o.TableID != nil {
		if _, err := tx.Exec(ctx, `
			UPDATE restaurant_tables SET status = $2, updated_at = now() WHERE id = $1`,
			*o.TableID, TableAvailable); err != nil {
			return nil, false, mapPgErr("release table", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, false, mapPgErr("commit status update", err)
	}
	return o, emitReady, nil
}

const selectOrder = `
	SELECT id, user_id, order_type, table_id, table_number, table_capacity, queue_number,
	       status, promo_code, subtotal, tax, service, discount, total, ready_at, note,
	       created_at, updated_at
	FROM orders`

func scanOrderRow(row pgx.Row) (*Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.UserID, &o.OrderType, &o.TableID, &o.TableNumber,
		&o.TableCapacity, &o.QueueNumber, &o.Status, &o.PromoCode, &o.Subtotal,
		&o.Tax, &o.Service, &o.Discount, &o.Total, &o.ReadyAt, &o.Note,
		&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, mapPgErr("scan order", err)
	}
	return &o, nil
}

func (r *Repo) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	o, err := scanOrderRow(r.DB.QueryRow(ctx, selectOrder+` WHERE id = $1`, orderID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &NotFoundError{Entity: "order", Key: orderID}
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *Repo) ListOrders(ctx context.Context, limit int) ([]Order, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.DB.Query(ctx, selectOrder+` ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, mapPgErr("list orders", err)
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		o, err := scanOrderRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgErr("list orders", err)
	}
	for i := range out {
		if err := r.loadItems(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *Repo) loadItems(ctx context.Context, o *Order) error {
	rows, err := r.DB.Query(ctx, `
		SELECT id, order_id, product_id, product_name, product_price, quantity, note, modifiers
		FROM order_items WHERE order_id = $1 ORDER BY id`, o.ID)
	if err != nil {
		return mapPgErr("load items", err)
	}
	defer rows.Close()

	o.Items = nil
	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName,
			&it.ProductPrice, &it.Quantity, &it.Note, &it.Modifiers); err != nil {
			return mapPgErr("scan item", err)
		}
		o.Items = append(o.Items, it)
	}
	return mapPgErr("load items", rows.Err())
}

func (r *Repo) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, name, price, stock, is_active, created_at, updated_at
		FROM products WHERE is_active ORDER BY name`)
	if err != nil {
		return nil, mapPgErr("list products", err)
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, mapPgErr("scan product", err)
		}
		out = append(out, p)
	}
	return out, mapPgErr("list products", rows.Err())
}

// mapPgErr keeps the taxonomy honest: serialization/deadlock/lock-timeout
// become ConflictError (retry the whole operation), everything else is a
// PersistenceError.
func mapPgErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01", "55P03":
			return &ConflictError{Op: op, Err: err}
		}
	}
	return &PersistenceError{Op: op, Err: err}
}
