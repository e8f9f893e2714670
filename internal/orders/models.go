package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderType string

const (
	TypeDineIn   OrderType = "dine_in"
	TypeTakeaway OrderType = "takeaway"
)

func (t OrderType) Valid() bool {
	return t == TypeDineIn || t == TypeTakeaway
}

type Product struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	IsActive  bool            `json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// StockMovement is append-only; satu baris per mutasi ledger, never updated.
type StockMovement struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"product_id"`
	Type      string    `json:"type"` // in | out | adjust
	Quantity  int       `json:"quantity"`
	Reason    string    `json:"reason"`
	CreatedBy string    `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// DailyStock is one snapshot per (product, date). Lazily created on the first
// movement of the day with opening = pre-movement stock; closing is re-set to
// live stock after every movement.
type DailyStock struct {
	ID           int64     `json:"id"`
	ProductID    int64     `json:"product_id"`
	Date         time.Time `json:"date"`
	OpeningStock int       `json:"opening_stock"`
	ClosingStock int       `json:"closing_stock"`
	Sold         int       `json:"sold"`
	Adjusted     int       `json:"adjusted"`
}

type PromoType string

const (
	PromoPercent PromoType = "percent"
	PromoFixed   PromoType = "fixed"
)

type Promotion struct {
	ID          int64            `json:"id"`
	Code        string           `json:"code"`
	Title       string           `json:"title"`
	Type        PromoType        `json:"type"`
	Value       decimal.Decimal  `json:"value"`
	StartsAt    *time.Time       `json:"starts_at,omitempty"`
	EndsAt      *time.Time       `json:"ends_at,omitempty"`
	MinOrder    decimal.Decimal  `json:"min_order"`
	MaxDiscount *decimal.Decimal `json:"max_discount,omitempty"`
	IsActive    bool             `json:"is_active"`
}

type Order struct {
	ID            string          `json:"id"` // uuid
	UserID        *int64          `json:"user_id,omitempty"`
	OrderType     OrderType       `json:"order_type"`
	TableID       *int64          `json:"table_id,omitempty"`
	TableNumber   *string         `json:"table_number,omitempty"`
	TableCapacity *int            `json:"table_capacity,omitempty"`
	QueueNumber   int             `json:"queue_number"`
	Status        Status          `json:"status"`
	PromoCode     *string         `json:"promo_code,omitempty"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Tax           decimal.Decimal `json:"tax"`
	Service       decimal.Decimal `json:"service"`
	Discount      decimal.Decimal `json:"discount"`
	Total         decimal.Decimal `json:"total"`
	ReadyAt       *time.Time      `json:"ready_at,omitempty"`
	Note          *string         `json:"note,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Items         []OrderItem     `json:"items"`
}

// OrderItem snapshots name+price at order time so history survives later
// product edits.
type OrderItem struct {
	ID           int64           `json:"id"`
	OrderID      string          `json:"order_id"`
	ProductID    int64           `json:"product_id"`
	ProductName  string          `json:"product_name"`
	ProductPrice decimal.Decimal `json:"product_price"`
	Quantity     int             `json:"quantity"`
	Note         *string         `json:"note,omitempty"`
	Modifiers    []string        `json:"modifiers,omitempty"`
}

type TableStatus string

const (
	TableAvailable TableStatus = "available"
	TableOccupied  TableStatus = "occupied"
	TableReserved  TableStatus = "reserved"
)

type RestaurantTable struct {
	ID       int64       `json:"id"`
	Number   string      `json:"number"`
	Capacity int         `json:"capacity"`
	Status   TableStatus `json:"status"`
	Area     *string     `json:"area,omitempty"`
}
