package models

import (
	"database/sql"
	"time"
)

// Order status values. The ledger only moves money on transitions
// into or out of Delivered.
const (
	OrderPending   = "Pending"
	OrderShipped   = "Shipped"
	OrderDelivered = "Delivered"
	OrderCancelled = "Cancelled"
)

// Order is the model for the 'orders' table.
// AdminPrice and ResellerPrice are frozen at placement time, so
// profit never changes even if the product is repriced later.
type Order struct {
	ID            int64   `json:"id" db:"id"`
	ResellerID    int64   `json:"reseller_id" db:"reseller_id"`
	ProductID     int64   `json:"product_id" db:"product_id"`
	AdminPrice    float64 `json:"admin_price" db:"admin_price"`
	ResellerPrice float64 `json:"reseller_price" db:"reseller_price"`
	Profit        float64 `json:"profit" db:"profit"`

	CustomerName    string `json:"customer_name" db:"customer_name"`
	CustomerPhone   string `json:"customer_phone" db:"customer_phone"`
	CustomerAddress string `json:"customer_address" db:"customer_address"`

	Status         string  `json:"status" db:"status"`
	PaymentMethod  string  `json:"payment_method" db:"payment_method"` // advance | cod
	Location       string  `json:"location" db:"location"`             // inside | outside
	DeliveryCharge float64 `json:"delivery_charge" db:"delivery_charge"`

	// --- Advance Payment Fields ---
	PaymentStatus    string         `json:"payment_status" db:"payment_status"` // Unpaid | Submitted
	PaymentTrxMethod sql.NullString `json:"payment_trx_method" db:"payment_trx_method"`
	PaymentPhone     sql.NullString `json:"payment_phone" db:"payment_phone"`
	PaymentTrxID     sql.NullString `json:"payment_trx_id" db:"payment_trx_id"`
	PaymentPayerName sql.NullString `json:"payment_payer_name" db:"payment_payer_name"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// Joined display fields (not columns of 'orders')
	ProductName  string `json:"product_name,omitempty" db:"-"`
	ResellerName string `json:"reseller_name,omitempty" db:"-"`
}
