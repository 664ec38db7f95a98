package models

// Product is the model for the 'products' table.
// AdminPrice is the wholesale cost; resellers mark it up per order.
type Product struct {
	ID          int64   `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	Description string  `json:"description" db:"description"`
	AdminPrice  float64 `json:"admin_price" db:"admin_price"`
	Stock       int     `json:"stock" db:"stock"`
	Image       string  `json:"image" db:"image"`
}
