package database

import (
	"database/sql"
	"log"
	"os"
	"time"

	"github.com/01moynul/resellerhub-golang/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

// OpenDB initializes and returns the application's SQLite connection pool.
// The database is a single file; its path comes from the DATABASE_PATH
// environment variable with a local fallback for development.
func OpenDB() (*sql.DB, error) {
	path := os.Getenv("DATABASE_PATH")
	if path == "" {
		path = "resellerhub.sqlite"
	}
	return OpenDBWithPath(path)
}

// OpenDBWithPath creates and configures a connection pool for any SQLite
// path (tests point it at a throwaway file).
func OpenDBWithPath(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", "file:"+path+"?_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, err
	}

	// SQLite allows a single writer; one connection keeps every request's
	// transaction serialized without SQLITE_BUSY surprises.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		log.Printf("Error connecting to database at %s: %v", path, err)
		return nil, err
	}

	return db, nil
}

// schema is applied on every startup; CREATE TABLE IF NOT EXISTS keeps it
// idempotent over an existing database file.
const schema = `
CREATE TABLE IF NOT EXISTS admins (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	email TEXT UNIQUE NOT NULL,
	password TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS resellers (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	email TEXT UNIQUE NOT NULL,
	password TEXT NOT NULL,
	balance REAL DEFAULT 0,
	referral_code TEXT UNIQUE,
	referred_by INTEGER,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (referred_by) REFERENCES resellers(id)
);

CREATE TABLE IF NOT EXISTS products (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	description TEXT,
	admin_price REAL NOT NULL,
	stock INTEGER DEFAULT 0,
	image TEXT
);

CREATE TABLE IF NOT EXISTS orders (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	reseller_id INTEGER NOT NULL,
	product_id INTEGER NOT NULL,
	admin_price REAL NOT NULL,
	reseller_price REAL NOT NULL,
	profit REAL NOT NULL,
	customer_name TEXT NOT NULL,
	customer_phone TEXT NOT NULL,
	customer_address TEXT NOT NULL,
	status TEXT DEFAULT 'Pending',
	payment_method TEXT DEFAULT 'cod',
	location TEXT DEFAULT 'inside',
	delivery_charge REAL DEFAULT 0,
	payment_status TEXT DEFAULT 'Unpaid',
	payment_trx_method TEXT,
	payment_phone TEXT,
	payment_trx_id TEXT,
	payment_payer_name TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (reseller_id) REFERENCES resellers(id),
	FOREIGN KEY (product_id) REFERENCES products(id)
);

CREATE TABLE IF NOT EXISTS withdrawals (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	reseller_id INTEGER NOT NULL,
	amount REAL NOT NULL,
	method TEXT NOT NULL,
	account_number TEXT NOT NULL,
	status TEXT DEFAULT 'Pending',
	transaction_id TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (reseller_id) REFERENCES resellers(id)
);

CREATE TABLE IF NOT EXISTS messages (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	reseller_id INTEGER NOT NULL,
	sender TEXT NOT NULL,
	content TEXT NOT NULL,
	is_read BOOLEAN DEFAULT 0,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (reseller_id) REFERENCES resellers(id)
);

CREATE TABLE IF NOT EXISTS settings (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS referral_earnings (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	referrer_id INTEGER NOT NULL,
	referred_id INTEGER NOT NULL,
	amount REAL NOT NULL,
	type TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (referrer_id) REFERENCES resellers(id),
	FOREIGN KEY (referred_id) REFERENCES resellers(id)
);

CREATE TABLE IF NOT EXISTS transactions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	reseller_id INTEGER NOT NULL,
	transaction_id TEXT NOT NULL,
	type TEXT NOT NULL,
	amount REAL NOT NULL,
	description TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (reseller_id) REFERENCES resellers(id)
);
`

// Migrate creates the schema if it does not exist yet.
func Migrate(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}

// Seed inserts the default settings, a demo admin, a demo reseller and
// sample products — but only into empty tables, so restarting against an
// existing database never duplicates data.
func Seed(db *sql.DB) error {
	// 1. --- Settings ---
	var count int
	if err := db.QueryRow("SELECT count(*) FROM settings").Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		defaults := map[string]string{
			"referral_bonus_type":             "fixed",
			"referral_bonus_amount":           "50",
			"delivery_charge_advance_inside":  "60",
			"delivery_charge_advance_outside": "120",
			"delivery_charge_cod_inside":      "80",
			"delivery_charge_cod_outside":     "150",
		}
		for k, v := range defaults {
			if _, err := db.Exec("INSERT INTO settings (key, value) VALUES (?, ?)", k, v); err != nil {
				return err
			}
		}
	}

	// 2. --- Demo Admin ---
	if err := db.QueryRow("SELECT count(*) FROM admins").Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		var pw models.Password
		if err := pw.Set("admin123"); err != nil {
			return err
		}
		if _, err := db.Exec("INSERT INTO admins (name, email, password) VALUES (?, ?, ?)",
			"Admin", "admin@example.com", pw.Hash); err != nil {
			return err
		}
	}

	// 3. --- Demo Reseller ---
	if err := db.QueryRow("SELECT count(*) FROM resellers").Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		var pw models.Password
		if err := pw.Set("reseller123"); err != nil {
			return err
		}
		// Table is empty, so a fresh code cannot collide.
		if _, err := db.Exec("INSERT INTO resellers (name, email, password, referral_code) VALUES (?, ?, ?, ?)",
			"Demo Reseller", "reseller@example.com", pw.Hash, models.NewCode(8)); err != nil {
			return err
		}
	}

	// 4. --- Sample Products ---
	if err := db.QueryRow("SELECT count(*) FROM products").Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		samples := []struct {
			name, desc string
			price      float64
			stock      int
			image      string
		}{
			{"Wireless Earbuds", "High quality wireless earbuds with active noise cancellation and 24-hour battery life.", 1500, 50, "https://picsum.photos/seed/earbuds/400/400"},
			{"Smart Watch", "Fitness tracker and smartwatch with heart rate monitoring and sleep tracking.", 2500, 30, "https://picsum.photos/seed/watch/400/400"},
			{"Mechanical Keyboard", "RGB mechanical keyboard with tactile blue switches and aluminum frame.", 3500, 20, "https://picsum.photos/seed/keyboard/400/400"},
			{"Gaming Mouse", "Ergonomic gaming mouse with 16000 DPI optical sensor and customizable RGB lighting.", 1200, 45, "https://picsum.photos/seed/mouse/400/400"},
			{"Portable Power Bank", "20000mAh fast charging power bank with dual USB outputs and USB-C input.", 1800, 60, "https://picsum.photos/seed/powerbank/400/400"},
		}
		for _, s := range samples {
			if _, err := db.Exec("INSERT INTO products (name, description, admin_price, stock, image) VALUES (?, ?, ?, ?, ?)",
				s.name, s.desc, s.price, s.stock, s.image); err != nil {
				return err
			}
		}
	}

	log.Println("Database schema synced and seed data verified")
	return nil
}
