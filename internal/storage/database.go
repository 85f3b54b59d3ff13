package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"metria/internal/config"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
)

// Open connects to the configured database for the given driver.
func Open(dbType string, cfg *config.Config) (*sql.DB, error) {
	dbCfg, ok := cfg.Databases[dbType]
	if !ok {
		return nil, fmt.Errorf("database config for %s not found", dbType)
	}

	var (
		db  *sql.DB
		err error
	)

	switch strings.ToLower(dbType) {
	case "sqlite", "sqlite3":
		if dbCfg.DSN == "" {
			return nil, fmt.Errorf("sqlite dsn must be provided")
		}
		db, err = sql.Open("sqlite3", dbCfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("open sqlite database: %w", err)
		}
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable sqlite foreign keys: %w", err)
		}
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
			dbCfg.Username,
			dbCfg.Password,
			dbCfg.Host,
			dbCfg.Port,
			dbCfg.DBName,
			dbCfg.Params,
		)
		db, err = sql.Open("mysql", dsn)
		if err != nil {
			return nil, fmt.Errorf("open mysql database: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", dbType)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// Migrate ensures the required tables are present.
func Migrate(db *sql.DB, driver string) error {
	var stmts []string
	switch strings.ToLower(driver) {
	case "sqlite", "sqlite3":
		stmts = []string{
			`CREATE TABLE IF NOT EXISTS restaurants (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				logo TEXT NOT NULL DEFAULT '',
				ai_prompt TEXT NOT NULL DEFAULT '',
				created_at DATETIME NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS dining_tables (
				id TEXT PRIMARY KEY,
				number INTEGER NOT NULL,
				restaurant_id TEXT NOT NULL,
				qr_code TEXT NOT NULL,
				current_session_id TEXT,
				created_at DATETIME NOT NULL,
				FOREIGN KEY(restaurant_id) REFERENCES restaurants(id) ON DELETE CASCADE
			)`,
			`CREATE TABLE IF NOT EXISTS table_sessions (
				id TEXT PRIMARY KEY,
				table_id TEXT NOT NULL,
				restaurant_id TEXT NOT NULL,
				table_number INTEGER NOT NULL,
				status TEXT NOT NULL,
				token TEXT NOT NULL,
				created_at DATETIME NOT NULL,
				closed_at DATETIME,
				FOREIGN KEY(table_id) REFERENCES dining_tables(id) ON DELETE CASCADE
			)`,
			`CREATE TABLE IF NOT EXISTS categories (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL UNIQUE,
				icon TEXT NOT NULL,
				created_at DATETIME NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS menu_items (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				price REAL NOT NULL,
				category TEXT NOT NULL,
				image TEXT NOT NULL DEFAULT '',
				ingredients TEXT NOT NULL DEFAULT '',
				preparation TEXT NOT NULL DEFAULT '',
				allergens TEXT NOT NULL DEFAULT '[]',
				available INTEGER NOT NULL DEFAULT 1,
				created_at DATETIME NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS orders (
				id TEXT PRIMARY KEY,
				session_id TEXT NOT NULL,
				table_number INTEGER NOT NULL,
				total REAL NOT NULL,
				status TEXT NOT NULL,
				payment_status TEXT NOT NULL,
				payment_id TEXT NOT NULL DEFAULT '',
				is_extra INTEGER NOT NULL DEFAULT 0,
				created_at DATETIME NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS order_items (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				order_id TEXT NOT NULL,
				menu_item_id TEXT NOT NULL,
				name TEXT NOT NULL,
				price REAL NOT NULL,
				quantity INTEGER NOT NULL,
				notes TEXT NOT NULL DEFAULT '',
				image TEXT NOT NULL DEFAULT '',
				FOREIGN KEY(order_id) REFERENCES orders(id) ON DELETE CASCADE
			)`,
			`CREATE TABLE IF NOT EXISTS waiter_calls (
				id TEXT PRIMARY KEY,
				session_id TEXT NOT NULL,
				table_number INTEGER NOT NULL,
				message TEXT NOT NULL DEFAULT '',
				status TEXT NOT NULL,
				created_at DATETIME NOT NULL,
				resolved_at DATETIME
			)`,
			`CREATE TABLE IF NOT EXISTS staff_users (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				username TEXT NOT NULL UNIQUE,
				password_hash TEXT NOT NULL,
				created_at DATETIME NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS staff_tokens (
				token TEXT PRIMARY KEY,
				staff_id INTEGER NOT NULL,
				created_at DATETIME NOT NULL,
				expires_at DATETIME NOT NULL,
				FOREIGN KEY(staff_id) REFERENCES staff_users(id) ON DELETE CASCADE
			)`,
			`CREATE INDEX IF NOT EXISTS idx_dining_tables_number ON dining_tables(number)`,
			`CREATE INDEX IF NOT EXISTS idx_table_sessions_table ON table_sessions(table_id)`,
			`CREATE INDEX IF NOT EXISTS idx_menu_items_category ON menu_items(category)`,
			`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status)`,
			`CREATE INDEX IF NOT EXISTS idx_orders_session ON orders(session_id)`,
			`CREATE INDEX IF NOT EXISTS idx_waiter_calls_status ON waiter_calls(status)`,
			`CREATE INDEX IF NOT EXISTS idx_staff_tokens_staff ON staff_tokens(staff_id)`,
		}
	case "mysql":
		stmts = []string{
			`CREATE TABLE IF NOT EXISTS restaurants (
				id VARCHAR(36) NOT NULL,
				name VARCHAR(255) NOT NULL,
				logo TEXT,
				ai_prompt MEDIUMTEXT,
				created_at DATETIME NOT NULL,
				PRIMARY KEY (id)
			) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
			`CREATE TABLE IF NOT EXISTS dining_tables (
				id VARCHAR(36) NOT NULL,
				number INT NOT NULL,
				restaurant_id VARCHAR(36) NOT NULL,
				qr_code TEXT NOT NULL,
				current_session_id VARCHAR(36),
				created_at DATETIME NOT NULL,
				PRIMARY KEY (id),
				INDEX idx_dining_tables_number (number),
				CONSTRAINT fk_tables_restaurant FOREIGN KEY (restaurant_id) REFERENCES restaurants(id) ON DELETE CASCADE
			) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
			`CREATE TABLE IF NOT EXISTS table_sessions (
				id VARCHAR(36) NOT NULL,
				table_id VARCHAR(36) NOT NULL,
				restaurant_id VARCHAR(36) NOT NULL,
				table_number INT NOT NULL,
				status VARCHAR(20) NOT NULL,
				token VARCHAR(36) NOT NULL,
				created_at DATETIME NOT NULL,
				closed_at DATETIME,
				PRIMARY KEY (id),
				INDEX idx_table_sessions_table (table_id),
				CONSTRAINT fk_sessions_table FOREIGN KEY (table_id) REFERENCES dining_tables(id) ON DELETE CASCADE
			) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
			`CREATE TABLE IF NOT EXISTS categories (
				id VARCHAR(36) NOT NULL,
				name VARCHAR(255) NOT NULL UNIQUE,
				icon VARCHAR(16) NOT NULL,
				created_at DATETIME NOT NULL,
				PRIMARY KEY (id)
			) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
			`CREATE TABLE IF NOT EXISTS menu_items (
				id VARCHAR(36) NOT NULL,
				name VARCHAR(255) NOT NULL,
				description TEXT,
				price DOUBLE NOT NULL,
				category VARCHAR(255) NOT NULL,
				image TEXT,
				ingredients TEXT,
				preparation TEXT,
				allergens TEXT,
				available TINYINT(1) NOT NULL DEFAULT 1,
				created_at DATETIME NOT NULL,
				PRIMARY KEY (id),
				INDEX idx_menu_items_category (category)
			) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
			`CREATE TABLE IF NOT EXISTS orders (
				id VARCHAR(36) NOT NULL,
				session_id VARCHAR(36) NOT NULL,
				table_number INT NOT NULL,
				total DOUBLE NOT NULL,
				status VARCHAR(20) NOT NULL,
				payment_status VARCHAR(20) NOT NULL,
				payment_id VARCHAR(36) NOT NULL DEFAULT '',
				is_extra TINYINT(1) NOT NULL DEFAULT 0,
				created_at DATETIME NOT NULL,
				PRIMARY KEY (id),
				INDEX idx_orders_status (status),
				INDEX idx_orders_session (session_id)
			) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
			`CREATE TABLE IF NOT EXISTS order_items (
				id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
				order_id VARCHAR(36) NOT NULL,
				menu_item_id VARCHAR(36) NOT NULL,
				name VARCHAR(255) NOT NULL,
				price DOUBLE NOT NULL,
				quantity INT NOT NULL,
				notes TEXT,
				image TEXT,
				PRIMARY KEY (id),
				INDEX idx_order_items_order (order_id),
				CONSTRAINT fk_order_items_order FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE
			) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
			`CREATE TABLE IF NOT EXISTS waiter_calls (
				id VARCHAR(36) NOT NULL,
				session_id VARCHAR(36) NOT NULL,
				table_number INT NOT NULL,
				message TEXT,
				status VARCHAR(20) NOT NULL,
				created_at DATETIME NOT NULL,
				resolved_at DATETIME,
				PRIMARY KEY (id),
				INDEX idx_waiter_calls_status (status)
			) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
			`CREATE TABLE IF NOT EXISTS staff_users (
				id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
				username VARCHAR(255) NOT NULL UNIQUE,
				password_hash VARCHAR(255) NOT NULL,
				created_at DATETIME NOT NULL,
				PRIMARY KEY (id)
			) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
			`CREATE TABLE IF NOT EXISTS staff_tokens (
				token VARCHAR(255) NOT NULL,
				staff_id BIGINT UNSIGNED NOT NULL,
				created_at DATETIME NOT NULL,
				expires_at DATETIME NOT NULL,
				PRIMARY KEY (token),
				INDEX idx_staff_tokens_staff (staff_id),
				CONSTRAINT fk_staff_tokens_user FOREIGN KEY (staff_id) REFERENCES staff_users(id) ON DELETE CASCADE
			) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		}
	default:
		return fmt.Errorf("unsupported driver for migration: %s", driver)
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate (%s): %w", driver, err)
		}
	}
	return nil
}
