package testutil

import (
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"grima/internal/config"
	"grima/internal/infrastructure/mysql"
)

// TestDatabaseConfig points at the local test schema.
func TestDatabaseConfig() config.DatabaseConfig {
	return config.DatabaseConfig{
		Host:            "localhost",
		Port:            3306,
		User:            "root",
		Password:        "",
		Name:            "grima_test",
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Minute,
	}
}

// SetupTestDB opens the test database through the pooled connection factory.
// TEST_DATABASE_DSN overrides the default local MySQL target. Tests are
// skipped when the database is unreachable.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	if dsn := os.Getenv("TEST_DATABASE_DSN"); dsn != "" {
		db, err := sql.Open("mysql", dsn)
		if err != nil {
			t.Fatalf("failed to open test database: %v", err)
		}
		if err := db.Ping(); err != nil {
			t.Skipf("test database not available: %v", err)
		}
		return db
	}

	db, err := mysql.NewConnection(TestDatabaseConfig())
	if err != nil {
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// CleanupTestDB empties the test tables and closes the connection.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	tables := []string{"OrderItems", "Orders"}
	for _, table := range tables {
		_, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}

// SetupTestTables creates the tables the tests need.
func SetupTestTables(t *testing.T, db *sql.DB) {
	createOrdersTable := `
	CREATE TABLE IF NOT EXISTS Orders (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		customerId INT NOT NULL,
		orderDate DATE NOT NULL,
		status VARCHAR(50) NOT NULL DEFAULT 'PENDING',
		shippingAddress VARCHAR(255) NOT NULL,
		totalAmount DECIMAL(10,2) NOT NULL DEFAULT 0.00,
		paymentMethod VARCHAR(50) NOT NULL,
		shippingCost DECIMAL(10,2) NOT NULL DEFAULT 0.00,
		expectedDate DATE,
		orderNotes TEXT,
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX idx_customer (customerId)
	)`

	createOrderItemsTable := `
	CREATE TABLE IF NOT EXISTS OrderItems (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		orderId INT UNSIGNED NOT NULL,
		productId INT NOT NULL,
		name VARCHAR(255) NOT NULL,
		quantity INT NOT NULL DEFAULT 1,
		unitPrice DECIMAL(10,2) NOT NULL,
		totalPrice DECIMAL(10,2) NOT NULL,
		description TEXT,
		FOREIGN KEY (orderId) REFERENCES Orders(id) ON DELETE CASCADE,
		INDEX idx_order (orderId),
		INDEX idx_product (productId)
	)`

	tables := []struct {
		name  string
		query string
	}{
		{"Orders", createOrdersTable},
		{"OrderItems", createOrderItemsTable},
	}

	for _, tbl := range tables {
		_, err := db.Exec(tbl.query)
		if err != nil {
			t.Logf("failed to create table %s: %v", tbl.name, err)
		}
	}
}
