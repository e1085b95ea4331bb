package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grima/internal/domain"
	"grima/internal/errors"
	"grima/internal/testutil"
)

// Unit Tests

func TestNewMySQLItemRepository(t *testing.T) {
	db := &sql.DB{}
	repo := NewMySQLItemRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

// Integration Tests

func insertItemTx(t *testing.T, db *sql.DB, repo *MySQLItemRepository, item *domain.Item) uint {
	t.Helper()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)

	id, err := repo.Insert(context.Background(), tx, item)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	item.ID = id
	return id
}

func TestItemRepository_InsertAndFindByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	orderRepo := NewMySQLOrderRepository(db)
	itemRepo := NewMySQLItemRepository(db)

	order := testutil.NewOrder()
	insertOrderTx(t, db, orderRepo, order)

	item := testutil.NewItem(order)
	id := insertItemTx(t, db, itemRepo, item)
	assert.Greater(t, id, uint(0))

	found, err := itemRepo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, found.ID)
	assert.Equal(t, order.ID, found.OrderID)
	assert.Equal(t, item.ProductID, found.ProductID)
	assert.Equal(t, item.Name, found.Name)
	assert.Equal(t, item.Quantity, found.Quantity)
	assert.InDelta(t, item.UnitPrice, found.UnitPrice, 0.001)
	assert.InDelta(t, item.TotalPrice, found.TotalPrice, 0.001)
	assert.Equal(t, item.Description, found.Description)
}

func TestItemRepository_FindByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	itemRepo := NewMySQLItemRepository(db)

	item, err := itemRepo.FindByID(context.Background(), uint(9999))
	assert.Error(t, err)
	assert.Nil(t, item)

	nfe, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
	assert.NotNil(t, nfe)
}

func TestItemRepository_Insert_SequentialIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	orderRepo := NewMySQLOrderRepository(db)
	itemRepo := NewMySQLItemRepository(db)

	order := testutil.NewOrder()
	insertOrderTx(t, db, orderRepo, order)

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)

	id1, err := itemRepo.Insert(context.Background(), tx, testutil.NewItem(order))
	require.NoError(t, err)
	id2, err := itemRepo.Insert(context.Background(), tx, testutil.NewItem(order))
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	assert.NotEqual(t, id1, id2)
	assert.Greater(t, id2, id1)
}

func TestItemRepository_Insert_Rollback(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	orderRepo := NewMySQLOrderRepository(db)
	itemRepo := NewMySQLItemRepository(db)

	order := testutil.NewOrder()
	insertOrderTx(t, db, orderRepo, order)

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)

	id, err := itemRepo.Insert(context.Background(), tx, testutil.NewItem(order))
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())

	var count int
	err = db.QueryRow(`SELECT COUNT(*) FROM OrderItems WHERE id = ?`, id).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestItemRepository_Update_Success(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	orderRepo := NewMySQLOrderRepository(db)
	itemRepo := NewMySQLItemRepository(db)

	order := testutil.NewOrder()
	insertOrderTx(t, db, orderRepo, order)

	item := testutil.NewItem(order)
	insertItemTx(t, db, itemRepo, item)

	item.Name = "XX"
	item.Quantity = 7

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	require.NoError(t, itemRepo.Update(context.Background(), tx, item))
	require.NoError(t, tx.Commit())

	found, err := itemRepo.FindByID(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Equal(t, "XX", found.Name)
	assert.Equal(t, 7, found.Quantity)
}

func TestItemRepository_Update_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	orderRepo := NewMySQLOrderRepository(db)
	itemRepo := NewMySQLItemRepository(db)

	order := testutil.NewOrder()
	insertOrderTx(t, db, orderRepo, order)

	item := testutil.NewItem(order)
	item.ID = 9999

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	defer tx.Rollback()

	err = itemRepo.Update(context.Background(), tx, item)
	assert.Error(t, err)

	nfe, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
	assert.NotNil(t, nfe)
}

func TestItemRepository_Delete_LeavesOrderEmpty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	orderRepo := NewMySQLOrderRepository(db)
	itemRepo := NewMySQLItemRepository(db)

	order := testutil.NewOrder()
	insertOrderTx(t, db, orderRepo, order)
	item := testutil.NewItem(order)
	insertItemTx(t, db, itemRepo, item)

	found, err := orderRepo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, found.Items, 1)

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	require.NoError(t, itemRepo.Delete(context.Background(), tx, item.ID))
	require.NoError(t, tx.Commit())

	found, err = orderRepo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Empty(t, found.Items)
}

func TestItemRepository_Delete_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	itemRepo := NewMySQLItemRepository(db)

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	defer tx.Rollback()

	err = itemRepo.Delete(context.Background(), tx, uint(9999))
	assert.Error(t, err)

	nfe, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
	assert.NotNil(t, nfe)
}

func TestItemRepository_FindAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	orderRepo := NewMySQLOrderRepository(db)
	itemRepo := NewMySQLItemRepository(db)

	items, err := itemRepo.FindAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)

	order := testutil.NewOrder()
	insertOrderTx(t, db, orderRepo, order)

	for i := 0; i < 10; i++ {
		insertItemTx(t, db, itemRepo, testutil.NewItem(order))
	}

	items, err = itemRepo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 10)
	for _, item := range items {
		assert.Equal(t, order.ID, item.OrderID)
	}
}

func TestItemRepository_FindByProductID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	orderRepo := NewMySQLOrderRepository(db)
	itemRepo := NewMySQLItemRepository(db)

	order := testutil.NewOrder()
	insertOrderTx(t, db, orderRepo, order)

	ruler := &domain.Item{OrderID: order.ID, ProductID: 1, Name: "ruler", Quantity: 1, UnitPrice: 10.50, TotalPrice: 10.50, Description: "steel ruler"}
	insertItemTx(t, db, itemRepo, ruler)
	drill := &domain.Item{OrderID: order.ID, ProductID: 2, Name: "drill", Quantity: 2, UnitPrice: 11, TotalPrice: 22, Description: "cordless drill"}
	insertItemTx(t, db, itemRepo, drill)

	// Same product on a different order must not leak into the result.
	other := testutil.NewOrder()
	insertOrderTx(t, db, orderRepo, other)
	stray := &domain.Item{OrderID: other.ID, ProductID: 1, Name: "ruler", Quantity: 5, UnitPrice: 10.50, TotalPrice: 52.50, Description: "steel ruler"}
	insertItemTx(t, db, itemRepo, stray)

	items, err := itemRepo.FindByProductID(context.Background(), order.ID, 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].ProductID)
	assert.Equal(t, "ruler", items[0].Name)
	assert.Equal(t, 1, items[0].Quantity)
	assert.InDelta(t, 10.50, items[0].UnitPrice, 0.001)

	items, err = itemRepo.FindByProductID(context.Background(), order.ID, 42)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestItemRepository_FindByName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	orderRepo := NewMySQLOrderRepository(db)
	itemRepo := NewMySQLItemRepository(db)

	order := testutil.NewOrder()
	insertOrderTx(t, db, orderRepo, order)

	drill := &domain.Item{OrderID: order.ID, ProductID: 2, Name: "Cordless Drill", Quantity: 1, UnitPrice: 99.99, TotalPrice: 99.99, Description: "18V"}
	insertItemTx(t, db, itemRepo, drill)
	ruler := &domain.Item{OrderID: order.ID, ProductID: 1, Name: "ruler", Quantity: 1, UnitPrice: 10.50, TotalPrice: 10.50, Description: "steel ruler"}
	insertItemTx(t, db, itemRepo, ruler)

	// Exact name
	items, err := itemRepo.FindByName(context.Background(), order.ID, "Cordless Drill")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, drill.ID, items[0].ID)

	// Case-insensitive substring
	items, err = itemRepo.FindByName(context.Background(), order.ID, "dRiLl")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, drill.ID, items[0].ID)

	items, err = itemRepo.FindByName(context.Background(), order.ID, "RUL")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, ruler.ID, items[0].ID)

	// Non-matching query
	items, err = itemRepo.FindByName(context.Background(), order.ID, "XYZ")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestItemRepository_FindByName_ScopedToOrder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	orderRepo := NewMySQLOrderRepository(db)
	itemRepo := NewMySQLItemRepository(db)

	order := testutil.NewOrder()
	insertOrderTx(t, db, orderRepo, order)
	other := testutil.NewOrder()
	insertOrderTx(t, db, orderRepo, other)

	mine := &domain.Item{OrderID: order.ID, ProductID: 3, Name: "hammer", Quantity: 1, UnitPrice: 15, TotalPrice: 15, Description: "claw hammer"}
	insertItemTx(t, db, itemRepo, mine)
	theirs := &domain.Item{OrderID: other.ID, ProductID: 3, Name: "hammer", Quantity: 1, UnitPrice: 15, TotalPrice: 15, Description: "claw hammer"}
	insertItemTx(t, db, itemRepo, theirs)

	items, err := itemRepo.FindByName(context.Background(), order.ID, "hammer")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, mine.ID, items[0].ID)
}
