package order

import (
	"database/sql"

	"go.uber.org/zap"

	"grima/internal/order/repository"
	"grima/internal/order/service"
)

func NewModule(db *sql.DB, logger *zap.Logger) *service.OrderService {
	orderRepo := repository.NewMySQLOrderRepository(db)
	itemRepo := repository.NewMySQLItemRepository(db)

	return service.NewOrderService(db, orderRepo, itemRepo, logger)
}
