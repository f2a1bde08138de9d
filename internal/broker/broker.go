package broker

import (
	"alertbot/internal/models"
	"context"
)

type EventType string

const (
	EventTypeOrder     EventType = "Order"
	EventTypeReconnect EventType = "Reconnect"
)

type Event struct {
	Type   EventType
	Update string
	Order  *models.Order
}

type Client interface {
	GetAccount(ctx context.Context) (models.Account, error)
	GetAsset(ctx context.Context, symbol string) (models.Asset, error)
	GetPositions(ctx context.Context) ([]models.Position, error)
	GetOpenOrders(ctx context.Context, symbol string) ([]models.Order, error)
	PlaceOrder(ctx context.Context, order models.Order) (models.Order, error)
	CancelOrder(ctx context.Context, orderID string) error
	Subscribe(ctx context.Context) (<-chan Event, error)
}
