package stream

import (
	"alertbot/internal/models"
	"strconv"
	"time"
)

type orderPayload struct {
	ID            string `json:"id"`
	ClientOrderID string `json:"client_order_id"`
	Symbol        string `json:"symbol"`
	Side          string `json:"side"`
	Type          string `json:"type"`
	Qty           string `json:"qty"`
	FilledQty     string `json:"filled_qty"`
	LimitPrice    string `json:"limit_price"`
	Status        string `json:"status"`
	TimeInForce   string `json:"time_in_force"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

func (p orderPayload) toModel() models.Order {
	qty, _ := parseFloatOrZero(p.Qty)
	filled, _ := parseFloatOrZero(p.FilledQty)
	limitPrice, _ := parseFloatOrZero(p.LimitPrice)
	created, _ := time.Parse(time.RFC3339Nano, p.CreatedAt)
	updated, _ := time.Parse(time.RFC3339Nano, p.UpdatedAt)

	return models.Order{
		ID:          p.ID,
		LinkID:      p.ClientOrderID,
		Symbol:      p.Symbol,
		Side:        models.OrderSide(p.Side),
		Type:        models.OrderType(p.Type),
		Qty:         qty,
		FilledQty:   filled,
		LimitPrice:  limitPrice,
		Status:      models.OrderStatus(p.Status),
		TimeInForce: p.TimeInForce,
		CreateTime:  created,
		UpdateTime:  updated,
	}
}

func parseFloatOrZero(value string) (float64, error) {
	if value == "" {
		return 0, nil
	}
	return strconv.ParseFloat(value, 64)
}
