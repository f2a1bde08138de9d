package rest

import (
	"alertbot/internal/models"
	"context"
	"net/http"
	"net/url"
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

func (c *Client) PlaceOrder(ctx context.Context, order models.Order) (models.Order, error) {
	body := map[string]any{
		"symbol":          order.Symbol,
		"side":            order.Side,
		"type":            order.Type,
		"qty":             strconv.FormatFloat(order.Qty, 'f', -1, 64),
		"time_in_force":   order.TimeInForce,
		"client_order_id": order.LinkID,
	}

	if order.Type == models.OrderTypeLimit {
		body["limit_price"] = strconv.FormatFloat(order.LimitPrice, 'f', 2, 64)
	}

	var resp orderPayload
	if err := c.doRequest(ctx, http.MethodPost, "/v2/orders", nil, body, &resp); err != nil {
		return models.Order{}, err
	}

	placed := orderFromPayload(resp)
	if placed.Symbol == "" {
		placed = order
		placed.ID = resp.ID
	}
	return placed, nil
}

func (c *Client) CancelOrder(ctx context.Context, orderID string) error {
	return c.doRequest(ctx, http.MethodDelete, "/v2/orders/"+orderID, nil, nil, nil)
}

func (c *Client) GetOpenOrders(ctx context.Context, symbol string) ([]models.Order, error) {
	params := url.Values{}
	params.Set("status", "open")
	if symbol != "" {
		params.Set("symbols", symbol)
	}

	var resp []orderPayload
	if err := c.doRequest(ctx, http.MethodGet, "/v2/orders", params, nil, &resp); err != nil {
		return nil, err
	}

	var orders []models.Order
	for _, item := range resp {
		orders = append(orders, orderFromPayload(item))
	}
	return orders, nil
}

func orderFromPayload(item orderPayload) models.Order {
	qty, _ := parseFloatOrZero(item.Qty)
	filled, _ := parseFloatOrZero(item.FilledQty)
	limitPrice, _ := parseFloatOrZero(item.LimitPrice)
	created, _ := time.Parse(time.RFC3339Nano, item.CreatedAt)
	updated, _ := time.Parse(time.RFC3339Nano, item.UpdatedAt)

	return models.Order{
		ID:          item.ID,
		LinkID:      item.ClientOrderID,
		Symbol:      item.Symbol,
		Side:        models.OrderSide(item.Side),
		Type:        models.OrderType(item.Type),
		Qty:         qty,
		FilledQty:   filled,
		LimitPrice:  limitPrice,
		Status:      models.OrderStatus(item.Status),
		TimeInForce: item.TimeInForce,
		CreateTime:  created,
		UpdateTime:  updated,
	}
}
