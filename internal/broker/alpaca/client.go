package alpaca

import (
	"alertbot/internal/broker"
	"alertbot/internal/broker/alpaca/rest"
	"alertbot/internal/broker/alpaca/stream"
	"alertbot/internal/logger"
	"alertbot/internal/models"
	"context"
)

type Client struct {
	rest   *rest.Client
	stream *stream.Client
}

func New(baseURL, streamURL, apiKey, secret string, paper bool, log *logger.Logger) *Client {
	return &Client{
		rest:   rest.New(baseURL, apiKey, secret, paper, log),
		stream: stream.New(streamURL, apiKey, secret, log),
	}
}

func (c *Client) GetAccount(ctx context.Context) (models.Account, error) {
	return c.rest.GetAccount(ctx)
}

func (c *Client) GetAsset(ctx context.Context, symbol string) (models.Asset, error) {
	return c.rest.GetAsset(ctx, symbol)
}

func (c *Client) GetPositions(ctx context.Context) ([]models.Position, error) {
	return c.rest.GetPositions(ctx)
}

func (c *Client) GetOpenOrders(ctx context.Context, symbol string) ([]models.Order, error) {
	return c.rest.GetOpenOrders(ctx, symbol)
}

func (c *Client) PlaceOrder(ctx context.Context, order models.Order) (models.Order, error) {
	return c.rest.PlaceOrder(ctx, order)
}

func (c *Client) CancelOrder(ctx context.Context, orderID string) error {
	return c.rest.CancelOrder(ctx, orderID)
}

func (c *Client) Subscribe(ctx context.Context) (<-chan broker.Event, error) {
	if err := c.stream.Connect(ctx); err != nil {
		return nil, err
	}
	return c.stream.Events(), nil
}

func (c *Client) Close() {
	c.stream.Close()
}
