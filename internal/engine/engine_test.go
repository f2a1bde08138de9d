package engine

import (
	"alertbot/internal/broker"
	"alertbot/internal/config"
	"alertbot/internal/logger"
	"alertbot/internal/models"
	"alertbot/internal/registry"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockBroker struct {
	mock.Mock
}

func (m *mockBroker) GetAccount(ctx context.Context) (models.Account, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.Account), args.Error(1)
}

func (m *mockBroker) GetAsset(ctx context.Context, symbol string) (models.Asset, error) {
	args := m.Called(ctx, symbol)
	return args.Get(0).(models.Asset), args.Error(1)
}

func (m *mockBroker) GetPositions(ctx context.Context) ([]models.Position, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Position), args.Error(1)
}

func (m *mockBroker) GetOpenOrders(ctx context.Context, symbol string) ([]models.Order, error) {
	args := m.Called(ctx, symbol)
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *mockBroker) PlaceOrder(ctx context.Context, order models.Order) (models.Order, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(models.Order), args.Error(1)
}

func (m *mockBroker) CancelOrder(ctx context.Context, orderID string) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

func (m *mockBroker) Subscribe(ctx context.Context) (<-chan broker.Event, error) {
	args := m.Called(ctx)
	ch, _ := args.Get(0).(chan broker.Event)
	return ch, args.Error(1)
}

func newTestEngine(t *testing.T, opts config.Options, client broker.Client, symbols ...registry.Entry) *Engine {
	t.Helper()

	cfg := &config.Config{}
	cfg.Broker.Paper = true
	cfg.Agent = opts

	reg, err := registry.New(filepath.Join(t.TempDir(), "registry.db"))
	require.NoError(t, err)
	t.Cleanup(func() { reg.Close() })

	for _, entry := range symbols {
		require.NoError(t, reg.Upsert(context.Background(), entry))
	}

	return New(cfg, client, reg, logger.New(logger.Config{Level: "error"}))
}

func watched(symbol string) registry.Entry {
	return registry.Entry{Symbol: symbol, Tradable: true}
}

func defaultOpts() config.Options {
	return config.Options{
		BuyPerc:     0.2,
		TestMode:    true,
		TestBalance: 10000,
		Enabled:     true,
		Limit:       true,
		LimitAmt:    0.04,
		LimitPerc:   0.0005,
	}
}

func paperAccount() models.Account {
	return models.Account{ID: "acc", Cash: 5000, Paper: true}
}

func expectSnapshot(client *mockBroker, positions []models.Position, orders []models.Order) {
	client.On("GetAccount", mock.Anything).Return(paperAccount(), nil)
	client.On("GetPositions", mock.Anything).Return(positions, nil)
	client.On("GetOpenOrders", mock.Anything, "").Return(orders, nil)
}

func TestStartFailsafeRealAccount(t *testing.T) {
	client := &mockBroker{}
	client.On("GetAccount", mock.Anything).Return(models.Account{ID: "acc", Cash: 5000, Paper: false}, nil)

	eng := newTestEngine(t, defaultOpts(), client)

	err := eng.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "testMode")
	client.AssertNotCalled(t, "Subscribe", mock.Anything)
}

func TestStartBlockedAccount(t *testing.T) {
	client := &mockBroker{}
	client.On("GetAccount", mock.Anything).Return(models.Account{ID: "acc", Cash: 5000, Paper: true, TradingBlocked: true}, nil)

	eng := newTestEngine(t, defaultOpts(), client)

	err := eng.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "trading_blocked")
}

func TestStartWithoutStream(t *testing.T) {
	client := &mockBroker{}
	client.On("GetAccount", mock.Anything).Return(paperAccount(), nil)
	client.On("Subscribe", mock.Anything).Return(nil, errors.New("стрим недоступен"))

	eng := newTestEngine(t, defaultOpts(), client)

	assert.NoError(t, eng.Start(context.Background()))
}

func TestHandleAlertBuySubmitsLimitOrder(t *testing.T) {
	client := &mockBroker{}
	expectSnapshot(client, nil, nil)

	var placed models.Order
	client.On("PlaceOrder", mock.Anything, mock.MatchedBy(func(order models.Order) bool {
		placed = order
		return true
	})).Return(models.Order{ID: "ord-1", Symbol: "MSFT", Status: models.OrderStatusNew}, nil)

	eng := newTestEngine(t, defaultOpts(), client, watched("MSFT"))

	err := eng.HandleAlert(context.Background(), "order buy | MSFT@337.57 | ")
	require.NoError(t, err)

	assert.Equal(t, "MSFT", placed.Symbol)
	assert.Equal(t, models.OrderSideBuy, placed.Side)
	assert.Equal(t, models.OrderTypeLimit, placed.Type)
	assert.Equal(t, 5.0, placed.Qty)
	assert.Equal(t, 337.74, placed.LimitPrice)
	assert.Len(t, placed.LinkID, 16)
}

func TestHandleAlertDryRun(t *testing.T) {
	client := &mockBroker{}
	expectSnapshot(client, nil, nil)

	opts := defaultOpts()
	opts.Enabled = false
	eng := newTestEngine(t, opts, client, watched("MSFT"))

	err := eng.HandleAlert(context.Background(), "order buy | MSFT@337.57 | ")
	require.NoError(t, err)
	client.AssertNotCalled(t, "PlaceOrder", mock.Anything, mock.Anything)
}

func TestHandleAlertMarketOrder(t *testing.T) {
	client := &mockBroker{}
	expectSnapshot(client, nil, nil)
	client.On("PlaceOrder", mock.Anything, mock.MatchedBy(func(order models.Order) bool {
		return order.Type == models.OrderTypeMarket && order.LimitPrice == 0
	})).Return(models.Order{ID: "ord-2", Symbol: "MSFT"}, nil)

	opts := defaultOpts()
	opts.Limit = false
	eng := newTestEngine(t, opts, client, watched("MSFT"))

	require.NoError(t, eng.HandleAlert(context.Background(), "order buy | MSFT@337.57 | "))
	client.AssertExpectations(t)
}

func TestHandleAlertRealBalance(t *testing.T) {
	client := &mockBroker{}
	expectSnapshot(client, nil, nil)
	client.On("PlaceOrder", mock.Anything, mock.MatchedBy(func(order models.Order) bool {
		return order.Qty == 2
	})).Return(models.Order{ID: "ord-3", Symbol: "MSFT"}, nil)

	opts := defaultOpts()
	opts.TestMode = false
	eng := newTestEngine(t, opts, client, watched("MSFT"))

	require.NoError(t, eng.HandleAlert(context.Background(), "order buy | MSFT@337.57 | "))
	client.AssertExpectations(t)
}

func TestHandleAlertParseError(t *testing.T) {
	client := &mockBroker{}
	eng := newTestEngine(t, defaultOpts(), client, watched("MSFT"))

	err := eng.HandleAlert(context.Background(), "мусор без токена")
	require.Error(t, err)
	client.AssertNotCalled(t, "GetAccount", mock.Anything)
}

func TestHandleAlertNotWatched(t *testing.T) {
	client := &mockBroker{}
	eng := newTestEngine(t, defaultOpts(), client, watched("MSFT"))

	err := eng.HandleAlert(context.Background(), "order buy | AAPL@190.10 | ")
	assert.ErrorIs(t, err, ErrNotWatched)
}

func TestHandleAlertNotTradable(t *testing.T) {
	client := &mockBroker{}
	eng := newTestEngine(t, defaultOpts(), client, registry.Entry{Symbol: "MSFT", Tradable: false})

	err := eng.HandleAlert(context.Background(), "order buy | MSFT@337.57 | ")
	assert.ErrorIs(t, err, ErrNotWatched)
}

func TestHandleAlertAccountRouting(t *testing.T) {
	client := &mockBroker{}
	eng := newTestEngine(t, defaultOpts(), client,
		registry.Entry{Symbol: "MSFT", Tradable: true, Account: registry.AccountReal})

	err := eng.HandleAlert(context.Background(), "order buy | MSFT@337.57 | ")
	assert.ErrorIs(t, err, ErrNotWatched)
}

func TestHandleAlertBiasAdvisory(t *testing.T) {
	client := &mockBroker{}
	eng := newTestEngine(t, defaultOpts(), client, watched("CLSK"))

	err := eng.HandleAlert(context.Background(), "LDC Kernel Bullish ▲ | CLSK@4.015 | (1)")
	require.NoError(t, err)
	client.AssertNotCalled(t, "GetAccount", mock.Anything)
	client.AssertNotCalled(t, "PlaceOrder", mock.Anything, mock.Anything)
}

func TestHandleAlertShortingDisabled(t *testing.T) {
	client := &mockBroker{}
	expectSnapshot(client, nil, nil)

	eng := newTestEngine(t, defaultOpts(), client, watched("CLSK"))

	err := eng.HandleAlert(context.Background(), "LDC Open Short ▲ | CLSK@4.015 | (1)")
	assert.ErrorIs(t, err, ErrShortingDisabled)
	client.AssertNotCalled(t, "PlaceOrder", mock.Anything, mock.Anything)
}

func TestHandleAlertOpenShort(t *testing.T) {
	client := &mockBroker{}
	expectSnapshot(client, nil, nil)
	client.On("PlaceOrder", mock.Anything, mock.MatchedBy(func(order models.Order) bool {
		return order.Side == models.OrderSideSell && order.Qty == 498
	})).Return(models.Order{ID: "ord-4", Symbol: "CLSK"}, nil)

	opts := defaultOpts()
	opts.Short = true
	eng := newTestEngine(t, opts, client, watched("CLSK"))

	require.NoError(t, eng.HandleAlert(context.Background(), "LDC Open Short ▲ | CLSK@4.015 | (1)"))
	client.AssertExpectations(t)
}

func TestHandleAlertStacking(t *testing.T) {
	client := &mockBroker{}
	positions := []models.Position{{Symbol: "MSFT", Side: models.OrderSideBuy, Qty: 5}}
	expectSnapshot(client, positions, nil)

	eng := newTestEngine(t, defaultOpts(), client, watched("MSFT"))

	err := eng.HandleAlert(context.Background(), "LDC Open Long ▲ | MSFT@327.30 | (1)")
	assert.ErrorIs(t, err, ErrStacking)
	client.AssertNotCalled(t, "PlaceOrder", mock.Anything, mock.Anything)
}

func TestHandleAlertCloseWithoutPosition(t *testing.T) {
	client := &mockBroker{}
	expectSnapshot(client, nil, nil)

	eng := newTestEngine(t, defaultOpts(), client, watched("CLSK"))

	err := eng.HandleAlert(context.Background(), "LDC Close Long ▲ | CLSK@4.015 | (1)")
	assert.ErrorIs(t, err, ErrNoPosition)
}

func TestHandleAlertCloseWrongSide(t *testing.T) {
	client := &mockBroker{}
	positions := []models.Position{{Symbol: "CLSK", Side: models.OrderSideSell, Qty: 10}}
	expectSnapshot(client, positions, nil)

	eng := newTestEngine(t, defaultOpts(), client, watched("CLSK"))

	err := eng.HandleAlert(context.Background(), "LDC Close Long ▲ | CLSK@4.015 | (1)")
	assert.ErrorIs(t, err, ErrNoPosition)
}

func TestHandleAlertCloseCancelsOpenOrders(t *testing.T) {
	client := &mockBroker{}
	positions := []models.Position{{Symbol: "MSFT", Side: models.OrderSideBuy, Qty: 7}}
	orders := []models.Order{{ID: "open-1", Symbol: "MSFT", Side: models.OrderSideBuy, Qty: 2}}
	expectSnapshot(client, positions, orders)
	client.On("CancelOrder", mock.Anything, "open-1").Return(nil)
	client.On("PlaceOrder", mock.Anything, mock.MatchedBy(func(order models.Order) bool {
		return order.Side == models.OrderSideSell && order.Qty == 7
	})).Return(models.Order{ID: "ord-5", Symbol: "MSFT"}, nil)

	eng := newTestEngine(t, defaultOpts(), client, watched("MSFT"))

	require.NoError(t, eng.HandleAlert(context.Background(), "LDC Close Long ▲ | MSFT@327.30 | (1)"))
	client.AssertExpectations(t)
}

func TestHandleAlertSubmissionError(t *testing.T) {
	client := &mockBroker{}
	expectSnapshot(client, nil, nil)
	client.On("PlaceOrder", mock.Anything, mock.Anything).
		Return(models.Order{}, errors.New("403 Forbidden"))

	eng := newTestEngine(t, defaultOpts(), client, watched("MSFT"))

	err := eng.HandleAlert(context.Background(), "order buy | MSFT@337.57 | ")
	assert.ErrorIs(t, err, ErrSubmission)
	client.AssertNumberOfCalls(t, "PlaceOrder", 1)
}

func TestHandleAlertInsufficientFunds(t *testing.T) {
	client := &mockBroker{}
	expectSnapshot(client, nil, nil)

	opts := defaultOpts()
	opts.TestBalance = 100
	eng := newTestEngine(t, opts, client, watched("MSFT"))

	err := eng.HandleAlert(context.Background(), "order buy | MSFT@337.57 | ")
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	client.AssertNotCalled(t, "PlaceOrder", mock.Anything, mock.Anything)
}
