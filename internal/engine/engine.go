package engine

import (
	"alertbot/internal/alert"
	"alertbot/internal/broker"
	"alertbot/internal/config"
	"alertbot/internal/logger"
	"alertbot/internal/models"
	"alertbot/internal/registry"
	"context"
	"errors"
	"fmt"
	"sync"
)

type Engine struct {
	cfg    *config.Config
	opts   config.Options
	client broker.Client
	reg    *registry.Store
	log    *logger.Logger

	mu sync.Mutex
}

func New(cfg *config.Config, client broker.Client, reg *registry.Store, log *logger.Logger) *Engine {
	return &Engine{
		cfg:    cfg,
		opts:   cfg.Agent,
		client: client,
		reg:    reg,
		log:    log,
	}
}

func (e *Engine) Start(ctx context.Context) error {
	account, err := e.withRetryAccount(ctx)
	if err != nil {
		return err
	}

	if e.opts.TestMode && !account.Paper {
		return fmt.Errorf("Опция testMode включена на реальном счёте, запуск запрещён.")
	}

	if account.AccountBlocked || account.TradingBlocked || account.TradeSuspended {
		return fmt.Errorf("Счёт заблокирован для торговли: account_blocked=%t trading_blocked=%t trade_suspended=%t",
			account.AccountBlocked, account.TradingBlocked, account.TradeSuspended)
	}

	e.logEntry().WithFields(map[string]interface{}{
		"cash":  account.Cash,
		"paper": account.Paper,
	}).Info("Счёт проверен.")

	events, err := e.client.Subscribe(ctx)
	if err != nil {
		e.logEntry().WithError(err).Warn("Стрим недоступен, продолжаем без обновлений ордеров.")
		return nil
	}
	go e.handleEvents(ctx, events)

	return nil
}

func (e *Engine) HandleAlert(ctx context.Context, text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	intent, err := alert.Parse(text)
	if err != nil {
		return err
	}

	entry := e.logAlert(intent.Symbol).WithFields(map[string]interface{}{
		"action":   intent.Action,
		"position": intent.Position,
		"price":    intent.Price,
	})
	entry.Info("Получен алерт.")

	if err := e.checkRegistry(ctx, intent.Symbol); err != nil {
		return err
	}

	if intent.Action == models.ActionBull || intent.Action == models.ActionBear {
		entry.Info("Информационный сигнал, ордер не требуется.")
		return nil
	}

	snap, err := e.snapshot(ctx, intent.Symbol)
	if err != nil {
		return err
	}

	qty, err := e.decide(ctx, intent, snap)
	if err != nil {
		return err
	}

	result, err := e.execute(ctx, intent, qty)
	if err != nil {
		return err
	}

	if result.Submitted {
		entry.WithField("order_id", result.Order.ID).Info("Цикл решения завершён.")
	} else {
		entry.Info("Цикл решения завершён без отправки.")
	}
	return nil
}

func (e *Engine) checkRegistry(ctx context.Context, symbol string) error {
	watched, err := e.reg.Find(ctx, symbol)
	if errors.Is(err, registry.ErrNotFound) {
		return fmt.Errorf("%w Символа %s нет в реестре.", ErrNotWatched, symbol)
	}
	if err != nil {
		return err
	}

	if !watched.Tradable {
		return fmt.Errorf("%w Символ %s не торгуется.", ErrNotWatched, symbol)
	}

	want := registry.AccountReal
	if e.cfg.Broker.Paper {
		want = registry.AccountPaper
	}
	if watched.Account != registry.AccountAny && watched.Account != want {
		return fmt.Errorf("%w Символ %s привязан к счёту %q.", ErrNotWatched, symbol, watched.Account)
	}

	return nil
}

func (e *Engine) decide(ctx context.Context, intent models.TradeIntent, snap Snapshot) (float64, error) {
	pos, havePos := snap.positionFor(intent.Symbol)

	switch {
	case intent.Action == models.ActionOpen && intent.Position == models.PositionShort:
		if !e.opts.Short {
			return 0, ErrShortingDisabled
		}
		if havePos && pos.Side == models.OrderSideBuy {
			return 0, fmt.Errorf("%w Сначала нужно закрыть длинную позицию по %s.", ErrShortingDisabled, intent.Symbol)
		}
		if havePos {
			return 0, ErrStacking
		}
		return e.sizeOrder(intent, snap)

	case intent.Action == models.ActionOpen || intent.Action == models.ActionBuy:
		if havePos {
			return 0, fmt.Errorf("%w Позиция по %s уже открыта.", ErrStacking, intent.Symbol)
		}
		return e.sizeOrder(intent, snap)

	case intent.Action == models.ActionClose || intent.Action == models.ActionSell:
		if !havePos {
			return 0, fmt.Errorf("%w %s", ErrNoPosition, intent.Symbol)
		}
		if intent.Action == models.ActionClose {
			wantSide := models.OrderSideBuy
			if intent.Position == models.PositionShort {
				wantSide = models.OrderSideSell
			}
			if pos.Side != wantSide {
				return 0, fmt.Errorf("%w Позиция по %s открыта в другую сторону.", ErrNoPosition, intent.Symbol)
			}
		}
		e.cancelOpenOrders(ctx, snap.Orders)
		return pos.Qty, nil
	}

	return 0, fmt.Errorf("%w action=%s position=%s", ErrAmbiguousIntent, intent.Action, intent.Position)
}

func (e *Engine) sizeOrder(intent models.TradeIntent, snap Snapshot) (float64, error) {
	balance := snap.Balance
	if e.opts.TestMode {
		balance = e.opts.TestBalance
	}

	qty, err := CalcOrderQty(balance, e.opts.BuyPerc, intent.Price)
	if err != nil {
		return 0, fmt.Errorf("%w Баланс %.2f, цена %.2f.", err, balance, intent.Price)
	}
	return qty, nil
}

func (e *Engine) cancelOpenOrders(ctx context.Context, orders []models.Order) {
	for _, ord := range orders {
		if ord.ID == "" {
			continue
		}
		if err := e.client.CancelOrder(ctx, ord.ID); err != nil {
			e.log.WithOrderID(ord.ID).WithError(err).Warn("Не удалось отменить открытый ордер.")
			continue
		}
		e.log.WithOrderID(ord.ID).WithField("component", "engine").Info("Открытый ордер отменён перед закрытием позиции.")
	}
}

func (e *Engine) handleEvents(ctx context.Context, events <-chan broker.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				e.logEntry().Warn("Канал событий стрима закрыт.")
				return
			}
			switch event.Type {
			case broker.EventTypeOrder:
				if event.Order != nil {
					e.logEntry().WithFields(map[string]interface{}{
						"event":    event.Update,
						"symbol":   event.Order.Symbol,
						"order_id": event.Order.ID,
						"status":   event.Order.Status,
						"filled":   event.Order.FilledQty,
					}).Info("Обновление ордера.")
				}
			case broker.EventTypeReconnect:
				e.logEntry().Info("Получен сигнал реконнекта стрима.")
			}
		}
	}
}
