package engine

import (
	"alertbot/internal/models"
	"context"
	"fmt"
)

type OrderResult struct {
	Order     models.Order
	Submitted bool
}

func sideFor(intent models.TradeIntent) (models.OrderSide, error) {
	switch intent.Action {
	case models.ActionBuy:
		return models.OrderSideBuy, nil
	case models.ActionSell:
		return models.OrderSideSell, nil
	case models.ActionOpen:
		switch intent.Position {
		case models.PositionLong:
			return models.OrderSideBuy, nil
		case models.PositionShort:
			return models.OrderSideSell, nil
		}
	case models.ActionClose:
		switch intent.Position {
		case models.PositionLong:
			return models.OrderSideSell, nil
		case models.PositionShort:
			return models.OrderSideBuy, nil
		}
	}
	return "", fmt.Errorf("%w action=%s position=%s", ErrAmbiguousIntent, intent.Action, intent.Position)
}

func (e *Engine) execute(ctx context.Context, intent models.TradeIntent, qty float64) (OrderResult, error) {
	side, err := sideFor(intent)
	if err != nil {
		return OrderResult{}, err
	}

	order := models.Order{
		Symbol:      intent.Symbol,
		Side:        side,
		Type:        models.OrderTypeMarket,
		Qty:         qty,
		LinkID:      newLinkID(),
		TimeInForce: "day",
	}

	if e.opts.Limit {
		order.Type = models.OrderTypeLimit
		order.LimitPrice = CalcLimitPrice(intent.Price, side, e.opts.LimitAmt, e.opts.LimitPerc)
	}

	entry := e.logAlert(order.Symbol).WithFields(map[string]interface{}{
		"side":        order.Side,
		"type":        order.Type,
		"qty":         order.Qty,
		"limit_price": order.LimitPrice,
		"link_id":     order.LinkID,
	})

	if !e.opts.Enabled {
		entry.Info("Ордер собран, отправка отключена.")
		return OrderResult{Order: order}, nil
	}

	entry.Info("Отправка ордера.")

	placed, err := e.client.PlaceOrder(ctx, order)
	if err != nil {
		return OrderResult{}, fmt.Errorf("%w %v", ErrSubmission, err)
	}

	e.log.WithOrderID(placed.ID).WithField("component", "engine").WithField("symbol", placed.Symbol).Info("Ордер отправлен.")

	return OrderResult{Order: placed, Submitted: true}, nil
}
