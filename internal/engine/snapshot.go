package engine

import (
	"alertbot/internal/models"
	"context"
)

type Snapshot struct {
	Account   models.Account
	Balance   float64
	Positions []models.Position
	Orders    []models.Order
	AllOrders []models.Order
}

func (e *Engine) snapshot(ctx context.Context, symbol string) (Snapshot, error) {
	account, err := e.withRetryAccount(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	allPositions, err := e.withRetryPositions(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	var positions []models.Position
	for _, pos := range allPositions {
		if pos.Symbol == symbol {
			positions = append(positions, pos)
		}
	}

	allOrders, err := e.withRetryOrders(ctx, "")
	if err != nil {
		return Snapshot{}, err
	}

	var orders []models.Order
	for _, ord := range allOrders {
		if ord.Symbol == symbol {
			orders = append(orders, ord)
		}
	}

	return Snapshot{
		Account:   account,
		Balance:   account.Cash,
		Positions: positions,
		Orders:    orders,
		AllOrders: allOrders,
	}, nil
}

func (s Snapshot) positionFor(symbol string) (models.Position, bool) {
	for _, pos := range s.Positions {
		if pos.Symbol == symbol {
			return pos, true
		}
	}
	return models.Position{}, false
}
