package engine

import (
	"alertbot/internal/models"

	"github.com/shopspring/decimal"
)

// Порог, выше которого вместо абсолютного смещения лимита используется процентное.
const limitPriceThreshold = 100.0

func CalcOrderQty(balance, buyPerc, price float64) (float64, error) {
	if balance <= 0 || price <= 0 {
		return 0, ErrInsufficientFunds
	}

	notional := decimal.NewFromFloat(balance).Mul(decimal.NewFromFloat(buyPerc))
	qty := notional.Div(decimal.NewFromFloat(price)).Floor()

	if qty.LessThanOrEqual(decimal.Zero) {
		return 0, ErrInsufficientFunds
	}

	return qty.InexactFloat64(), nil
}

func CalcLimitPrice(price float64, side models.OrderSide, limitAmt, limitPerc float64) float64 {
	ref := decimal.NewFromFloat(price)

	var offset decimal.Decimal
	if price < limitPriceThreshold {
		offset = decimal.NewFromFloat(limitAmt)
	} else {
		offset = ref.Mul(decimal.NewFromFloat(limitPerc))
	}

	var limit decimal.Decimal
	if side == models.OrderSideBuy {
		limit = ref.Add(offset)
	} else {
		limit = ref.Sub(offset)
	}

	return limit.Round(2).InexactFloat64()
}
