package rest

import (
	"alertbot/internal/models"
	"context"
	"net/http"
	"strconv"
)

func (c *Client) GetAccount(ctx context.Context) (models.Account, error) {
	var resp struct {
		ID               string `json:"id"`
		Cash             string `json:"cash"`
		BuyingPower      string `json:"buying_power"`
		AccountBlocked   bool   `json:"account_blocked"`
		TradingBlocked   bool   `json:"trading_blocked"`
		TransfersBlocked bool   `json:"transfers_blocked"`
		TradeSuspended   bool   `json:"trade_suspended_by_user"`
	}

	if err := c.doRequest(ctx, http.MethodGet, "/v2/account", nil, nil, &resp); err != nil {
		return models.Account{}, err
	}

	cash, _ := parseFloatOrZero(resp.Cash)
	buyingPower, _ := parseFloatOrZero(resp.BuyingPower)

	return models.Account{
		ID:               resp.ID,
		Cash:             cash,
		BuyingPower:      buyingPower,
		Paper:            c.paper,
		AccountBlocked:   resp.AccountBlocked,
		TradingBlocked:   resp.TradingBlocked,
		TransfersBlocked: resp.TransfersBlocked,
		TradeSuspended:   resp.TradeSuspended,
	}, nil
}

func (c *Client) GetPositions(ctx context.Context) ([]models.Position, error) {
	var resp []struct {
		Symbol        string `json:"symbol"`
		Side          string `json:"side"`
		Qty           string `json:"qty"`
		AvgEntryPrice string `json:"avg_entry_price"`
		MarketValue   string `json:"market_value"`
		UnrealizedPL  string `json:"unrealized_pl"`
	}

	if err := c.doRequest(ctx, http.MethodGet, "/v2/positions", nil, nil, &resp); err != nil {
		return nil, err
	}

	var positions []models.Position
	for _, item := range resp {
		qty, _ := parseFloatOrZero(item.Qty)
		avgPrice, _ := parseFloatOrZero(item.AvgEntryPrice)
		marketVal, _ := parseFloatOrZero(item.MarketValue)
		unrealized, _ := parseFloatOrZero(item.UnrealizedPL)

		side := models.OrderSideBuy
		if item.Side == "short" {
			side = models.OrderSideSell
		}

		positions = append(positions, models.Position{
			Symbol:     item.Symbol,
			Side:       side,
			Qty:        qty,
			AvgPrice:   avgPrice,
			MarketVal:  marketVal,
			Unrealized: unrealized,
		})
	}
	return positions, nil
}

func (c *Client) GetAsset(ctx context.Context, symbol string) (models.Asset, error) {
	var resp struct {
		Symbol       string `json:"symbol"`
		Name         string `json:"name"`
		Exchange     string `json:"exchange"`
		Tradable     bool   `json:"tradable"`
		Fractionable bool   `json:"fractionable"`
		Shortable    bool   `json:"shortable"`
	}

	if err := c.doRequest(ctx, http.MethodGet, "/v2/assets/"+symbol, nil, nil, &resp); err != nil {
		return models.Asset{}, err
	}

	return models.Asset{
		Symbol:       resp.Symbol,
		Name:         resp.Name,
		Exchange:     resp.Exchange,
		Tradable:     resp.Tradable,
		Fractionable: resp.Fractionable,
		Shortable:    resp.Shortable,
	}, nil
}

func parseFloatOrZero(value string) (float64, error) {
	if value == "" {
		return 0, nil
	}
	return strconv.ParseFloat(value, 64)
}
