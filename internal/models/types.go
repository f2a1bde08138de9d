package models

import "time"

type Action string
type PositionKind string
type OrderSide string
type OrderType string
type OrderStatus string

const (
	ActionBuy   Action = "buy"
	ActionSell  Action = "sell"
	ActionBull  Action = "Bull"
	ActionBear  Action = "Bear"
	ActionOpen  Action = "Open"
	ActionClose Action = "Close"

	PositionNone  PositionKind = ""
	PositionLong  PositionKind = "Long"
	PositionShort PositionKind = "Short"

	OrderSideBuy  OrderSide = "buy"
	OrderSideSell OrderSide = "sell"

	OrderTypeMarket OrderType = "market"
	OrderTypeLimit  OrderType = "limit"

	OrderStatusNew             OrderStatus = "new"
	OrderStatusAccepted        OrderStatus = "accepted"
	OrderStatusPartiallyFilled OrderStatus = "partially_filled"
	OrderStatusFilled          OrderStatus = "filled"
	OrderStatusCanceled        OrderStatus = "canceled"
	OrderStatusRejected        OrderStatus = "rejected"
)

type TradeIntent struct {
	Action   Action       `json:"action"`
	Position PositionKind `json:"position"`
	Symbol   string       `json:"symbol"`
	Price    float64      `json:"price"`
}

type Order struct {
	ID          string      `json:"id"`
	LinkID      string      `json:"link_id"`
	Symbol      string      `json:"symbol"`
	Side        OrderSide   `json:"side"`
	Type        OrderType   `json:"type"`
	Qty         float64     `json:"qty"`
	FilledQty   float64     `json:"filled_qty"`
	LimitPrice  float64     `json:"limit_price"`
	Status      OrderStatus `json:"status"`
	TimeInForce string      `json:"time_in_force"`
	CreateTime  time.Time   `json:"create_time"`
	UpdateTime  time.Time   `json:"update_time"`
}

type Position struct {
	Symbol     string    `json:"symbol"`
	Side       OrderSide `json:"side"`
	Qty        float64   `json:"qty"`
	AvgPrice   float64   `json:"avg_price"`
	MarketVal  float64   `json:"market_value"`
	Unrealized float64   `json:"unrealized_pl"`
}

type Account struct {
	ID               string  `json:"id"`
	Cash             float64 `json:"cash"`
	BuyingPower      float64 `json:"buying_power"`
	Paper            bool    `json:"paper"`
	AccountBlocked   bool    `json:"account_blocked"`
	TradingBlocked   bool    `json:"trading_blocked"`
	TransfersBlocked bool    `json:"transfers_blocked"`
	TradeSuspended   bool    `json:"trade_suspended_by_user"`
}

type Asset struct {
	Symbol       string `json:"symbol"`
	Name         string `json:"name"`
	Exchange     string `json:"exchange"`
	Tradable     bool   `json:"tradable"`
	Fractionable bool   `json:"fractionable"`
	Shortable    bool   `json:"shortable"`
}
