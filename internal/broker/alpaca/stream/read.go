package stream

import (
	"alertbot/internal/broker"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
)

func (w *Client) readLoop() {
	w.logEntry().Debug("readLoop запущен.")

	for {
		select {
		case <-w.stopCh:
			return
		default:
		}
		_, data, err := w.conn.ReadMessage()
		if err != nil {
			select {
			case <-w.stopCh:
				return
			default:
			}
			w.logEntry().WithError(err).Warn("Ошибка чтения стрима.")

			if !w.reconnect() {
				return
			}
			continue
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			w.logEntry().WithError(err).Warn("Не удалось разобрать сообщение стрима.")
			continue
		}

		switch msg.Stream {
		case "trade_updates":
			w.handleTradeUpdate(msg)
		case "authorization", "listening":
			continue
		default:
			continue
		}
	}
}

func (w *Client) handleTradeUpdate(msg Message) {
	var data struct {
		Event string       `json:"event"`
		Order orderPayload `json:"order"`
	}

	if err := json.Unmarshal(msg.Data, &data); err != nil {
		w.logEntry().WithError(err).Warn("Не удалось разобрать trade_update.")
		return
	}

	order := data.Order.toModel()

	w.logEntry().WithFields(map[string]interface{}{
		"event":    data.Event,
		"symbol":   order.Symbol,
		"side":     order.Side,
		"order_id": order.ID,
		"link_id":  order.LinkID,
		"status":   order.Status,
		"qty":      order.Qty,
		"filled":   order.FilledQty,
	}).Debug("trade_update")

	w.events <- broker.Event{
		Type:   broker.EventTypeOrder,
		Update: data.Event,
		Order:  &order,
	}
}

func (w *Client) reconnect() bool {
	backoff := w.reconnectMin

	for {
		select {
		case <-w.stopCh:
			return false
		default:
		}

		w.logEntry().Info("Попытка переподключения к стриму.")

		time.Sleep(backoff)

		conn, _, err := websocket.DefaultDialer.Dial(w.url, nil)
		if err != nil {
			w.logEntry().WithError(err).Warn("Не удалось переподключиться к стриму.")
			backoff = w.nextBackoff(backoff)
			continue
		}

		if w.conn != nil {
			_ = w.conn.Close()
		}

		w.conn = conn
		w.conn.SetReadLimit(2 << 20)

		if err := w.authenticate(); err != nil {
			w.logEntry().WithError(err).Warn("Не удалось повторно авторизоваться в стриме.")
			backoff = w.nextBackoff(backoff)
			continue
		}

		if err := w.listen(); err != nil {
			w.logEntry().WithError(err).Warn("Не удалось повторно подписаться на trade_updates.")
			backoff = w.nextBackoff(backoff)
			continue
		}

		w.events <- broker.Event{Type: broker.EventTypeReconnect}
		w.logEntry().Info("Стрим переподключён, подписка восстановлена.")
		return true
	}
}

func (w *Client) nextBackoff(current time.Duration) time.Duration {
	next := current * 2
	if next > w.reconnectMax {
		return w.reconnectMax
	}
	return next
}
