package stream

import (
	"alertbot/internal/broker"
	"alertbot/internal/logger"
	"context"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

func New(url, apiKey, secret string, log *logger.Logger) *Client {
	return &Client{
		url:          url,
		apiKey:       apiKey,
		secret:       secret,
		log:          log,
		events:       make(chan broker.Event, 100),
		stopCh:       make(chan struct{}),
		reconnectMin: 1 * time.Second,
		reconnectMax: 30 * time.Second,
	}
}

func (w *Client) Connect(ctx context.Context) error {
	w.logEntry().WithField("url", w.url).Info("Подключение к стриму.")

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, w.url, nil)
	if err != nil {
		return fmt.Errorf("Не удалось подключиться к стриму: %w", err)
	}

	w.conn = conn
	w.conn.SetReadLimit(2 << 20)

	if err := w.authenticate(); err != nil {
		return err
	}
	if err := w.listen(); err != nil {
		return err
	}

	w.logEntry().Info("Стрим подключён, подписка на trade_updates оформлена.")

	go w.readLoop()

	return nil
}

func (w *Client) Close() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		if w.conn != nil {
			_ = w.conn.Close()
		}
	})
}

func (w *Client) Events() <-chan broker.Event {
	return w.events
}

func (w *Client) authenticate() error {
	msg := AuthMessage{
		Action: "auth",
		Key:    w.apiKey,
		Secret: w.secret,
	}

	if err := w.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("Не удалось авторизоваться в стриме: %w", err)
	}

	return nil
}

func (w *Client) listen() error {
	msg := ListenMessage{
		Action: "listen",
		Data:   ListenData{Streams: []string{"trade_updates"}},
	}

	return w.conn.WriteJSON(msg)
}

func (w *Client) logEntry() *logrus.Entry {
	return w.log.WithComponent("alpaca_stream")
}
