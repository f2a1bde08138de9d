package engine

import (
	"alertbot/internal/models"
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func (e *Engine) withRetryAccount(ctx context.Context) (models.Account, error) {
	var lastErr error
	var backoff time.Duration = 1 * time.Second
	for i := 0; i < 5; i++ {
		account, err := e.client.GetAccount(ctx)
		if err == nil {
			return account, nil
		}
		lastErr = err
		wait := time.Duration(math.Min(float64(backoff), float64(backoff*30)))
		if isRateLimitError(err) {
			wait = time.Duration(math.Min(float64(backoff*4), float64(backoff*30)))
		}
		e.logEntry().WithError(lastErr).Warn("Ошибка, повторяем запрос.")
		select {
		case <-ctx.Done():
			return models.Account{}, ctx.Err()
		case <-time.After(wait):
		}
		backoff *= 2
	}
	return models.Account{}, lastErr
}

func (e *Engine) withRetryPositions(ctx context.Context) ([]models.Position, error) {
	var lastErr error
	var backoff time.Duration = 1 * time.Second
	for i := 0; i < 5; i++ {
		positions, err := e.client.GetPositions(ctx)
		if err == nil {
			return positions, nil
		}
		lastErr = err
		wait := time.Duration(math.Min(float64(backoff), float64(backoff*30)))
		if isRateLimitError(err) {
			wait = time.Duration(math.Min(float64(backoff*4), float64(backoff*30)))
		}
		e.logEntry().WithError(lastErr).Warn("Ошибка, повторяем запрос.")
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
		backoff *= 2
	}
	return nil, lastErr
}

func (e *Engine) withRetryOrders(ctx context.Context, symbol string) ([]models.Order, error) {
	var lastErr error
	var backoff time.Duration = 1 * time.Second
	for i := 0; i < 5; i++ {
		orders, err := e.client.GetOpenOrders(ctx, symbol)
		if err == nil {
			return orders, nil
		}
		lastErr = err
		wait := time.Duration(math.Min(float64(backoff), float64(backoff*30)))
		if isRateLimitError(err) {
			wait = time.Duration(math.Min(float64(backoff*4), float64(backoff*30)))
		}
		e.logEntry().WithError(lastErr).Warn("Ошибка, повторяем запрос.")
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
		backoff *= 2
	}
	return nil, lastErr
}

func newLinkID() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	if len(raw) > 16 {
		return raw[:16]
	}
	return raw
}

func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "too many requests")
}

func (e *Engine) logEntry() *logrus.Entry {
	return e.log.WithComponent("engine")
}

func (e *Engine) logAlert(symbol string) *logrus.Entry {
	entry := e.logEntry()
	if symbol != "" {
		entry = entry.WithField("symbol", symbol)
	}
	return entry
}
