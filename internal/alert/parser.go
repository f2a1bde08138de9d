package alert

import (
	"alertbot/internal/models"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrParse = errors.New("Не удалось разобрать алерт.")

type matcher struct {
	name  string
	apply func(text string) (models.Action, models.PositionKind, bool)
}

var matchers = []matcher{
	{name: "order_verb", apply: matchOrderVerb},
	{name: "bias", apply: matchBias},
	{name: "lifecycle", apply: matchLifecycle},
}

func Parse(text string) (models.TradeIntent, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return models.TradeIntent{}, fmt.Errorf("%w Пустой текст.", ErrParse)
	}

	var action models.Action
	var position models.PositionKind
	matched := false
	for _, m := range matchers {
		if a, p, ok := m.apply(trimmed); ok {
			action = a
			position = p
			matched = true
			break
		}
	}
	if !matched {
		return models.TradeIntent{}, fmt.Errorf("%w Неизвестный тип сигнала: %q", ErrParse, trimmed)
	}

	symbol, price, err := extractToken(trimmed)
	if err != nil {
		return models.TradeIntent{}, err
	}

	return models.TradeIntent{
		Action:   action,
		Position: position,
		Symbol:   symbol,
		Price:    price,
	}, nil
}

func matchOrderVerb(text string) (models.Action, models.PositionKind, bool) {
	switch {
	case strings.HasPrefix(text, "order buy"):
		return models.ActionBuy, models.PositionNone, true
	case strings.HasPrefix(text, "order sell"):
		return models.ActionSell, models.PositionNone, true
	}
	return "", models.PositionNone, false
}

func matchBias(text string) (models.Action, models.PositionKind, bool) {
	switch {
	case strings.Contains(text, "Bullish"):
		return models.ActionBull, models.PositionNone, true
	case strings.Contains(text, "Bearish"):
		return models.ActionBear, models.PositionNone, true
	}
	return "", models.PositionNone, false
}

func matchLifecycle(text string) (models.Action, models.PositionKind, bool) {
	var action models.Action
	switch {
	case containsWord(text, "Open"):
		action = models.ActionOpen
	case containsWord(text, "Close"):
		action = models.ActionClose
	default:
		return "", models.PositionNone, false
	}

	switch {
	case containsWord(text, "Long"):
		return action, models.PositionLong, true
	case containsWord(text, "Short"):
		return action, models.PositionShort, true
	}
	return "", models.PositionNone, false
}

func containsWord(text, word string) bool {
	for _, field := range strings.Fields(text) {
		if field == word {
			return true
		}
	}
	return false
}

func extractToken(text string) (string, float64, error) {
	at := strings.IndexByte(text, '@')
	if at < 0 {
		return "", 0, fmt.Errorf("%w Нет токена символ@цена: %q", ErrParse, text)
	}

	start := at
	for start > 0 && isSymbolChar(text[start-1]) {
		start--
	}
	symbol := text[start:at]
	if symbol == "" {
		return "", 0, fmt.Errorf("%w Нет символа перед @: %q", ErrParse, text)
	}

	end := at + 1
	seenDot := false
	for end < len(text) {
		c := text[end]
		if c >= '0' && c <= '9' {
			end++
			continue
		}
		if c == '.' && !seenDot {
			seenDot = true
			end++
			continue
		}
		break
	}

	raw := strings.TrimSuffix(text[at+1:end], ".")
	if raw == "" {
		return "", 0, fmt.Errorf("%w Нет цены после @: %q", ErrParse, text)
	}

	price, err := strconv.ParseFloat(raw, 64)
	if err != nil || price <= 0 {
		return "", 0, fmt.Errorf("%w Некорректная цена: %q", ErrParse, raw)
	}

	return strings.ToUpper(symbol), price, nil
}

func isSymbolChar(c byte) bool {
	return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '.'
}
