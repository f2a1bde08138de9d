package engine

import "errors"

var (
	ErrInsufficientFunds = errors.New("Недостаточно средств для ордера.")
	ErrShortingDisabled  = errors.New("Шорт не реализован.")
	ErrAmbiguousIntent   = errors.New("Сигнал не задаёт направление ордера.")
	ErrStacking          = errors.New("Докупка к открытой позиции не реализована.")
	ErrNoPosition        = errors.New("Нет позиции для закрытия.")
	ErrNotWatched        = errors.New("Символ не разрешён для торговли.")
	ErrSubmission        = errors.New("Не удалось отправить ордер.")
)
