package config

import (
	"fmt"

	"github.com/spf13/cast"
)

type Options struct {
	Short       bool
	BuyPerc     float64
	TestMode    bool
	TestBalance float64
	Enabled     bool
	Limit       bool
	LimitAmt    float64
	LimitPerc   float64
}

func DefaultOptions() Options {
	return Options{
		Short:       false,
		BuyPerc:     0.2,
		TestMode:    true,
		TestBalance: 10000,
		Enabled:     true,
		Limit:       true,
		LimitAmt:    0.04,
		LimitPerc:   0.0005,
	}
}

func OptionsFromMap(raw map[string]any) (Options, error) {
	opts := DefaultOptions()

	for key, val := range raw {
		var err error
		switch key {
		case "short":
			opts.Short, err = cast.ToBoolE(val)
		case "buyperc":
			opts.BuyPerc, err = cast.ToFloat64E(val)
		case "testmode":
			opts.TestMode, err = cast.ToBoolE(val)
		case "testbalance":
			opts.TestBalance, err = cast.ToFloat64E(val)
		case "enabled":
			opts.Enabled, err = cast.ToBoolE(val)
		case "limit":
			opts.Limit, err = cast.ToBoolE(val)
		case "limitamt":
			opts.LimitAmt, err = cast.ToFloat64E(val)
		case "limitperc":
			opts.LimitPerc, err = cast.ToFloat64E(val)
		default:
			return Options{}, fmt.Errorf("Неизвестная опция агента: %s", key)
		}
		if err != nil {
			return Options{}, fmt.Errorf("Некорректное значение опции %s: %w", key, err)
		}
	}

	return opts, nil
}

func (o Options) Validate(paper bool) error {
	if o.TestMode && !paper {
		return fmt.Errorf("Опция testMode запрещена для реального счёта.")
	}
	if o.BuyPerc <= 0 || o.BuyPerc > 1 {
		return fmt.Errorf("Опция buyPerc должна быть в диапазоне (0, 1]: %f", o.BuyPerc)
	}
	if o.TestMode && o.TestBalance <= 0 {
		return fmt.Errorf("Опция testBalance должна быть больше нуля: %f", o.TestBalance)
	}
	if o.Limit && o.LimitAmt <= 0 && o.LimitPerc <= 0 {
		return fmt.Errorf("Опция limit включена, но limitAmt и limitPerc не заданы.")
	}
	return nil
}
