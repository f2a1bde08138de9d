package main

import (
	"alertbot/internal/broker/alpaca"
	"alertbot/internal/config"
	"alertbot/internal/logger"
	"alertbot/internal/registry"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:          "symbols",
		Short:        "Управление реестром торгуемых символов.",
		SilenceUsage: true,
	}

	root.AddCommand(addCmd(), removeCmd(), setAccountCmd("paper"), setAccountCmd("real"), clearCmd(), listCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func open() (*config.Config, *registry.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	reg, err := registry.New(cfg.Runtime.RegistryPath)
	if err != nil {
		return nil, nil, err
	}
	return cfg, reg, nil
}

func splitSymbols(args []string) []string {
	var symbols []string
	for _, arg := range args {
		for _, part := range strings.Split(arg, ",") {
			part = strings.ToUpper(strings.TrimSpace(part))
			if part != "" {
				symbols = append(symbols, part)
			}
		}
	}
	return symbols
}

func addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add SYMBOL...",
		Short: "Добавить символ(ы) в реестр с данными брокера.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, reg, err := open()
			if err != nil {
				return err
			}
			defer reg.Close()

			log := logger.New(logger.Config{Level: "warn"})
			client := alpaca.New(cfg.Broker.BaseUrl, cfg.Broker.StreamUrl, cfg.Broker.ApiKey, cfg.Broker.Secret, cfg.Broker.Paper, log)
			defer client.Close()

			ctx := context.Background()
			for _, symbol := range splitSymbols(args) {
				asset, err := client.GetAsset(ctx, symbol)
				if err != nil {
					return fmt.Errorf("Не удалось получить данные по %s: %w", symbol, err)
				}
				entry := registry.Entry{
					Symbol:       asset.Symbol,
					Name:         asset.Name,
					Exchange:     asset.Exchange,
					Tradable:     asset.Tradable,
					Fractionable: asset.Fractionable,
					Shortable:    asset.Shortable,
				}
				if err := reg.Upsert(ctx, entry); err != nil {
					return err
				}
				fmt.Printf("Добавлен: %s (%s)\n", asset.Symbol, asset.Name)
			}
			return nil
		},
	}
}

func removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove SYMBOL...",
		Short: "Удалить символ(ы) из реестра.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, reg, err := open()
			if err != nil {
				return err
			}
			defer reg.Close()

			ctx := context.Background()
			for _, symbol := range splitSymbols(args) {
				if err := reg.Remove(ctx, symbol); err != nil {
					return fmt.Errorf("%s: %w", symbol, err)
				}
				fmt.Printf("Удалён: %s\n", symbol)
			}
			return nil
		},
	}
}

func setAccountCmd(account string) *cobra.Command {
	return &cobra.Command{
		Use:   account + " SYMBOL...",
		Short: fmt.Sprintf("Привязать символ(ы) к счёту %q.", account),
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return updateAccount(args, account)
		},
	}
}

func clearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear SYMBOL...",
		Short: "Сбросить привязку счёта у символа(ов).",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return updateAccount(args, registry.AccountAny)
		},
	}
}

func updateAccount(args []string, account string) error {
	_, reg, err := open()
	if err != nil {
		return err
	}
	defer reg.Close()

	ctx := context.Background()
	for _, symbol := range splitSymbols(args) {
		if err := reg.SetAccount(ctx, symbol, account); err != nil {
			return fmt.Errorf("%s: %w", symbol, err)
		}
		fmt.Printf("Обновлён: %s -> %q\n", symbol, account)
	}
	return nil
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Показать реестр с привязками счетов.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, reg, err := open()
			if err != nil {
				return err
			}
			defer reg.Close()

			entries, err := reg.List(context.Background())
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("Реестр пуст.")
				return nil
			}
			for _, entry := range entries {
				account := entry.Account
				if account == registry.AccountAny {
					account = "-"
				}
				fmt.Printf("%-8s %-6s tradable=%-5t fractionable=%-5t %s\n",
					entry.Symbol, account, entry.Tradable, entry.Fractionable, entry.Name)
			}
			return nil
		},
	}
}
