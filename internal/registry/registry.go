package registry

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	AccountAny   = ""
	AccountPaper = "paper"
	AccountReal  = "real"
)

var ErrNotFound = errors.New("Символ не найден в реестре.")

type Entry struct {
	Symbol       string    `gorm:"primaryKey;size:16"`
	Name         string    `gorm:"size:128"`
	Exchange     string    `gorm:"size:32"`
	Account      string    `gorm:"size:8"`
	Tradable     bool      `gorm:""`
	Fractionable bool      `gorm:""`
	Shortable    bool      `gorm:""`
	UpdatedAt    time.Time `gorm:""`
}

func (Entry) TableName() string {
	return "symbols"
}

type Store struct {
	db *gorm.DB
}

func New(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("Путь к реестру символов не задан.")
	}
	if err := ensureDir(path); err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("Не удалось открыть реестр символов: %w", err)
	}

	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("Не удалось мигрировать реестр символов: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) Upsert(ctx context.Context, entry Entry) error {
	if err := validAccount(entry.Account); err != nil {
		return err
	}
	entry.Symbol = strings.ToUpper(strings.TrimSpace(entry.Symbol))
	if entry.Symbol == "" {
		return fmt.Errorf("Пустой символ.")
	}
	entry.UpdatedAt = time.Now()
	return s.db.WithContext(ctx).Save(&entry).Error
}

func (s *Store) Remove(ctx context.Context, symbol string) error {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	result := s.db.WithContext(ctx).Delete(&Entry{}, "symbol = ?", symbol)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) SetAccount(ctx context.Context, symbol, account string) error {
	if err := validAccount(account); err != nil {
		return err
	}
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	result := s.db.WithContext(ctx).
		Model(&Entry{}).
		Where("symbol = ?", symbol).
		Updates(map[string]any{"account": account, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Find(ctx context.Context, symbol string) (Entry, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	var entry Entry
	err := s.db.WithContext(ctx).First(&entry, "symbol = ?", symbol).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, err
	}
	return entry, nil
}

func (s *Store) List(ctx context.Context) ([]Entry, error) {
	var entries []Entry
	if err := s.db.WithContext(ctx).Order("symbol asc").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func validAccount(account string) error {
	switch account {
	case AccountAny, AccountPaper, AccountReal:
		return nil
	default:
		return fmt.Errorf("Некорректная привязка счёта: %q", account)
	}
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
