package registry

import (
	"context"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Store struct {
	db *gorm.DB
}

func NewStore(connStr string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(connStr), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// AutoMigrate automatically migrates the database schema using GORM models.
func (s *Store) AutoMigrate() error {
	if err := s.db.AutoMigrate(&Ticker{}); err != nil {
		return fmt.Errorf("failed to auto migrate schema: %w", err)
	}
	return nil
}

// CreateTicker inserts a new ticker row. No duplicate check is performed.
func (s *Store) CreateTicker(ctx context.Context, symbol string) (*Ticker, error) {
	ticker := Ticker{Symbol: symbol}
	if err := s.db.WithContext(ctx).Create(&ticker).Error; err != nil {
		return nil, fmt.Errorf("failed to create ticker: %w", err)
	}
	return &ticker, nil
}

// ListTickers retrieves every registered ticker.
func (s *Store) ListTickers(ctx context.Context) ([]Ticker, error) {
	var tickers []Ticker
	if err := s.db.WithContext(ctx).Find(&tickers).Error; err != nil {
		return nil, fmt.Errorf("failed to query tickers: %w", err)
	}
	return tickers, nil
}
