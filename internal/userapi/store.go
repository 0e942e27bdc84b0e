package userapi

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// ErrConflict marks a write rejected by a unique index.
var ErrConflict = errors.New("duplicate value for unique field")

type Store struct {
	db *gorm.DB
}

func NewStore(connStr string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(connStr), &gorm.Config{TranslateError: true})
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
	if err := s.db.AutoMigrate(&User{}, &Ticker{}, &Alert{}); err != nil {
		return fmt.Errorf("failed to auto migrate schema: %w", err)
	}
	return nil
}

// translateWrite maps driver-level duplicate-key errors onto ErrConflict.
func translateWrite(op string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%s: %w", op, ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// CreateUser creates a new user and returns it.
func (s *Store) CreateUser(ctx context.Context, username string) (*User, error) {
	user := User{Username: username}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, translateWrite("failed to create user", err)
	}
	return &user, nil
}

// GetUserByID retrieves a user by id. Returns nil if not found.
func (s *Store) GetUserByID(ctx context.Context, id int) (*User, error) {
	var user User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// ListUsers retrieves all users.
func (s *Store) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := s.db.WithContext(ctx).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	return users, nil
}

// UpdateUser applies the supplied fields to a user. Returns nil if the user
// does not exist. An empty field map leaves the row untouched.
func (s *Store) UpdateUser(ctx context.Context, id int, fields map[string]any) (*User, error) {
	var user User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if len(fields) > 0 {
		if err := s.db.WithContext(ctx).Model(&user).Updates(fields).Error; err != nil {
			return nil, translateWrite("failed to update user", err)
		}
	}
	return &user, nil
}

// DeleteUser removes a user. Returns false if no row matched.
func (s *Store) DeleteUser(ctx context.Context, id int) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&User{}, id)
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete user: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// CreateTicker inserts a new ticker. Callers pass the symbol already lowercased.
func (s *Store) CreateTicker(ctx context.Context, symbol string) (*Ticker, error) {
	ticker := Ticker{Symbol: symbol}
	if err := s.db.WithContext(ctx).Create(&ticker).Error; err != nil {
		return nil, translateWrite("failed to create ticker", err)
	}
	return &ticker, nil
}

// GetTickerBySymbol retrieves a ticker by its (lowercase) symbol.
// Returns nil if not found.
func (s *Store) GetTickerBySymbol(ctx context.Context, symbol string) (*Ticker, error) {
	var ticker Ticker
	if err := s.db.WithContext(ctx).Where("symbol = ?", symbol).First(&ticker).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get ticker: %w", err)
	}
	return &ticker, nil
}

// ListTickers retrieves all tickers.
func (s *Store) ListTickers(ctx context.Context) ([]Ticker, error) {
	var tickers []Ticker
	if err := s.db.WithContext(ctx).Find(&tickers).Error; err != nil {
		return nil, fmt.Errorf("failed to query tickers: %w", err)
	}
	return tickers, nil
}

// UpdateTicker applies the supplied fields to a ticker. Returns nil if the
// ticker does not exist.
func (s *Store) UpdateTicker(ctx context.Context, id int, fields map[string]any) (*Ticker, error) {
	var ticker Ticker
	if err := s.db.WithContext(ctx).First(&ticker, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get ticker: %w", err)
	}

	if len(fields) > 0 {
		if err := s.db.WithContext(ctx).Model(&ticker).Updates(fields).Error; err != nil {
			return nil, translateWrite("failed to update ticker", err)
		}
	}
	return &ticker, nil
}

// DeleteTicker removes a ticker. Returns false if no row matched.
func (s *Store) DeleteTicker(ctx context.Context, id int) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&Ticker{}, id)
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete ticker: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// CreateAlert persists a new alert.
func (s *Store) CreateAlert(ctx context.Context, alert *Alert) error {
	if err := s.db.WithContext(ctx).Create(alert).Error; err != nil {
		return translateWrite("failed to create alert", err)
	}
	return nil
}

// GetAlertByUserAndSymbol retrieves the alert matching a user id and a
// (lowercase) ticker symbol. Returns nil if not found.
func (s *Store) GetAlertByUserAndSymbol(ctx context.Context, userID int, symbol string) (*Alert, error) {
	var alert Alert
	err := s.db.WithContext(ctx).
		Joins("JOIN tickers ON tickers.id = alerts.ticker_id").
		Where("alerts.user_id = ? AND tickers.symbol = ?", userID, symbol).
		First(&alert).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get alert: %w", err)
	}
	return &alert, nil
}

// ListAlertsByUser retrieves all alerts configured by a user.
func (s *Store) ListAlertsByUser(ctx context.Context, userID int) ([]Alert, error) {
	var alerts []Alert
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&alerts).Error; err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	return alerts, nil
}

// UpdateAlert applies the supplied fields to an alert. Returns nil if the
// alert does not exist.
func (s *Store) UpdateAlert(ctx context.Context, id int, fields map[string]any) (*Alert, error) {
	var alert Alert
	if err := s.db.WithContext(ctx).First(&alert, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get alert: %w", err)
	}

	if len(fields) > 0 {
		if err := s.db.WithContext(ctx).Model(&alert).Updates(fields).Error; err != nil {
			return nil, translateWrite("failed to update alert", err)
		}
	}
	return &alert, nil
}

// DeleteAlert removes an alert. Returns false if no row matched.
func (s *Store) DeleteAlert(ctx context.Context, id int) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&Alert{}, id)
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete alert: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}
