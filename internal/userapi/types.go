package userapi

import (
	"time"
)

// RuleType is the trigger mode of an alert.
type RuleType string

const (
	RuleFixedPrice       RuleType = "fixed_price"
	RulePercentageChange RuleType = "percentage_change"
	RuleTrailingChange   RuleType = "trailing_change"
)

// Valid reports whether r is one of the known rule types.
func (r RuleType) Valid() bool {
	switch r {
	case RuleFixedPrice, RulePercentageChange, RuleTrailingChange:
		return true
	}
	return false
}

type User struct {
	ID        int       `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"uniqueIndex"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// Ticker is the user API's own copy of a symbol. Symbols are stored lowercase.
type Ticker struct {
	ID     int    `json:"id" gorm:"primaryKey"`
	Symbol string `json:"symbol" gorm:"uniqueIndex;not null"`
}

// Alert ties a threshold rule to a user and a ticker. UserID and TickerID are
// plain columns, not enforced foreign keys: alert creation resolves the ticker
// itself, and user existence is deliberately not checked.
type Alert struct {
	ID        int       `json:"id" gorm:"primaryKey"`
	Rule      RuleType  `json:"rule" gorm:"not null;default:fixed_price"`
	Value     float64   `json:"value" gorm:"not null"`
	UserID    int       `json:"user_id" gorm:"index;not null"`
	TickerID  int       `json:"ticker_id" gorm:"index;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}
