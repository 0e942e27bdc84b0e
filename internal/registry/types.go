package registry

// Ticker is a registered stock symbol. Symbols are stored lowercase; this
// service does not deduplicate — the user API is the deduplicating writer.
type Ticker struct {
	ID     int    `json:"id" gorm:"primaryKey"`
	Symbol string `json:"symbol" gorm:"size:15;not null"`
}
