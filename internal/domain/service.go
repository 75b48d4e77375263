package domain

import "github.com/shopspring/decimal"

// Service represents a catalog service offered by the salon
type Service struct {
	ID              int64
	Name            string
	Category        ServiceCategory
	DurationMinutes int
	Price           decimal.Decimal
	Active          bool
}
