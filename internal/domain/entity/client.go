package entity

import "time"

// Client representa un cliente (constructora o particular).
type Client struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Address   string
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
