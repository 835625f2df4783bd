package domain

import "time"

// Claims is the payload carried inside a bearer token.
type Claims struct {
	Subject   string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
