package model

import "time"

// AdminCredential is the singleton password record guarding the document library.
type AdminCredential struct {
	PasswordHash string
	CreatedAt    time.Time
}
