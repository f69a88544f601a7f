package domain

import "time"

// Identity es la identidad (scope) duena de las entradas remotas.
type Identity struct {
	ID          string    `json:"id"`
	Email       string    `json:"email,omitempty"`
	DisplayName string    `json:"display_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
