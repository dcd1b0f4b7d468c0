// Package account defines the registered-user entity.
package account

import "time"

// Account is a registered user. Credentials are stored separately as a
// password hash and never leave the repository layer.
type Account struct {
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}
