// Package model contains the entities persisted by shelfstack.
package model

import "time"

// User is an account identified by a unique email address. PasswordHash is
// never serialized; only the credentials service may read it.
type User struct {
	ID           int32     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Product is a purchasable item. Read-only through the API.
type Product struct {
	ID    int32   `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// UserProduct associates a User and a Product with a quantity owned. The
// foreign keys are stored values, not enforced references; either side may
// have been deleted since the row was written.
type UserProduct struct {
	ID            int32  `json:"id"`
	UserID        *int32 `json:"userId"`
	ProductID     *int32 `json:"productId"`
	QuantityOwned int32  `json:"quantityOwned"`
}

// Todo is a checklist entry.
type Todo struct {
	ID        int32     `json:"id"`
	Label     string    `json:"label"`
	Checked   bool      `json:"checked"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
