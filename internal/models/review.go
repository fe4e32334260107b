package models

import (
	"time"
)

type Review struct {
	ID          int       `json:"review_id"`
	InventoryID int       `json:"inv_id"`
	AccountID   int       `json:"account_id"`
	Rating      int       `json:"rating"`
	Comment     string    `json:"comment"`
	CreatedAt   time.Time `json:"created_at"`

	// Joined from the account table on reads.
	ReviewerFirstName string `json:"account_firstname,omitempty"`
	ReviewerLastName  string `json:"account_lastname,omitempty"`
}
