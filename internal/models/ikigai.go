// internal/models/ikigai.go
package models

import "time"

// Responses are the four answers of the questionnaire.
type Responses struct {
	Love       string `json:"love"`
	GoodAt     string `json:"goodAt"`
	PaidFor    string `json:"paidFor"`
	WorldNeeds string `json:"worldNeeds"`
}

// IkigaiResponse is one completed questionnaire. Rows are never updated.
type IkigaiResponse struct {
	ID          string    `json:"id" db:"id"`
	UserID      string    `json:"user_id" db:"user_id"`
	Love        string    `json:"love" db:"love"`
	GoodAt      string    `json:"good_at" db:"good_at"`
	PaidFor     string    `json:"paid_for" db:"paid_for"`
	WorldNeeds  string    `json:"world_needs" db:"world_needs"`
	CompletedAt time.Time `json:"completed_at" db:"completed_at"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// NewIkigaiResponse copies answers into a response row for userID.
func NewIkigaiResponse(id, userID string, r Responses) IkigaiResponse {
	return IkigaiResponse{
		ID:         id,
		UserID:     userID,
		Love:       r.Love,
		GoodAt:     r.GoodAt,
		PaidFor:    r.PaidFor,
		WorldNeeds: r.WorldNeeds,
	}
}

// Responses returns the answers stored on the row.
func (r IkigaiResponse) Responses() Responses {
	return Responses{Love: r.Love, GoodAt: r.GoodAt, PaidFor: r.PaidFor, WorldNeeds: r.WorldNeeds}
}
