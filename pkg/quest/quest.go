// Package quest holds the quest model.
package quest

import "github.com/google/uuid"

// Type distinguishes the single driving quest of a campaign from optional
// side content.
type Type string

const (
	TypeMain Type = "main"
	TypeSide Type = "side"
)

// Quest is a goal the campaign tracks. Completion is monotonic: once set,
// it never reverts.
type Quest struct {
	ID          uuid.UUID `json:"id"`
	CampaignID  uuid.UUID `json:"campaign_id"`
	Title       string    `json:"title"`
	Goal        string    `json:"goal"`
	Description string    `json:"description,omitempty"`
	Type        Type      `json:"type"`
	Completed   bool      `json:"completed"`
}

// Complete marks the quest done. There is no inverse operation.
func (q *Quest) Complete() {
	q.Completed = true
}
