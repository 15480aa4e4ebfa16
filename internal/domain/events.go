package domain

import (
	"encoding/json"
	"time"

	"property-poster/models"
)

// EventListingPosted is the event type for every finished posting attempt.
const EventListingPosted = "EVENT_LISTING_POSTED"

// PostedEvent is the payload published for one result.
type PostedEvent struct {
	Type       string    `json:"type"`
	RunID      string    `json:"runId"`
	Site       string    `json:"site"`
	Success    bool      `json:"success"`
	Outcome    string    `json:"outcome"`
	Message    string    `json:"message"`
	ListingURL string    `json:"listingUrl,omitempty"`
	At         time.Time `json:"at"`
}

// NewPostedEvent builds the event for one result of run runID.
func NewPostedEvent(runID string, r models.PostResult) PostedEvent {
	return PostedEvent{
		Type:       EventListingPosted,
		RunID:      runID,
		Site:       r.Site,
		Success:    r.Success,
		Outcome:    string(r.Outcome),
		Message:    r.Message,
		ListingURL: r.ListingURL,
		At:         r.FinishedAt,
	}
}

// JSON encodes the event.
func (e PostedEvent) JSON() []byte {
	data, _ := json.Marshal(e)
	return data
}
