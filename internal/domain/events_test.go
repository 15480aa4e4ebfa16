package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"property-poster/internal/domain"
	"property-poster/models"
)

func TestNewPostedEvent(t *testing.T) {
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	e := domain.NewPostedEvent("run-9", models.PostResult{
		Site:       "merrjep.al",
		Message:    models.MsgUnconfirmed,
		Outcome:    models.OutcomeUnconfirmed,
		FinishedAt: at,
	})

	var got map[string]any
	require.NoError(t, json.Unmarshal(e.JSON(), &got))
	assert.Equal(t, domain.EventListingPosted, got["type"])
	assert.Equal(t, "run-9", got["runId"])
	assert.Equal(t, "merrjep.al", got["site"])
	assert.Equal(t, false, got["success"])
	assert.Equal(t, "unconfirmed", got["outcome"])
	assert.NotContains(t, got, "listingUrl")
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "property.poster.results.merrjep_al", domain.Subject("property.poster.results", "merrjep.al"))
}
