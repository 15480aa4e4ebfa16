package domain_test

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"property-poster/internal/domain"
)

func TestCSVRepositorySave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	repo := domain.NewCSVRepository(path)

	require.NoError(t, repo.Save(context.Background(), sampleRun("run-1", time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 3)
	assert.Equal(t, "Site", rows[0][1])
	assert.Equal(t, []string{"run-1", "njoftime.com", "true", "confirmed", "Listing posted successfully",
		"https://njoftime.com/listing/42", "2026-03-01T09:00:00Z", "20s"}, rows[1])
	assert.Equal(t, "Unsupported site: unknown.al", rows[2][4])
}
