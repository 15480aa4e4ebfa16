package domain

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"property-poster/models"
)

// CSVRepository writes the latest run to a CSV file, replacing earlier content.
type CSVRepository struct {
	filePath string
}

func NewCSVRepository(filePath string) *CSVRepository {
	return &CSVRepository{
		filePath: filePath,
	}
}

func (r *CSVRepository) Save(ctx context.Context, run models.Run) error {
	file, err := os.Create(r.filePath)
	if err != nil {
		return fmt.Errorf("create csv %s: %w", r.filePath, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	// header
	rows := [][]string{{
		"Run",
		"Site",
		"Success",
		"Outcome",
		"Message",
		"Listing URL",
		"Started",
		"Duration",
	}}
	for _, p := range run.Results {
		rows = append(rows, []string{
			run.ID,
			p.Site,
			strconv.FormatBool(p.Success),
			string(p.Outcome),
			p.Message,
			p.ListingURL,
			p.StartedAt.Format(time.RFC3339),
			p.Duration().Round(time.Millisecond).String(),
		})
	}

	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv %s: %w", r.filePath, err)
	}
	return file.Close()
}
