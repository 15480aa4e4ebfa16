package service

import (
	"fmt"
	"io"
	"strings"

	"property-poster/models"
)

// Failure names one site that did not confirm a posting.
type Failure struct {
	Site    string
	Message string
	Outcome models.Outcome
}

// Summary aggregates a run's results.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
	// Failed attempts whose submission may still have gone through
	Unconfirmed int
	Failures    []Failure
}

// Summarize counts results. Every non-successful result is a failure, unconfirmed
// ones included.
func Summarize(results []models.PostResult) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		if r.Success {
			s.Succeeded++
			continue
		}
		s.Failed++
		if r.Outcome == models.OutcomeUnconfirmed {
			s.Unconfirmed++
		}
		s.Failures = append(s.Failures, Failure{Site: r.Site, Message: r.Message, Outcome: r.Outcome})
	}
	return s
}

// AllSucceeded reports whether every site confirmed.
func (s Summary) AllSucceeded() bool {
	return s.Failed == 0
}

// Write prints the summary block shown at the end of a run.
func (s Summary) Write(w io.Writer) {
	rule := strings.Repeat("=", 60)
	fmt.Fprintf(w, "\n%s\n📊 Posting Summary\n%s\n", rule, rule)
	fmt.Fprintf(w, "Total: %d sites\n", s.Total)
	fmt.Fprintf(w, "Successful: %d\n", s.Succeeded)
	fmt.Fprintf(w, "Failed: %d\n", s.Failed)
	if s.Unconfirmed > 0 {
		fmt.Fprintf(w, "Unconfirmed (check the portal): %d\n", s.Unconfirmed)
	}
	if len(s.Failures) > 0 {
		fmt.Fprintln(w, "\nFailed sites:")
		for _, f := range s.Failures {
			fmt.Fprintf(w, "- %s: %s\n", f.Site, f.Message)
		}
	}
	fmt.Fprintln(w, rule)
}
