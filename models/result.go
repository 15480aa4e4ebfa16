package models

import "time"

// Outcome separates a confirmed failure from a submission whose effect is unknown.
type Outcome string

const (
	OutcomeConfirmed   Outcome = "confirmed"
	OutcomeUnconfirmed Outcome = "unconfirmed"
	OutcomeFailed      Outcome = "failed"
	OutcomeUnsupported Outcome = "unsupported"
)

// Result messages shown to the operator.
const (
	MsgPosted          = "Listing posted successfully"
	MsgLoginFailed     = "Login failed"
	MsgCaptchaFailed   = "Captcha handling failed"
	MsgUnconfirmed     = "Could not confirm successful posting"
	MsgUnsupportedSite = "Unsupported site: "
	MsgErrorPrefix     = "Error: "
)

// PostResult records the outcome of one posting attempt on one site.
type PostResult struct {
	Site       string    `json:"site"`
	Success    bool      `json:"success"`
	Message    string    `json:"message"`
	ListingURL string    `json:"listing_url,omitempty"`
	Outcome    Outcome   `json:"outcome"`
	ErrorKind  ErrorKind `json:"error_kind,omitempty"`
	// Last stage the attempt reached
	Stage      string    `json:"stage,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Unsupported builds the result for a site with no registered adapter.
func Unsupported(site string, at time.Time) PostResult {
	return PostResult{
		Site:       site,
		Success:    false,
		Message:    MsgUnsupportedSite + site,
		Outcome:    OutcomeUnsupported,
		ErrorKind:  KindUnsupportedSite,
		StartedAt:  at,
		FinishedAt: at,
	}
}

// Duration is how long the attempt took.
func (r PostResult) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Run is one pass of the orchestrator over a list of sites.
type Run struct {
	ID         string       `json:"id"`
	Engine     string       `json:"engine"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	Results    []PostResult `json:"results"`
}
