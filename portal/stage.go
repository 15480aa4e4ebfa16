package portal

// Stage is where a posting attempt stands.
type Stage string

const (
	StageStart            Stage = "start"
	StageLoggedIn         Stage = "logged_in"
	StageOnPostForm       Stage = "on_post_form"
	StageFormFilled       Stage = "form_filled"
	StageImagesUploaded   Stage = "images_uploaded"
	StageChallengeCleared Stage = "challenge_cleared"
	StageSubmitted        Stage = "submitted"
	StageConfirmed        Stage = "confirmed"
	StageFailed           Stage = "failed"
)

// nextStage is the single forward step out of each non-terminal stage.
var nextStage = map[Stage]Stage{
	StageStart:            StageLoggedIn,
	StageLoggedIn:         StageOnPostForm,
	StageOnPostForm:       StageFormFilled,
	StageFormFilled:       StageImagesUploaded,
	StageImagesUploaded:   StageChallengeCleared,
	StageChallengeCleared: StageSubmitted,
	StageSubmitted:        StageConfirmed,
}

// IsTerminal reports whether no transition leaves s.
func IsTerminal(s Stage) bool {
	return s == StageConfirmed || s == StageFailed
}

// IsTransitionAllowed reports whether an attempt may move from one stage to another:
// one step forward, or from any non-terminal stage to StageFailed.
func IsTransitionAllowed(from, to Stage) bool {
	if IsTerminal(from) {
		return false
	}
	if to == StageFailed {
		return true
	}
	return nextStage[from] == to
}
