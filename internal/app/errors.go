package app

// ValidationError rejects a command synchronously with a human-readable
// reason. No mutation and no event accompany a rejection.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// Validation failures surfaced to players verbatim.
var (
	ErrWrongPhase       = &ValidationError{Reason: "Move Not Allowed In This Phase!"}
	ErrNotYourTurn      = &ValidationError{Reason: "Not Your Turn!"}
	ErrUnknownPlayer    = &ValidationError{Reason: "Unknown Player!"}
	ErrUnknownCard      = &ValidationError{Reason: "Unknown Card!"}
	ErrUnknownBook      = &ValidationError{Reason: "Unknown Book!"}
	ErrAskSelf          = &ValidationError{Reason: "You Cannot Ask Yourself!"}
	ErrAskTeammate      = &ValidationError{Reason: "You Can Only Ask Opponents!"}
	ErrCardAlreadyHeld  = &ValidationError{Reason: "Card Already Yours!"}
	ErrTargetHasNoCards = &ValidationError{Reason: "That Player Has No Cards!"}
	ErrAskerHasNoCards  = &ValidationError{Reason: "You Have No Cards To Ask With!"}
	ErrBookResolved     = &ValidationError{Reason: "Book Already Claimed!"}
	ErrIncompleteClaim  = &ValidationError{Reason: "Claim Must Assign Every Card In The Book!"}
	ErrNoTransferRight  = &ValidationError{Reason: "No Turn Transfer Available!"}
	ErrBadTransferTo    = &ValidationError{Reason: "Transfer Target Must Be A Teammate With Cards!"}
	ErrGameFull         = &ValidationError{Reason: "Game Is Full!"}
	ErrAlreadyJoined    = &ValidationError{Reason: "Already In This Game!"}
	ErrBadTeamSplit     = &ValidationError{Reason: "Teams Must Cover Every Player Evenly!"}
	ErrBadDeckConfig    = &ValidationError{Reason: "Deck Size Does Not Match Book Type!"}
)
