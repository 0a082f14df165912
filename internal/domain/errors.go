package domain

// Sentinel errors for the interview lifecycle. Callers match with errors.Is;
// the HTTP adapter maps them to status codes.
var (
	ErrNotFound            = errString("not found")
	ErrInvalidState        = errString("operation not legal in current status")
	ErrOutOfSequence       = errString("response submitted for wrong question number")
	ErrEmptyAnswer         = errString("answer is empty")
	ErrIncompleteInterview = errString("interview has unanswered questions")
	ErrQuestionSupply      = errString("question supply failed")
	ErrScoringUnavailable  = errString("scoring unavailable")
)

type errString string

func (e errString) Error() string { return string(e) }
