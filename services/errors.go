package services

import "errors"

// Классы ошибок. Каждая конкретная ошибка ниже разворачивается (errors.Is) в один из них.
var (
	ErrNotFound           = errors.New("requested resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrPreconditionFailed = errors.New("operation not allowed in the current state")
)

type classifiedError struct {
	msg   string
	class error
}

func (e *classifiedError) Error() string { return e.msg }

func (e *classifiedError) Unwrap() error { return e.class }

func notFound(msg string) error { return &classifiedError{msg: msg, class: ErrNotFound} }
func invalidInput(msg string) error { return &classifiedError{msg: msg, class: ErrInvalidInput} }
func precondition(msg string) error { return &classifiedError{msg: msg, class: ErrPreconditionFailed} }

func subclass(msg string, parent error) error { return &classifiedError{msg: msg, class: parent} }

var (
	ErrUnknownCompetition = notFound("competition not found")
	ErrMatchNotFound      = notFound("match not found")
	ErrGroupNotFound      = notFound("group not found")
	ErrPlayerNotFound     = notFound("player not found")
	ErrSurvivalNotFound   = notFound("survival tournament not found")
	ErrRoundNotFound      = notFound("round not found")

	ErrNegativeScore      = invalidInput("scores must be non-negative integers")
	ErrTiedScore          = invalidInput("a knockout match cannot end in a tie")
	ErrPlayerNameRequired = invalidInput("player name is required")
	ErrDuplicatePlayer    = invalidInput("player already exists")
	ErrSamePlayer         = invalidInput("two different players are required")
	ErrInvalidRound       = invalidInput("invalid round")
	ErrInvalidStatus      = invalidInput("status can only be set to scheduled or live")
	ErrInvalidGroupName   = invalidInput("group name must be one of A-H")

	ErrMatchNotEligible     = precondition("match is not eligible for a result")
	ErrMatchCompleted       = subclass("match is already completed", ErrMatchNotEligible)
	ErrMatchPlayersMissing  = subclass("both players must be set", ErrMatchNotEligible)
	ErrSuccessorCompleted   = precondition("a following match is already completed; reset it first")
	ErrGroupConcluded       = precondition("group stage has concluded")
	ErrPlayerHasMatches     = precondition("player already has recorded matches")
	ErrNotEnoughPlayers     = precondition("not enough players")
	ErrGroupsIncomplete     = precondition("knockout needs exactly 8 groups A-H with at least 2 players each")
	ErrKnockoutStarted      = precondition("round of 16 already has completed matches")
	ErrBracketNotSeeded     = precondition("bracket has not been seeded")
	ErrRegistrationClosed   = precondition("registration is closed after round 1")
	ErrRoundNotEditable     = precondition("scores can only be edited in the active round")
	ErrRoundAlreadyComplete = precondition("current round is already completed")
	ErrTournamentFinished   = precondition("tournament is finished")
	ErrUploadsDisabled      = precondition("file storage is not configured")
)

// errorKind is the metrics label of an error class.
func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrPreconditionFailed):
		return "precondition_failed"
	default:
		return "internal"
	}
}
