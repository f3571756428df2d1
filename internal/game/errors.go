package game

import "errors"

// Error is a game-rule violation surfaced to the caller with a stable wire
// code. Missing preconditions are explicit errors, never silent drops.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Code + ": " + e.Message }

var (
	ErrSessionNotFound     = &Error{"SESSION_NOT_FOUND", "no such session"}
	ErrSessionFull         = &Error{"SESSION_FULL", "session is at capacity"}
	ErrMatchNotFound       = &Error{"MATCH_NOT_FOUND", "no match in progress"}
	ErrNotInMatch          = &Error{"NOT_IN_MATCH", "player has no seat in this match"}
	ErrNotYourTurn         = &Error{"NOT_YOUR_TURN", "it is the other team's turn"}
	ErrNotYourRole         = &Error{"NOT_YOUR_ROLE", "action not allowed for your role"}
	ErrWrongPhase          = &Error{"WRONG_PHASE", "action not allowed in the current phase"}
	ErrCardAlreadyRevealed = &Error{"CARD_ALREADY_REVEALED", "card has already been revealed"}
	ErrCardOutOfRange      = &Error{"CARD_OUT_OF_RANGE", "card position is outside the board"}
	ErrSlotOutOfRange      = &Error{"SLOT_OUT_OF_RANGE", "slot index is outside the team"}
	ErrEmptyLobby          = &Error{"EMPTY_LOBBY", "no players seated"}
)

// ErrorPayloadFor maps any error to a wire payload. Game errors keep their
// code; everything else is reported as bad input.
func ErrorPayloadFor(err error) ErrorPayload {
	var ge *Error
	if errors.As(err, &ge) {
		return ErrorPayload{Code: ge.Code, Message: ge.Message}
	}
	return ErrorPayload{Code: "BAD_INPUT", Message: err.Error()}
}
