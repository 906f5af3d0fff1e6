package domain

import (
	"errors"
	"fmt"
)

var (
	ErrSpreadNotFound  = errors.New("spread not found")
	ErrCardNotFound    = errors.New("card not found")
	ErrSessionNotFound = errors.New("session not found")
	ErrReadingNotFound = errors.New("reading not found")

	ErrInvalidCardIndex    = errors.New("card index out of range")
	ErrEmptySelection      = errors.New("at least one card must be selected")
	ErrIncompleteSelection = errors.New("spread selection is not complete")
	ErrInterpretInFlight   = errors.New("an interpretation is already in progress")
	ErrInvalidTransition   = errors.New("invalid transition")

	ErrUpstreamLLM    = errors.New("upstream LLM failure")
	ErrInvalidLLMJSON = errors.New("LLM returned invalid or incomplete JSON")
)

func invalidTransition(action string, from State) error {
	return fmt.Errorf("%w: %s from %s", ErrInvalidTransition, action, from)
}
