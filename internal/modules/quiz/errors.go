package quiz

import "errors"

var (
	ErrQuizNotFound      = errors.New("quiz not found")
	ErrTargetNotFound    = errors.New("lesson or module not found")
	ErrForbidden         = errors.New("quiz target belongs to another seller")
	ErrInvalidQuiz       = errors.New("invalid quiz")
	ErrLastCorrectAnswer = errors.New("a question needs at least one correct answer")
	ErrTooManyOptions    = errors.New("a question has at most 6 options")
	ErrTooFewOptions     = errors.New("a question has at least 2 options")
	ErrOutOfRange        = errors.New("question or option index out of range")
	ErrUnknownKind       = errors.New("unknown question kind")
)
