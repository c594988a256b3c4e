package progress

import "errors"

var (
	ErrLessonNotFound    = errors.New("lesson not found")
	ErrLessonNotReleased = errors.New("lesson not released yet")
	ErrForbidden         = errors.New("no access to lesson")
	ErrInvalidRating     = errors.New("rating must be between 1 and 5")
	ErrInvalidComment    = errors.New("comment must not be empty")
	ErrInvalidPosition   = errors.New("position and duration must not be negative")
)
