package catalog

import "errors"

var (
	ErrProductNotFound = errors.New("product not found")
	ErrAreaNotFound    = errors.New("member area not found")
	ErrModuleNotFound  = errors.New("module not found")
	ErrLessonNotFound  = errors.New("lesson not found")
	ErrInvalidType     = errors.New("invalid product type")
	ErrInvalidPrice    = errors.New("price must not be negative")
	ErrNotCourse       = errors.New("member areas require a Curso product")
	ErrAreaExists      = errors.New("product already has a member area")
	ErrModuleMismatch  = errors.New("module belongs to another member area")
)
