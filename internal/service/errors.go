package service

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("not permitted")
	ErrInvalidState = errors.New("invalid state")

	ErrExamUnavailable  = fmt.Errorf("%w: exam unavailable", ErrInvalidState)
	ErrAlreadySubmitted = fmt.Errorf("%w: already submitted", ErrInvalidState)
	ErrExamNotDraft     = fmt.Errorf("%w: exam is no longer a draft", ErrInvalidState)
	ErrExamNotPublished = fmt.Errorf("%w: exam is not published", ErrInvalidState)
	ErrAlreadyMarked    = fmt.Errorf("%w: paper already marked", ErrInvalidState)

	ErrTutorDisabled = errors.New("tutor is not configured")
)
