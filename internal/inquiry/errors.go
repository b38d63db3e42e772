package inquiry

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrAlreadyConfirmed   = errors.New("inquiry already confirmed")
	ErrNotFailed          = errors.New("inquiry has no failed notification to retry")
	ErrNotificationFailed = errors.New("inquiry notification failed")
	ErrAlreadyMounted     = errors.New("step tracker already mounted")
	ErrUnknownRoom        = errors.New("unknown room")
)

// ValidationError lists every field that blocked a submission.
type ValidationError struct {
	fields map[string][]string
}

func newValidationError() *ValidationError {
	return &ValidationError{
		fields: make(map[string][]string),
	}
}

func IsValidationError(err error) *ValidationError {
	if err == nil {
		return nil
	}

	var validationError *ValidationError

	if errors.As(err, &validationError) {
		return validationError
	}

	return nil
}

func (ve *ValidationError) addError(field, msg string) {
	ve.fields[field] = append(ve.fields[field], msg)
}

func (ve *ValidationError) empty() bool {
	return len(ve.fields) == 0
}

func (ve *ValidationError) Has(field string) bool {
	_, ok := ve.fields[field]
	return ok
}

func (ve *ValidationError) Error() string {
	names := make([]string, 0, len(ve.fields))
	for name := range ve.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("invalid inquiry: %s", strings.Join(names, ", "))
}

func (ve *ValidationError) Fields() map[string][]string {
	out := make(map[string][]string, len(ve.fields))
	for k, v := range ve.fields {
		out[k] = append([]string(nil), v...)
	}
	return out
}
