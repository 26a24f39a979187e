package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies calculation failures
type ErrorKind string

const (
	KindUnknownActType           ErrorKind = "UnknownActType"
	KindUnknownTemplate          ErrorKind = "UnknownTemplate"
	KindMissingRequiredField     ErrorKind = "MissingRequiredField"
	KindInvalidNumericInput      ErrorKind = "InvalidNumericInput"
	KindInvalidChoice            ErrorKind = "InvalidChoice"
	KindUnknownTaxID             ErrorKind = "UnknownTaxId"
	KindMalformedBracketSchedule ErrorKind = "MalformedBracketSchedule"
	KindUnknownRuleReference     ErrorKind = "UnknownRuleReference"
)

// ErrorCategory separates bad caller input from bad rule definitions
type ErrorCategory string

const (
	CategoryInput      ErrorCategory = "input"
	CategoryDefinition ErrorCategory = "definition"
)

// Sentinel errors, one per kind, for errors.Is
var (
	ErrUnknownActType           = errors.New("unknown act type")
	ErrUnknownTemplate          = errors.New("unknown template")
	ErrMissingRequiredField     = errors.New("missing required field")
	ErrInvalidNumericInput      = errors.New("invalid numeric input")
	ErrInvalidChoice            = errors.New("invalid choice")
	ErrUnknownTaxID             = errors.New("unknown tax id")
	ErrMalformedBracketSchedule = errors.New("malformed bracket schedule")
	ErrUnknownRuleReference     = errors.New("unknown rule reference")
)

var sentinels = map[ErrorKind]error{
	KindUnknownActType:           ErrUnknownActType,
	KindUnknownTemplate:          ErrUnknownTemplate,
	KindMissingRequiredField:     ErrMissingRequiredField,
	KindInvalidNumericInput:      ErrInvalidNumericInput,
	KindInvalidChoice:            ErrInvalidChoice,
	KindUnknownTaxID:             ErrUnknownTaxID,
	KindMalformedBracketSchedule: ErrMalformedBracketSchedule,
	KindUnknownRuleReference:     ErrUnknownRuleReference,
}

// CalcError is the structured error returned by every engine entry point
type CalcError struct {
	Kind    ErrorKind
	Field   string
	Message string
	Err     error
}

func (e *CalcError) Error() string {
	msg := string(e.Kind)
	if e.Field != "" {
		msg += " (" + e.Field + ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CalcError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error's kind
func (e *CalcError) Is(target error) bool {
	s, ok := sentinels[e.Kind]
	return ok && s == target
}

// Category reports whether the failure comes from caller input or from the rule catalog
func (e *CalcError) Category() ErrorCategory {
	switch e.Kind {
	case KindUnknownTaxID, KindMalformedBracketSchedule, KindUnknownRuleReference:
		return CategoryDefinition
	default:
		return CategoryInput
	}
}

// NewCalcError creates a new CalcError
func NewCalcError(kind ErrorKind, field, message string, err error) error {
	return &CalcError{
		Kind:    kind,
		Field:   field,
		Message: message,
		Err:     err,
	}
}

// Missing builds a MissingRequiredField error for field
func Missing(field string) error {
	return NewCalcError(KindMissingRequiredField, field, "value is required", nil)
}

// Invalid builds an InvalidNumericInput error for field
func Invalid(field, format string, args ...any) error {
	return NewCalcError(KindInvalidNumericInput, field, fmt.Sprintf(format, args...), nil)
}

// AsCalcError extracts the CalcError from an error chain
func AsCalcError(err error) (*CalcError, bool) {
	var ce *CalcError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// IsInputError reports whether err was caused by caller input
func IsInputError(err error) bool {
	ce, ok := AsCalcError(err)
	return ok && ce.Category() == CategoryInput
}

// IsDefinitionError reports whether err was caused by a bad rule definition
func IsDefinitionError(err error) bool {
	ce, ok := AsCalcError(err)
	return ok && ce.Category() == CategoryDefinition
}
