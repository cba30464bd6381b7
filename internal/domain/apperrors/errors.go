package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the transport layer.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindForbidden
	KindConflict
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	}
	return "unknown"
}

type Code string

const (
	CodeEmptyTagSet         Code = "EmptyTagSet"
	CodeDuplicateTag        Code = "DuplicateTag"
	CodeEmptyIngredientSet  Code = "EmptyIngredientSet"
	CodeDuplicateIngredient Code = "DuplicateIngredient"
	CodeInvalidAmount       Code = "InvalidAmount"
	CodeInvalidField        Code = "InvalidField"
	CodeNotFound            Code = "NotFound"
	CodeForbidden           Code = "Forbidden"
	CodeAlreadyMember       Code = "AlreadyMember"
	CodeNotMember           Code = "NotMember"
	CodeEmptyCart           Code = "EmptyCart"
	CodeSelfSubscription    Code = "SelfSubscription"
	CodeAlreadySubscribed   Code = "AlreadySubscribed"
	CodeUnauthorized        Code = "Unauthorized"
)

// Error is the domain error every service returns for an expected failure.
// Details maps a field name to a human readable problem.
type Error struct {
	Kind    Kind
	Code    Code
	Message string
	Details map[string]string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches another *Error with the same code, so errors.Is works against
// the sentinel-style values built by the constructors below.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

func New(kind Kind, code Code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func (e *Error) WithDetail(field, problem string) *Error {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[field] = problem
	return e
}

func Validation(code Code, message string) *Error {
	return New(KindValidation, code, message)
}

// InvalidField reports a single malformed input field.
func InvalidField(field, problem string) *Error {
	return Validation(CodeInvalidField, fmt.Sprintf("invalid %s", field)).WithDetail(field, problem)
}

func NotFound(entity string, id interface{}) *Error {
	return New(KindNotFound, CodeNotFound, fmt.Sprintf("%s %v not found", entity, id))
}

func Forbidden(message string) *Error {
	return New(KindForbidden, CodeForbidden, message)
}

func Conflict(code Code, message string) *Error {
	return New(KindConflict, code, message)
}

func Unauthorized() *Error {
	return New(KindUnauthorized, CodeUnauthorized, "authentication credentials were not provided")
}

// As extracts the domain error from err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func HasCode(err error, code Code) bool {
	e, ok := As(err)
	return ok && e.Code == code
}

func HasKind(err error, kind Kind) bool {
	e, ok := As(err)
	return ok && e.Kind == kind
}
