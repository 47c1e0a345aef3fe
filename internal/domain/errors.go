package domain

import (
	"fmt"
	"strings"
)

// ValidationError reports a malformed category, profile, or mapping
// definition. It is always surfaced before any document mutation.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a missing document, category, or profile.
type NotFoundError struct {
	Kind string // "blueprint", "category", "profile", ...
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.Name)
}

// AmbiguousError reports a short category name that resolves to more than
// one namespaced category.
type AmbiguousError struct {
	Name    string
	Matches []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("category name %q is ambiguous: matches %s",
		e.Name, strings.Join(e.Matches, ", "))
}

// ConflictError reports a merge that produced a duplicate source or target
// identifier across two categories.
type ConflictError struct {
	Kind       string // "source" or "target"
	Identifier string
	CategoryA  string
	CategoryB  string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("duplicate %s %q across categories %q and %q",
		e.Kind, e.Identifier, e.CategoryA, e.CategoryB)
}

// ParseError reports a malformed input document.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
