// Package apperr defines the typed error taxonomy used across the search
// engine: configuration problems, corpus/index I/O failures, on-disk
// corruption, and the zero-document warning path.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an AppError for errors.Is-style switches at the edges
// (the CLI, the HTTP handler) without exposing internal error chains.
type Kind int

const (
	KindConfig Kind = iota
	KindIO
	KindCorruptIndex
	KindEmptyCorpus
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindIO:
		return "io"
	case KindCorruptIndex:
		return "corrupt_index"
	case KindEmptyCorpus:
		return "empty_corpus"
	default:
		return "unknown"
	}
}

// Sentinel errors usable with errors.Is without unwrapping an AppError.
var (
	ErrConfig       = errors.New("configuration error")
	ErrIO           = errors.New("io error")
	ErrCorruptIndex = errors.New("corrupt index")
	ErrEmptyCorpus  = errors.New("empty corpus")
)

func sentinelFor(k Kind) error {
	switch k {
	case KindConfig:
		return ErrConfig
	case KindIO:
		return ErrIO
	case KindCorruptIndex:
		return ErrCorruptIndex
	case KindEmptyCorpus:
		return ErrEmptyCorpus
	default:
		return nil
	}
}

// AppError wraps an underlying cause with a Kind and a human-readable
// message, so callers can both log a clean message and errors.Is/As
// against the sentinel or the Kind.
type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target matches this error's Kind sentinel, so
// errors.Is(err, apperr.ErrCorruptIndex) works without type assertions.
func (e *AppError) Is(target error) bool {
	return target == sentinelFor(e.Kind)
}

func New(kind Kind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

func Newf(kind Kind, err error, format string, args ...any) *AppError {
	return &AppError{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

func Config(format string, args ...any) *AppError {
	return New(KindConfig, fmt.Sprintf(format, args...))
}

func IO(err error, format string, args ...any) *AppError {
	return Newf(KindIO, err, format, args...)
}

func CorruptIndex(format string, args ...any) *AppError {
	return New(KindCorruptIndex, fmt.Sprintf(format, args...))
}

func EmptyCorpus(format string, args ...any) *AppError {
	return New(KindEmptyCorpus, fmt.Sprintf(format, args...))
}
