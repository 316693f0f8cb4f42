package domain

import "errors"

var (
	ErrInvalidGranularity   = errors.New("invalid granularity")
	ErrEmptyInput           = errors.New("empty transaction set")
	ErrInsufficientHistory  = errors.New("insufficient history")
	ErrUnknownSubject       = errors.New("unknown subject")
	ErrUnknownProfile       = errors.New("unknown ledger profile")
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrInvalidTransaction   = errors.New("invalid transaction")
)
