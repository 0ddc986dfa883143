package radix

import "errors"

var (
	ErrEmptyKey       = errors.New("radix: empty key")
	ErrDuplicateKey   = errors.New("radix: duplicate key")
	ErrNotRelocatable = errors.New("radix: pointer table is not relocatable")
	ErrBadSnapshot    = errors.New("radix: snapshot is corrupted")
	ErrBadConfig      = errors.New("radix: invalid config")
)
