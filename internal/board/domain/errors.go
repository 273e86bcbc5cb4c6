package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation 輸入格式錯誤, 不會存取 store
	ErrValidation = errors.New("validation failed")
	// ErrAlreadyExists (room_id, msg_id) 已存在
	ErrAlreadyExists = errors.New("message already exists")
	// ErrNotFound 刪除目標不存在
	ErrNotFound = errors.New("message not found")
	// ErrStoreUnavailable store 無法完成操作 (timeout, throttling, permission ...)
	ErrStoreUnavailable = errors.New("store unavailable")
)

// NewValidationError wrap ErrValidation with a caller facing reason
func NewValidationError(reason string) error {
	return fmt.Errorf("%w: %s", ErrValidation, reason)
}

// StoreError keeps the driver error of a failed store operation.
// errors.Is(err, ErrStoreUnavailable) is true for every StoreError.
type StoreError struct {
	Op  string
	Err error
}

// NewStoreError wrap a driver error
func NewStoreError(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Op, ErrStoreUnavailable, e.Err)
}

// Unwrap exposes both the sentinel and the driver error
func (e *StoreError) Unwrap() []error {
	return []error{ErrStoreUnavailable, e.Err}
}
