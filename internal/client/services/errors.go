package services

import "errors"

var (
	// ErrNoProfile means no user identity is stored yet.
	ErrNoProfile = errors.New("save profile first")
	// ErrEmptySelection rejects saving zero subscriptions.
	ErrEmptySelection = errors.New("select at least one contest")
	// ErrInProgress rejects a mutating action while the same action runs.
	ErrInProgress = errors.New("action already in progress")
)
