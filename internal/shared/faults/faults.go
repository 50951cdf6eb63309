// Package faults holds the failure classes shared by every bounded context.
package faults

import "errors"

var (
	// ErrDataIntegrity marks state that references unknown catalog items or
	// violates the persisted record schema.
	ErrDataIntegrity = errors.New("data integrity fault")
	// ErrPersistence marks a failed read or write against local storage.
	ErrPersistence = errors.New("persistence failure")
)
