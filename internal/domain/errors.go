package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound             = errors.New("not found")
	ErrConflict             = errors.New("already exists")
	ErrValidation           = errors.New("validation failed")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrForbidden            = errors.New("forbidden")
	ErrLocked               = errors.New("record is locked")
	ErrConfirmationRequired = errors.New("confirmation required")
)

// ConflictError represents a resource conflict with details about the existing resource
type ConflictError struct {
	Message      string // Human-readable error message
	ResourceType string // Type of resource (spis, folder, file)
	ResourceID   string // ID of the existing/conflicting resource
}

func (e *ConflictError) Error() string {
	return e.Message
}

func (e *ConflictError) StatusCode() int {
	return http.StatusConflict
}

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// ConfirmationRequiredError is returned by destructive operations invoked
// without an explicit confirmation. The caller shows the details to the user
// and repeats the call with confirmation set.
type ConfirmationRequiredError struct {
	ItemID        string
	ItemName      string
	AffectedCount int // item itself plus all descendants
}

func (e *ConfirmationRequiredError) Error() string {
	return fmt.Sprintf("deleting %q removes %d item(s) and must be confirmed", e.ItemName, e.AffectedCount)
}

func (e *ConfirmationRequiredError) StatusCode() int {
	return http.StatusPreconditionRequired
}

func (e *ConfirmationRequiredError) Is(target error) bool {
	return target == ErrConfirmationRequired
}

// MoveRejectReason enumerates why a move was refused.
type MoveRejectReason string

const (
	MoveIntoSelf       MoveRejectReason = "target_is_item"
	MoveIntoDescendant MoveRejectReason = "target_is_descendant"
	MoveTargetMissing  MoveRejectReason = "target_not_found"
	MoveTargetNotDir   MoveRejectReason = "target_not_folder"
)

// MoveRejectedError reports a refused move. Matches ErrValidation.
type MoveRejectedError struct {
	ItemID   string
	TargetID string
	Reason   MoveRejectReason
}

func (e *MoveRejectedError) Error() string {
	return fmt.Sprintf("cannot move %s into %s: %s", e.ItemID, e.TargetID, e.Reason)
}

func (e *MoveRejectedError) StatusCode() int {
	return http.StatusBadRequest
}

func (e *MoveRejectedError) Is(target error) bool {
	return target == ErrValidation
}
