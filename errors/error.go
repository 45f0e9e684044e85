package errors

import (
	"fmt"
)

// Error kinds, as they travel across the wire
const (
	KindDataSetNotFound   = "DataSetNotFound"
	KindDataSetExists     = "DataSetExists"
	KindColumnNotFound    = "ColumnNotFound"
	KindDuplicateColumn   = "DuplicateColumn"
	KindTypeMismatch      = "TypeMismatch"
	KindExecutionNotFound = "ExecutionNotFound"
	KindInvalidPlan       = "InvalidPlan"
	KindCancelled         = "Cancelled"
	KindStreamClosed      = "StreamClosed"
	KindChecksum          = "Checksum"
	KindUnknownCodec      = "UnknownCodec"
	KindInternal          = "Internal"
)

// Kinded is implemented by every error in this package, so that it can be
// carried across the wire and reconstructed on the other side
type Kinded interface {
	error
	Kind() string
	Detail() string
}

// DataSetNotFoundError occurs when a referenced DataSet does not exist
type DataSetNotFoundError struct{ ID string }

// Error returns a textual representation of this DataSetNotFoundError
func (e DataSetNotFoundError) Error() string {
	return fmt.Sprintf("DataSet %s does not exist", e.ID)
}

// Kind returns the wire kind of this error
func (e DataSetNotFoundError) Kind() string { return KindDataSetNotFound }

// Detail returns the wire detail of this error
func (e DataSetNotFoundError) Detail() string { return e.ID }

// DataSetExistsError occurs when creating a DataSet whose id is taken, without force
type DataSetExistsError struct{ ID string }

// Error returns a textual representation of this DataSetExistsError
func (e DataSetExistsError) Error() string {
	return fmt.Sprintf("DataSet %s already exists", e.ID)
}

// Kind returns the wire kind of this error
func (e DataSetExistsError) Kind() string { return KindDataSetExists }

// Detail returns the wire detail of this error
func (e DataSetExistsError) Detail() string { return e.ID }

// ColumnNotFoundError occurs when a RecordSchema does not contain a named column
type ColumnNotFoundError struct{ Name string }

// Error returns a textual representation of this ColumnNotFoundError
func (e ColumnNotFoundError) Error() string {
	return fmt.Sprintf("Schema does not contain column with name %s", e.Name)
}

// Kind returns the wire kind of this error
func (e ColumnNotFoundError) Kind() string { return KindColumnNotFound }

// Detail returns the wire detail of this error
func (e ColumnNotFoundError) Detail() string { return e.Name }

// DuplicateColumnError occurs when a column name is defined twice in a RecordSchema
type DuplicateColumnError struct{ Name string }

// Error returns a textual representation of this DuplicateColumnError
func (e DuplicateColumnError) Error() string {
	return fmt.Sprintf("Schema already contains column with name %s", e.Name)
}

// Kind returns the wire kind of this error
func (e DuplicateColumnError) Kind() string { return KindDuplicateColumn }

// Detail returns the wire detail of this error
func (e DuplicateColumnError) Detail() string { return e.Name }

// TypeMismatchError occurs when a Record value does not match its column type
type TypeMismatchError struct {
	Column   string
	Expected string
	Actual   string
}

// Error returns a textual representation of this TypeMismatchError
func (e TypeMismatchError) Error() string {
	return fmt.Sprintf("Column %s expects a %s value, got %s", e.Column, e.Expected, e.Actual)
}

// Kind returns the wire kind of this error
func (e TypeMismatchError) Kind() string { return KindTypeMismatch }

// Detail returns the wire detail of this error
func (e TypeMismatchError) Detail() string {
	return fmt.Sprintf("%s,%s,%s", e.Column, e.Expected, e.Actual)
}

// ExecutionNotFoundError occurs when an asynchronous execution id is unknown
type ExecutionNotFoundError struct{ ID string }

// Error returns a textual representation of this ExecutionNotFoundError
func (e ExecutionNotFoundError) Error() string {
	return fmt.Sprintf("Execution %s does not exist", e.ID)
}

// Kind returns the wire kind of this error
func (e ExecutionNotFoundError) Kind() string { return KindExecutionNotFound }

// Detail returns the wire detail of this error
func (e ExecutionNotFoundError) Detail() string { return e.ID }

// InvalidPlanError occurs when a Plan is malformed
type InvalidPlanError struct{ Reason string }

// Error returns a textual representation of this InvalidPlanError
func (e InvalidPlanError) Error() string {
	return fmt.Sprintf("Invalid plan: %s", e.Reason)
}

// Kind returns the wire kind of this error
func (e InvalidPlanError) Kind() string { return KindInvalidPlan }

// Detail returns the wire detail of this error
func (e InvalidPlanError) Detail() string { return e.Reason }

// CancelledError occurs when a stream or execution was cancelled by a peer
type CancelledError struct{ Reason string }

// Error returns a textual representation of this CancelledError
func (e CancelledError) Error() string {
	if len(e.Reason) == 0 {
		return "Cancelled"
	}
	return fmt.Sprintf("Cancelled: %s", e.Reason)
}

// Kind returns the wire kind of this error
func (e CancelledError) Kind() string { return KindCancelled }

// Detail returns the wire detail of this error
func (e CancelledError) Detail() string { return e.Reason }

// StreamClosedError occurs when supplying data to a stream whose consumer has gone away
type StreamClosedError struct{}

// Error returns a textual representation of this StreamClosedError
func (e StreamClosedError) Error() string {
	return "Stream is closed"
}

// Kind returns the wire kind of this error
func (e StreamClosedError) Kind() string { return KindStreamClosed }

// Detail returns the wire detail of this error
func (e StreamClosedError) Detail() string { return "" }

// ChecksumError occurs when a received chunk does not match its checksum
type ChecksumError struct {
	Expected uint64
	Actual   uint64
}

// Error returns a textual representation of this ChecksumError
func (e ChecksumError) Error() string {
	return fmt.Sprintf("Chunk checksum mismatch: expected %x, got %x", e.Expected, e.Actual)
}

// Kind returns the wire kind of this error
func (e ChecksumError) Kind() string { return KindChecksum }

// Detail returns the wire detail of this error
func (e ChecksumError) Detail() string {
	return fmt.Sprintf("%x,%x", e.Expected, e.Actual)
}

// UnknownCodecError occurs when a compression codec name is not registered
type UnknownCodecError struct{ Name string }

// Error returns a textual representation of this UnknownCodecError
func (e UnknownCodecError) Error() string {
	return fmt.Sprintf("Unknown compression codec %s", e.Name)
}

// Kind returns the wire kind of this error
func (e UnknownCodecError) Kind() string { return KindUnknownCodec }

// Detail returns the wire detail of this error
func (e UnknownCodecError) Detail() string { return e.Name }

// RemoteError is a remote failure whose kind has no local type
type RemoteError struct {
	ErrKind string
	Message string
}

// Error returns a textual representation of this RemoteError
func (e RemoteError) Error() string {
	if len(e.ErrKind) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.ErrKind, e.Message)
}

// Kind returns the wire kind of this error
func (e RemoteError) Kind() string {
	if len(e.ErrKind) == 0 {
		return KindInternal
	}
	return e.ErrKind
}

// Detail returns the wire detail of this error
func (e RemoteError) Detail() string { return e.Message }

// NilValueError occurs when a typed getter reads a null value from a Record
type NilValueError struct{ Name string }

// Error returns a textual representation of this NilValueError
func (e NilValueError) Error() string {
	return fmt.Sprintf("Value for column %s is nil", e.Name)
}

// Kind returns the wire kind of this error
func (e NilValueError) Kind() string { return KindInternal }

// Detail returns the wire detail of this error
func (e NilValueError) Detail() string { return e.Error() }
