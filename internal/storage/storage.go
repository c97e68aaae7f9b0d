// Package storage defines the Storage interface — a contract that any
// record backend must satisfy to work with this application — together
// with the error taxonomy every operation reports through.
//
// WHY AN INTERFACE?
// ─────────────────
// Handlers (HTTP layer) should not know or care where the records live.
// By depending only on this interface:
//
//   - Switching backends (in-memory today, a real database one day) =
//     implement the interface for the new backend, change one line in
//     main.go. Zero handler changes.
//
//   - Writing tests = pass any value that satisfies the interface.
//
// This is the Dependency Inversion Principle in practice.
//
// ERROR CONTRACT
// ──────────────
// Every rejection is an expected, recoverable outcome, reported as one of
// the values below — never as a panic. Callers branch with errors.Is for
// the sentinels and errors.As for *ValidationError:
//
//	ErrInvalidID      — the id is malformed (empty)
//	ErrNotFound       — the id does not resolve to a record
//	ErrDuplicateName  — another record already holds the name (case-insensitive)
//	*ValidationError  — name or birth failed its predicate; carries the list
//	                    of human-readable messages to show the user
//
// Mutations are all-or-nothing: a rejected call leaves the collection
// exactly as it was.
package storage

import (
	"errors"
	"strings"

	"github.com/aanand-mishra/students-web/internal/types"
)

var (
	// ErrNotFound reports an id that resolves to no record.
	ErrNotFound = errors.New("student not found")

	// ErrInvalidID reports a malformed student id.
	ErrInvalidID = errors.New("invalid student id")

	// ErrDuplicateName reports a name collision with an existing record.
	ErrDuplicateName = errors.New("a student with this name already exists")
)

// ValidationError carries the human-readable messages produced when a name
// or birth date fails its predicate. The messages are user-facing and worded
// in French, like the rest of the UI.
type ValidationError struct {
	Messages []string
}

// Error joins the individual messages into one string.
func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, ", ")
}

// Storage is the record-store contract.
// Any concrete type that implements ALL of these methods automatically
// satisfies this interface — Go does this implicitly (no "implements"
// keyword required).
type Storage interface {
	// CreateStudent validates name and birth, rejects case-insensitive
	// name duplicates, then stores a new record with a generated id and
	// creation timestamp. Returns the stored record.
	CreateStudent(name, birth string) (types.StudentRecord, error)

	// GetStudentByID fetches a single student by id.
	// Returns ErrInvalidID or ErrNotFound on failure.
	GetStudentByID(id string) (types.StudentRecord, error)

	// GetStudents returns every student in insertion order.
	// Returns an empty slice (not nil) if there are no students.
	GetStudents() ([]types.StudentRecord, error)

	// UpdateStudentByID validates like CreateStudent, then replaces the
	// record's name and birth in place, refreshing the update timestamp
	// while preserving id, creation timestamp, and position. Rejects when
	// another record (different id) already holds the name.
	UpdateStudentByID(id, name, birth string) (types.StudentRecord, error)

	// DeleteStudentByID removes a student record, preserving the relative
	// order of the remaining records.
	DeleteStudentByID(id string) error
}
