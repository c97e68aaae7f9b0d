// Package memory provides the in-memory implementation of the
// storage.Storage interface: an insertion-ordered, process-lifetime
// collection of student records.
//
// The collection is the sole owner of its records: every method returns
// copies, never references into the backing slice. There is no persistence:
// the store is rebuilt from its seed set at every process start and the
// records vanish at process exit.
//
// Although each individual operation is all-or-nothing and completes in
// microseconds, Go's HTTP server runs handlers on concurrent goroutines,
// so a RWMutex guards the slice.
package memory

import (
	"fmt"
	"strings"
	"sync"

	"github.com/aanand-mishra/students-web/internal/config"
	"github.com/aanand-mishra/students-web/internal/storage"
	"github.com/aanand-mishra/students-web/internal/types"
	"github.com/aanand-mishra/students-web/internal/utils/validation"
)

// User-facing validation messages, worded in French like the rest of the UI.
const (
	msgInvalidName = "Le nom doit contenir entre 2 et 50 caractères " +
		`et ne pas contenir les caractères < > " ' &.`
	msgInvalidBirth = "La date de naissance doit être une date réelle au format " +
		"AAAA-MM-JJ, ni dans le futur, ni antérieure à 150 ans."
)

// Store is the concrete in-memory implementation of storage.Storage.
type Store struct {
	mu      sync.RWMutex
	records []types.StudentRecord
}

// Compile-time proof that *Store satisfies the storage contract.
var _ storage.Storage = (*Store)(nil)

// New builds a store holding the seed set configured in cfg. When no seed
// path is configured, the built-in seed (five students) is used. Seed
// entries pass through CreateStudent, so an invalid or duplicated seed
// record fails startup instead of smuggling bad data into the collection.
func New(cfg *config.Config) (*Store, error) {
	seeds, err := loadSeed(cfg.Storage.SeedPath)
	if err != nil {
		return nil, fmt.Errorf("memory.New: %w", err)
	}

	s := &Store{records: make([]types.StudentRecord, 0, len(seeds))}
	for _, seed := range seeds {
		if _, err := s.CreateStudent(seed.Name, seed.Birth); err != nil {
			return nil, fmt.Errorf("memory.New: seed student %q: %w", seed.Name, err)
		}
	}

	return s, nil
}

// CreateStudent validates the input, rejects case-insensitive duplicates,
// then appends a new record carrying a fresh id and creation timestamp.
func (s *Store) CreateStudent(name, birth string) (types.StudentRecord, error) {
	if err := validateStudent(name, birth); err != nil {
		return types.StudentRecord{}, err
	}
	clean := validation.SanitizeName(name)

	s.mu.Lock()
	defer s.mu.Unlock()

	// Duplicates are checked against the sanitized form: "Jean  Dupont"
	// and "jean dupont" are the same student as far as the roster cares.
	if s.indexOfName(clean, "") != -1 {
		return types.StudentRecord{}, storage.ErrDuplicateName
	}

	rec := types.StudentRecord{
		ID:        validation.NewStudentID(),
		Name:      clean,
		Birth:     birth,
		CreatedAt: validation.NowISO(),
	}
	s.records = append(s.records, rec)

	return rec, nil
}

// GetStudentByID fetches one record by id.
func (s *Store) GetStudentByID(id string) (types.StudentRecord, error) {
	if !validation.IsValidStudentID(id) {
		return types.StudentRecord{}, storage.ErrInvalidID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOfID(id)
	if i == -1 {
		return types.StudentRecord{}, storage.ErrNotFound
	}

	return s.records[i], nil
}

// GetStudents returns a copy of every record in insertion order.
func (s *Store) GetStudents() ([]types.StudentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.StudentRecord, len(s.records))
	copy(out, s.records)

	return out, nil
}

// UpdateStudentByID replaces a record's name and birth in place, stamping
// UpdatedAt while preserving id, CreatedAt, and the record's position.
func (s *Store) UpdateStudentByID(id, name, birth string) (types.StudentRecord, error) {
	if !validation.IsValidStudentID(id) {
		return types.StudentRecord{}, storage.ErrInvalidID
	}
	if err := validateStudent(name, birth); err != nil {
		return types.StudentRecord{}, err
	}
	clean := validation.SanitizeName(name)

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOfID(id)
	if i == -1 {
		return types.StudentRecord{}, storage.ErrNotFound
	}

	// The record being updated may keep its own name (including a pure
	// case change); only a different record holding it is a conflict.
	if s.indexOfName(clean, id) != -1 {
		return types.StudentRecord{}, storage.ErrDuplicateName
	}

	s.records[i].Name = clean
	s.records[i].Birth = birth
	s.records[i].UpdatedAt = validation.NowISO()

	return s.records[i], nil
}

// DeleteStudentByID removes one record, keeping the relative order of the
// remaining records intact.
func (s *Store) DeleteStudentByID(id string) error {
	if !validation.IsValidStudentID(id) {
		return storage.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOfID(id)
	if i == -1 {
		return storage.ErrNotFound
	}

	s.records = append(s.records[:i], s.records[i+1:]...)

	return nil
}

// indexOfID returns the position of the record with the given id, or -1.
// Callers must hold the lock.
func (s *Store) indexOfID(id string) int {
	for i, rec := range s.records {
		if rec.ID == id {
			return i
		}
	}
	return -1
}

// indexOfName returns the position of the record whose name matches
// case-insensitively, skipping the record with excludeID (pass "" to scan
// everything). Callers must hold the lock.
func (s *Store) indexOfName(name, excludeID string) int {
	for i, rec := range s.records {
		if rec.ID != excludeID && strings.EqualFold(rec.Name, name) {
			return i
		}
	}
	return -1
}

// validateStudent collects every failing predicate message so the user
// sees all problems at once, not just the first.
func validateStudent(name, birth string) error {
	var messages []string
	if !validation.IsValidName(name) {
		messages = append(messages, msgInvalidName)
	}
	if !validation.IsValidBirthDate(birth) {
		messages = append(messages, msgInvalidBirth)
	}
	if len(messages) > 0 {
		return &storage.ValidationError{Messages: messages}
	}
	return nil
}
