package memory_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/aanand-mishra/students-web/internal/config"
	"github.com/aanand-mishra/students-web/internal/storage"
	"github.com/aanand-mishra/students-web/internal/storage/memory"
)

// TestNewSeedsDefaultRoster verifies that a store built without a seed path
// starts from the built-in roster:
//
//  1. The five default students are present, in seed order.
//  2. Every record carries a unique id and a creation timestamp.
//  3. The slice returned by GetStudents is a copy, not a window into the
//     store's own memory.
func TestNewSeedsDefaultRoster(t *testing.T) {
	assert := assert.New(t)

	uut, err := memory.New(&config.Config{})
	assert.Nil(err)

	// 1. Listing returns the seed roster in insertion order
	students, err := uut.GetStudents()
	assert.Nil(err)
	assert.Len(students, 5)

	wantNames := []string{"Lucas Martin", "Emma Bernard", "Léa Dubois", "Hugo Moreau", "Chloé Petit"}
	for i, want := range wantNames {
		assert.Equal(want, students[i].Name)
	}
	assert.Equal("1990-09-14", students[0].Birth)

	// 2. Each record has a unique id and a parseable creation timestamp
	seenIDs := map[string]bool{}
	for _, rec := range students {
		assert.Len(rec.ID, 26)
		assert.False(seenIDs[rec.ID])
		seenIDs[rec.ID] = true

		_, err := time.Parse(time.RFC3339, rec.CreatedAt)
		assert.Nil(err)
		assert.Empty(rec.UpdatedAt)
	}

	// 3. Mutating the returned slice must not touch the store
	students[0].Name = "Altered"
	again, err := uut.GetStudents()
	assert.Nil(err)
	assert.Equal("Lucas Martin", again[0].Name)
}

// TestCreateStudent verifies record creation:
//
//  1. A valid student is appended at the end of the roster.
//  2. The stored name is the sanitized form of the input.
//  3. Invalid input is rejected with one message per failed rule, leaving
//     the roster untouched.
func TestCreateStudent(t *testing.T) {
	assert := assert.New(t)

	uut, err := memory.New(&config.Config{})
	assert.Nil(err)

	// 1. Valid student lands at the end of the roster
	rec, err := uut.CreateStudent("Nina Rousseau", "2000-01-15")
	assert.Nil(err)
	assert.Len(rec.ID, 26)
	assert.Equal("Nina Rousseau", rec.Name)
	assert.Equal("2000-01-15", rec.Birth)
	assert.NotEmpty(rec.CreatedAt)
	assert.Empty(rec.UpdatedAt)

	students, err := uut.GetStudents()
	assert.Nil(err)
	assert.Len(students, 6)
	assert.Equal(rec.ID, students[5].ID)

	// 2. Name is stored sanitized, not as typed
	rec, err = uut.CreateStudent("  Sami   El  Karoui ", "1998-11-02")
	assert.Nil(err)
	assert.Equal("Sami El Karoui", rec.Name)

	// 3. Bad name and bad date are both reported, nothing is stored
	_, err = uut.CreateStudent("X", "2999-01-01")
	assert.NotNil(err)
	var vErr *storage.ValidationError
	assert.ErrorAs(err, &vErr)
	assert.Len(vErr.Messages, 2)

	students, err = uut.GetStudents()
	assert.Nil(err)
	assert.Len(students, 7)
}

// TestCreateStudentDuplicateName verifies the uniqueness rule: names clash
// case-insensitively on their sanitized forms, and a rejected creation
// leaves the roster size unchanged.
func TestCreateStudentDuplicateName(t *testing.T) {
	assert := assert.New(t)

	uut, err := memory.New(&config.Config{})
	assert.Nil(err)

	// Exact duplicate
	_, err = uut.CreateStudent("Lucas Martin", "1991-01-01")
	assert.ErrorIs(err, storage.ErrDuplicateName)

	// Case-only variant
	_, err = uut.CreateStudent("lucas martin", "1991-01-01")
	assert.ErrorIs(err, storage.ErrDuplicateName)

	// Whitespace variant that sanitizes down to the same name
	_, err = uut.CreateStudent("  LUCAS   MARTIN ", "1991-01-01")
	assert.ErrorIs(err, storage.ErrDuplicateName)

	students, err := uut.GetStudents()
	assert.Nil(err)
	assert.Len(students, 5)
}

func TestGetStudentByID(t *testing.T) {
	assert := assert.New(t)

	uut, err := memory.New(&config.Config{})
	assert.Nil(err)

	students, err := uut.GetStudents()
	assert.Nil(err)

	rec, err := uut.GetStudentByID(students[2].ID)
	assert.Nil(err)
	assert.Equal(students[2], rec)

	_, err = uut.GetStudentByID("")
	assert.ErrorIs(err, storage.ErrInvalidID)

	_, err = uut.GetStudentByID("no-such-id")
	assert.ErrorIs(err, storage.ErrNotFound)
}

// TestUpdateStudentByID verifies in-place updates:
//
//  1. Name and birth are replaced, UpdatedAt is stamped, id, CreatedAt and
//     the record's position all survive.
//  2. A record may keep its own name, including a pure case change.
//  3. Taking another record's name is rejected as a duplicate.
//  4. Unknown ids, invalid ids and invalid payloads are rejected without
//     touching any record.
func TestUpdateStudentByID(t *testing.T) {
	assert := assert.New(t)

	uut, err := memory.New(&config.Config{})
	assert.Nil(err)

	before, err := uut.GetStudents()
	assert.Nil(err)
	target := before[1]

	// 1. Regular update
	rec, err := uut.UpdateStudentByID(target.ID, "Emma Laurent", "1995-03-23")
	assert.Nil(err)
	assert.Equal(target.ID, rec.ID)
	assert.Equal("Emma Laurent", rec.Name)
	assert.Equal("1995-03-23", rec.Birth)
	assert.Equal(target.CreatedAt, rec.CreatedAt)
	assert.NotEmpty(rec.UpdatedAt)

	after, err := uut.GetStudents()
	assert.Nil(err)
	assert.Len(after, 5)
	assert.Equal(target.ID, after[1].ID)
	assert.Equal("Emma Laurent", after[1].Name)

	// 2. A record may keep its own name with different casing
	rec, err = uut.UpdateStudentByID(target.ID, "EMMA LAURENT", "1995-03-23")
	assert.Nil(err)
	assert.Equal("EMMA LAURENT", rec.Name)

	// 3. Another record's name is a conflict
	_, err = uut.UpdateStudentByID(target.ID, "Hugo Moreau", "1995-03-23")
	assert.ErrorIs(err, storage.ErrDuplicateName)

	// 4. Failed updates leave the roster exactly as it was
	snapshot, err := uut.GetStudents()
	assert.Nil(err)

	_, err = uut.UpdateStudentByID("no-such-id", "Paul Girard", "1990-01-01")
	assert.ErrorIs(err, storage.ErrNotFound)

	_, err = uut.UpdateStudentByID("", "Paul Girard", "1990-01-01")
	assert.ErrorIs(err, storage.ErrInvalidID)

	_, err = uut.UpdateStudentByID(snapshot[0].ID, "P", "not-a-date")
	var vErr *storage.ValidationError
	assert.ErrorAs(err, &vErr)
	assert.Len(vErr.Messages, 2)

	unchanged, err := uut.GetStudents()
	assert.Nil(err)
	assert.Equal(snapshot, unchanged)
}

// TestDeleteStudentByID verifies removal:
//
//  1. Deleting a middle record keeps the remaining records in order.
//  2. A second delete of the same id reports ErrNotFound.
//  3. An empty id reports ErrInvalidID.
func TestDeleteStudentByID(t *testing.T) {
	assert := assert.New(t)

	uut, err := memory.New(&config.Config{})
	assert.Nil(err)

	before, err := uut.GetStudents()
	assert.Nil(err)

	// 1. Remove the middle record
	assert.Nil(uut.DeleteStudentByID(before[2].ID))

	after, err := uut.GetStudents()
	assert.Nil(err)
	assert.Len(after, 4)
	assert.Equal(before[0].ID, after[0].ID)
	assert.Equal(before[1].ID, after[1].ID)
	assert.Equal(before[3].ID, after[2].ID)
	assert.Equal(before[4].ID, after[3].ID)

	// 2. Already gone
	assert.ErrorIs(uut.DeleteStudentByID(before[2].ID), storage.ErrNotFound)

	// 3. Not even a plausible id
	assert.ErrorIs(uut.DeleteStudentByID(""), storage.ErrInvalidID)
}

// TestNewWithSeedFile verifies the configurable seed path:
//
//  1. A valid seed file replaces the built-in roster.
//  2. A missing file, malformed YAML, and an invalid seed record each fail
//     store construction.
func TestNewWithSeedFile(t *testing.T) {
	assert := assert.New(t)

	tmpDir := t.TempDir()

	// 1. Custom roster from disk
	nameA := uuid.NewString()
	nameB := uuid.NewString()
	seedPath := filepath.Join(tmpDir, "seed.yaml")
	doc := fmt.Sprintf(
		"students:\n  - name: %q\n    birth: \"1984-06-02\"\n  - name: %q\n    birth: \"2003-10-19\"\n",
		nameA, nameB,
	)
	assert.Nil(os.WriteFile(seedPath, []byte(doc), 0o644))

	uut, err := memory.New(&config.Config{Storage: config.Storage{SeedPath: seedPath}})
	assert.Nil(err)

	students, err := uut.GetStudents()
	assert.Nil(err)
	assert.Len(students, 2)
	assert.Equal(nameA, students[0].Name)
	assert.Equal(nameB, students[1].Name)

	// 2a. Missing file
	_, err = memory.New(&config.Config{Storage: config.Storage{SeedPath: filepath.Join(tmpDir, "absent.yaml")}})
	assert.NotNil(err)

	// 2b. Malformed YAML
	badPath := filepath.Join(tmpDir, "broken.yaml")
	assert.Nil(os.WriteFile(badPath, []byte("students: [\n"), 0o644))
	_, err = memory.New(&config.Config{Storage: config.Storage{SeedPath: badPath}})
	assert.NotNil(err)

	// 2c. Structurally fine, semantically invalid record
	invalidPath := filepath.Join(tmpDir, "invalid.yaml")
	invalidDoc := "students:\n  - name: \"Zoé Fabre\"\n    birth: \"2999-01-01\"\n"
	assert.Nil(os.WriteFile(invalidPath, []byte(invalidDoc), 0o644))
	_, err = memory.New(&config.Config{Storage: config.Storage{SeedPath: invalidPath}})
	assert.NotNil(err)
	assert.Contains(err.Error(), "Zoé Fabre")
}
