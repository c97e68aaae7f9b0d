// Package student contains the JSON API handlers for the Student resource.
//
// HANDLER PATTERN USED HERE — THE CLOSURE / FACTORY PATTERN:
// ────────────────────────────────────────────────────────────
// The router expects handler functions with the signature:
//
//	func(http.ResponseWriter, *http.Request)
//
// That signature has no room for extra parameters like a storage backend.
// To inject dependencies we use a factory function that:
//  1. Accepts dependencies (storage)
//  2. Returns a function with the exact signature the router needs
//
// Because the inner function "closes over" the outer parameters, it can
// access `storage` even after the factory call has returned.
// This is called a closure. Example:
//
//	router.Post("/api/students", student.New(store))
//	//                           ^^^^^^^^^^^^^^^^^
//	//                 New(store) is called ONCE at startup.
//	//                 It returns a handler func which is called
//	//                 on EVERY incoming request.
package student

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/students-web/internal/storage"
	"github.com/aanand-mishra/students-web/internal/types"
	"github.com/aanand-mishra/students-web/internal/utils/response"
)

// validate is shared by every handler in this package. The custom tags
// ("studentname", "birthdate") are registered once here; failing to
// register them is a programming error, hence the panic.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := types.RegisterWithValidator(v); err != nil {
		panic(fmt.Sprintf("student: registering custom validators: %v", err))
	}
	return v
}

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /api/students
// Creates a new student from the JSON request body.
//
// Request body (JSON):
//
//	{ "name": "Lucas Martin", "birth": "1990-09-14" }
//
// Success response (201 Created) — the stored record:
//
//	{ "id": "01J...", "name": "Lucas Martin", "birth": "1990-09-14", "created_at": "..." }
//
// Error responses:
//
//	400 Bad Request           — empty body or malformed JSON
//	409 Conflict              — another student already has this name
//	422 Unprocessable Entity  — name or birth date breaks a validation rule
//
// ─────────────────────────────────────────────────────────────────────────────
func New(storage storage.Storage) http.HandlerFunc {
	// This is the factory function. It runs ONCE when the route is registered.
	// It captures `storage` in the closure below.

	return func(w http.ResponseWriter, r *http.Request) {
		// Structured log: every request gets an Info log so we can trace
		// activity in production logs.
		slog.Info("creating a student")

		// ── Step 1: Decode JSON body into a StudentInput struct ───────
		var input types.StudentInput

		// json.NewDecoder reads from r.Body (the raw bytes sent by the client).
		// .Decode(&input) populates the input variable via its pointer.
		// Fields in the JSON are matched to struct fields using json:"..." tags.
		err := json.NewDecoder(r.Body).Decode(&input)

		if errors.Is(err, io.EOF) {
			// io.EOF means the body was completely empty — nothing to decode.
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("request body is empty")))
			return // stop further processing
		}

		if err != nil {
			// Any other decode error: malformed JSON, wrong types, etc.
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		// ── Step 2: Validate the decoded struct ───────────────────────
		// validate.Struct(v) checks all validate:"..." tags on v, including
		// our custom "studentname" and "birthdate" rules. It returns nil if
		// everything is valid, or a ValidationErrors (which implements the
		// error interface) if any rule fails.
		if err := validate.Struct(input); err != nil {
			// Type-assert the error to ValidationErrors so we can inspect
			// each individual field error (field name, broken tag, etc.).
			validateErrs := err.(validator.ValidationErrors)
			response.WriteJSON(w, http.StatusUnprocessableEntity,
				response.ValidationError(validateErrs))
			return
		}

		// ── Step 3: Store the record ──────────────────────────────────
		// We call the Storage interface method — not the memory store
		// directly. This keeps the handler backend-agnostic.
		created, err := storage.CreateStudent(input.Name, input.Birth)
		if err != nil {
			writeStorageError(w, err)
			return
		}

		slog.Info("student created", slog.String("id", created.ID))

		// ── Step 4: Return 201 Created with the stored record ─────────
		// The record carries the sanitized name, not the raw input.
		response.WriteJSON(w, http.StatusCreated, created)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetByID handles GET /api/students/{id}
// Fetches a single student by their id.
//
// Path parameter: {id} — the record id assigned at creation
//
// Success response (200 OK) — the record plus its display fields:
//
//	{ "id": "01J...", "name": "Lucas Martin", "birth": "1990-09-14",
//	  "created_at": "...", "birth_fr": "14/09/1990", "age": 35 }
//
// Error responses:
//
//	400 Bad Request  — id is empty
//	404 Not Found    — no student has this id
//
// ─────────────────────────────────────────────────────────────────────────────
func GetByID(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// chi.URLParam extracts the {id} segment from the matched route
		// pattern "/api/students/{id}".
		id := chi.URLParam(r, "id")
		slog.Info("getting a student", slog.String("id", id))

		rec, err := storage.GetStudentByID(id)
		if err != nil {
			writeStorageError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, types.NewStudentView(rec))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetList handles GET /api/students
// Returns a JSON array of all students, in the order they were added.
//
// Success response (200 OK):
//
//	[
//	  { "id": "01J...", "name": "Lucas Martin", ..., "birth_fr": "14/09/1990", "age": 35 },
//	  { "id": "01J...", "name": "Emma Bernard", ..., "birth_fr": "22/03/1995", "age": 31 }
//	]
//
// Returns an empty array [] (not null) when there are no students.
// ─────────────────────────────────────────────────────────────────────────────
func GetList(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting all students")

		students, err := storage.GetStudents()
		if err != nil {
			slog.Error("error getting students", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, types.NewStudentViews(students))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles PUT /api/students/{id}
// Replaces BOTH fields of an existing student.
//
// Request body (JSON) — all fields required for a PUT:
//
//	{ "name": "Lucas Moreau", "birth": "1990-09-15" }
//
// Success response (200 OK) — the updated record:
//
//	{ "id": "01J...", "name": "Lucas Moreau", "birth": "1990-09-15",
//	  "created_at": "...", "updated_at": "..." }
//
// Error responses:
//
//	400 Bad Request           — empty id, empty body, or malformed JSON
//	404 Not Found             — no student has this id
//	409 Conflict              — another student already has this name
//	422 Unprocessable Entity  — name or birth date breaks a validation rule
//
// ─────────────────────────────────────────────────────────────────────────────
func Update(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		slog.Info("updating a student", slog.String("id", id))

		// Decode the update payload
		var input types.StudentInput
		err := json.NewDecoder(r.Body).Decode(&input)
		if errors.Is(err, io.EOF) {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("request body is empty")))
			return
		}
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		// Validate the update payload using the same rules as creation
		if err := validate.Struct(input); err != nil {
			validateErrs := err.(validator.ValidationErrors)
			response.WriteJSON(w, http.StatusUnprocessableEntity,
				response.ValidationError(validateErrs))
			return
		}

		// Apply and retrieve the updated record
		updated, err := storage.UpdateStudentByID(id, input.Name, input.Birth)
		if err != nil {
			writeStorageError(w, err)
			return
		}

		slog.Info("student updated", slog.String("id", id))
		response.WriteJSON(w, http.StatusOK, updated)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete handles DELETE /api/students/{id}
// Removes a student record. The records after it keep their order.
//
// Success response (200 OK):
//
//	{ "status": "ok" }
//
// Error responses:
//
//	400 Bad Request  — id is empty
//	404 Not Found    — no student has this id
//
// ─────────────────────────────────────────────────────────────────────────────
func Delete(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		slog.Info("deleting a student", slog.String("id", id))

		if err := storage.DeleteStudentByID(id); err != nil {
			writeStorageError(w, err)
			return
		}

		slog.Info("student deleted", slog.String("id", id))
		response.WriteJSON(w, http.StatusOK, map[string]string{"status": response.StatusOK})
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// writeStorageError translates the storage error contract into HTTP:
//
//	*storage.ValidationError → 422 (input broke a validation rule)
//	storage.ErrInvalidID     → 400 (id not even plausible)
//	storage.ErrNotFound      → 404 (plausible id, no such record)
//	storage.ErrDuplicateName → 409 (name already taken)
//	anything else            → 500 (and an Error log, since it's unexpected)
//
// ─────────────────────────────────────────────────────────────────────────────
func writeStorageError(w http.ResponseWriter, err error) {
	var vErr *storage.ValidationError

	switch {
	case errors.As(err, &vErr):
		response.WriteJSON(w, http.StatusUnprocessableEntity, response.GeneralError(vErr))
	case errors.Is(err, storage.ErrInvalidID):
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
	case errors.Is(err, storage.ErrNotFound):
		response.WriteJSON(w, http.StatusNotFound, response.GeneralError(err))
	case errors.Is(err, storage.ErrDuplicateName):
		response.WriteJSON(w, http.StatusConflict, response.GeneralError(err))
	default:
		slog.Error("unexpected storage error", slog.String("error", err.Error()))
		response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
	}
}
