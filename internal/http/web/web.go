// Package web serves the HTML pages: the student list, the creation and
// edition forms, and the styling. All pages are rendered server-side from
// templates embedded in the binary; the UI speaks French.
//
// The handlers here talk to the same storage.Storage as the JSON API, so
// both surfaces always show the same roster.
package web

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aanand-mishra/students-web/internal/storage"
	"github.com/aanand-mishra/students-web/internal/types"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// French messages for errors the user can fix from the form.
const (
	msgDuplicateName   = "Un étudiant porte déjà ce nom."
	msgStudentNotFound = "Cet étudiant n'existe pas ou a été supprimé."
)

// Handler renders the HTML pages.
type Handler struct {
	storage storage.Storage
	tmpl    *template.Template
}

// NewHandler parses the embedded templates and returns a page handler
// bound to the given storage.
func NewHandler(s storage.Storage) (*Handler, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("web: parsing templates: %w", err)
	}

	return &Handler{storage: s, tmpl: tmpl}, nil
}

// Static returns the file server for the embedded assets. The embedded
// paths start with "static/", so the handler mounts at /static/ without a
// prefix strip.
func (h *Handler) Static() http.Handler {
	return http.FileServer(http.FS(staticFS))
}

// listData feeds list.html.
type listData struct {
	Students []types.StudentView
	Count    int
}

// formData feeds form.html, which serves both creation and edition.
type formData struct {
	Title  string
	Action string   // URL the form posts to
	Name   string   // re-displayed after a failed submission
	Birth  string   // same
	Errors []string // French validation messages
	IsEdit bool
}

// List handles GET /, the roster table.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	students, err := h.storage.GetStudents()
	if err != nil {
		h.renderServerError(w, err)
		return
	}

	h.render(w, http.StatusOK, "list.html", listData{
		Students: types.NewStudentViews(students),
		Count:    len(students),
	})
}

// NewForm handles GET /students/new, an empty creation form.
func (h *Handler) NewForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "form.html", formData{
		Title:  "Ajouter un étudiant",
		Action: "/students",
	})
}

// Create handles POST /students, the creation form submission.
// On success it redirects to the list; on a validation or duplicate
// failure it re-renders the form with the user's input and the messages.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "requête invalide", http.StatusBadRequest)
		return
	}
	name := r.PostFormValue("name")
	birth := r.PostFormValue("birth")

	if _, err := h.storage.CreateStudent(name, birth); err != nil {
		if msgs, ok := userMessages(err); ok {
			h.render(w, http.StatusUnprocessableEntity, "form.html", formData{
				Title:  "Ajouter un étudiant",
				Action: "/students",
				Name:   name,
				Birth:  birth,
				Errors: msgs,
			})
			return
		}
		h.renderServerError(w, err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// EditForm handles GET /students/{id}/edit, the form prefilled with the
// student's current values.
func (h *Handler) EditForm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := h.storage.GetStudentByID(id)
	if err != nil {
		h.renderStorageError(w, err)
		return
	}

	h.render(w, http.StatusOK, "form.html", formData{
		Title:  "Modifier l'étudiant",
		Action: "/students/" + rec.ID,
		Name:   rec.Name,
		Birth:  rec.Birth,
		IsEdit: true,
	})
}

// Update handles POST /students/{id}, the edition form submission.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := r.ParseForm(); err != nil {
		http.Error(w, "requête invalide", http.StatusBadRequest)
		return
	}
	name := r.PostFormValue("name")
	birth := r.PostFormValue("birth")

	if _, err := h.storage.UpdateStudentByID(id, name, birth); err != nil {
		if msgs, ok := userMessages(err); ok {
			h.render(w, http.StatusUnprocessableEntity, "form.html", formData{
				Title:  "Modifier l'étudiant",
				Action: "/students/" + id,
				Name:   name,
				Birth:  birth,
				Errors: msgs,
				IsEdit: true,
			})
			return
		}
		h.renderStorageError(w, err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Delete handles POST /students/{id}/delete. Browsers only speak GET and
// POST from plain HTML forms, hence POST rather than DELETE here.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.storage.DeleteStudentByID(id); err != nil {
		h.renderStorageError(w, err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// userMessages translates a storage error into the French messages shown
// on the form. The second return value reports whether the error is the
// user's to fix; anything else is the server's problem.
func userMessages(err error) ([]string, bool) {
	var vErr *storage.ValidationError

	switch {
	case errors.As(err, &vErr):
		return vErr.Messages, true
	case errors.Is(err, storage.ErrDuplicateName):
		return []string{msgDuplicateName}, true
	default:
		return nil, false
	}
}

// renderStorageError maps the remaining storage errors to pages: unknown
// and implausible ids both get the French 404 page.
func (h *Handler) renderStorageError(w http.ResponseWriter, err error) {
	if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidID) {
		h.render(w, http.StatusNotFound, "not_found.html", map[string]string{
			"Message": msgStudentNotFound,
		})
		return
	}
	h.renderServerError(w, err)
}

func (h *Handler) renderServerError(w http.ResponseWriter, err error) {
	slog.Error("web: unexpected error", slog.String("error", err.Error()))
	http.Error(w, "erreur interne", http.StatusInternalServerError)
}

// render executes one template straight to the response. If execution
// fails midway the status line is already gone, so the fallback only
// salvages the body.
func (h *Handler) render(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	if err := h.tmpl.ExecuteTemplate(w, name, data); err != nil {
		slog.Error("web: rendering template",
			slog.String("template", name),
			slog.String("error", err.Error()))
		http.Error(w, "erreur interne", http.StatusInternalServerError)
	}
}
