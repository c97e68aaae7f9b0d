// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles —
// handlers, storage, and the web layer can all import types without
// depending on each other.
package types

import (
	"reflect"

	"github.com/aanand-mishra/students-web/internal/utils/validation"
	"github.com/go-playground/validator/v10"
)

// StudentRecord represents one stored student.
//
// ID is an opaque unique token assigned at creation and immutable afterwards.
// Name is sanitized before storage and unique across records
// (case-insensitive). Birth is an ISO date (YYYY-MM-DD) that satisfied the
// birth-date predicate at the moment it was stored. CreatedAt/UpdatedAt are
// ISO-8601 timestamps, informational only; UpdatedAt stays empty until the
// record's first update.
type StudentRecord struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Birth     string `json:"birth"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// StudentInput is the payload accepted when creating or updating a student.
//
// The validate tags are checked by the go-playground/validator package;
// "studentname" and "birthdate" are the custom rules registered by
// RegisterWithValidator.
type StudentInput struct {
	Name  string `json:"name"  validate:"required,studentname"`
	Birth string `json:"birth" validate:"required,birthdate"`
}

// StudentView is a StudentRecord augmented with the display-only fields the
// listing surfaces need: the French-formatted birth date and the current age.
type StudentView struct {
	StudentRecord
	BirthFR string `json:"birth_fr"`
	Age     int    `json:"age"`
}

// NewStudentView derives the display fields for one record.
func NewStudentView(rec StudentRecord) StudentView {
	return StudentView{
		StudentRecord: rec,
		BirthFR:       validation.FormatFrenchDate(rec.Birth),
		Age:           validation.CalculateAge(rec.Birth),
	}
}

// NewStudentViews derives display fields for a whole listing, preserving order.
func NewStudentViews(recs []StudentRecord) []StudentView {
	views := make([]StudentView, 0, len(recs))
	for _, rec := range recs {
		views = append(views, NewStudentView(rec))
	}
	return views
}

// RegisterWithValidator registers the custom student field rules with the
// given validator instance.
func RegisterWithValidator(v *validator.Validate) error {
	if err := v.RegisterValidation("studentname", validateStudentName); err != nil {
		return err
	}

	if err := v.RegisterValidation("birthdate", validateBirthDate); err != nil {
		return err
	}

	return nil
}

func validateStudentName(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return false
	}
	return validation.IsValidName(fl.Field().String())
}

func validateBirthDate(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return false
	}
	return validation.IsValidBirthDate(fl.Field().String())
}
