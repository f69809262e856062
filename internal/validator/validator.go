// Package validator checks user input before it reaches the repository.
package validator

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/aretw0/quicknotes/pkg/core"
)

// Validator wraps the go-playground validator
type Validator struct {
	validate *validator.Validate
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Tag     string `json:"tag"`
	Value   string `json:"value,omitempty"`
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface
func (v ValidationErrors) Error() string {
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Message)
	}
	return strings.Join(messages, "; ")
}

// NoteInput is what the edit screen submits.
type NoteInput struct {
	Title   string `json:"title" validate:"notblank,max=200"`
	Content string `json:"content" validate:"notblank,max=10000"`
	Tag     string `json:"tag" validate:"max=50,tagname"`
}

// TagInput is a new tag name.
type TagInput struct {
	Name string `json:"name" validate:"notblank,max=50,tagname"`
}

// ThemeInput is a theme selection.
type ThemeInput struct {
	Theme string `json:"theme" validate:"required,theme"`
}

// New creates a new validator instance
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON names, e.g. "title" rather than "Title".
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterValidation("notblank", validateNotBlank)
	v.RegisterValidation("tagname", validateTagName)
	v.RegisterValidation("theme", validateTheme)

	return &Validator{validate: v}
}

// Validate validates a struct and returns validation errors
func (v *Validator) Validate(i any) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	var validationErrs ValidationErrors
	for _, fe := range fieldErrs {
		validationErrs = append(validationErrs, ValidationError{
			Field:   fe.Field(),
			Message: msgForTag(fe),
			Tag:     fe.Tag(),
			Value:   fmt.Sprintf("%v", fe.Value()),
		})
	}
	return validationErrs
}

// Note trims and validates in, returning the note to store.
// A blank tag becomes core.NoTag.
func (v *Validator) Note(in NoteInput) (core.Note, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	in.Tag = strings.TrimSpace(in.Tag)
	if err := v.Validate(in); err != nil {
		return core.Note{}, err
	}
	if in.Tag == "" {
		in.Tag = core.NoTag
	}
	return core.Note{Title: in.Title, Content: in.Content, Tag: in.Tag}, nil
}

// Tag trims and validates a tag name.
func (v *Validator) Tag(name string) (string, error) {
	in := TagInput{Name: strings.TrimSpace(name)}
	if err := v.Validate(in); err != nil {
		return "", err
	}
	return in.Name, nil
}

// Theme validates and parses a theme name.
func (v *Validator) Theme(name string) (core.Theme, error) {
	in := ThemeInput{Theme: strings.ToLower(strings.TrimSpace(name))}
	if err := v.Validate(in); err != nil {
		return "", err
	}
	return core.ParseTheme(in.Theme)
}

// msgForTag returns a human-readable error message for a validation tag
func msgForTag(fe validator.FieldError) string {
	field := fe.Field()

	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "tagname":
		return fmt.Sprintf("%s must be a single line without control characters", field)
	case "theme":
		return fmt.Sprintf("%s must be either 'light' or 'dark'", field)
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// validateTagName rejects control characters, newlines included.
func validateTagName(fl validator.FieldLevel) bool {
	return !strings.ContainsFunc(fl.Field().String(), unicode.IsControl)
}

func validateTheme(fl validator.FieldLevel) bool {
	_, err := core.ParseTheme(fl.Field().String())
	return err == nil
}
