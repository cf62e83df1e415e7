package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldErrors maps a form field name to a human readable message. The empty
// key holds errors that are not bound to a single field.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if k == "" {
			parts = append(parts, fe[k])
			continue
		}
		parts = append(parts, k+": "+fe[k])
	}
	return strings.Join(parts, "; ")
}

// Add records msg for field unless the field already has an error
func (fe FieldErrors) Add(field, msg string) {
	if _, exists := fe[field]; !exists {
		fe[field] = msg
	}
}

// Upload is a file submitted with a form.
type Upload struct {
	Filename string
	Data     []byte
}

// PostForm is the create/edit post submission.
type PostForm struct {
	Text  string  `form:"text" validate:"required"`
	Group string  `form:"group" validate:"omitempty,number"`
	Image *Upload `form:"image" validate:"-"`
}

// Validate trims the input and checks it
func (f *PostForm) Validate() FieldErrors {
	f.Text = strings.TrimSpace(f.Text)
	f.Group = strings.TrimSpace(f.Group)
	return validateForm(f)
}

// CommentForm is the add-comment submission.
type CommentForm struct {
	Text string `form:"text" validate:"required"`
}

// Validate trims the input and checks it
func (f *CommentForm) Validate() FieldErrors {
	f.Text = strings.TrimSpace(f.Text)
	return validateForm(f)
}

// SignupForm registers a new user.
type SignupForm struct {
	FirstName string `form:"first_name" validate:"max=150"`
	LastName  string `form:"last_name" validate:"max=150"`
	Username  string `form:"username" validate:"required,max=150,username"`
	Password  string `form:"password1" validate:"required,min=8,max=128"`
	Password2 string `form:"password2" validate:"required,eqfield=Password"`
}

// Validate trims the input and checks it
func (f *SignupForm) Validate() FieldErrors {
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.Username = strings.TrimSpace(f.Username)
	return validateForm(f)
}

// LoginForm authenticates an existing user.
type LoginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// Validate trims the input and checks it
func (f *LoginForm) Validate() FieldErrors {
	f.Username = strings.TrimSpace(f.Username)
	return validateForm(f)
}

func validateForm(form interface{}) FieldErrors {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"": err.Error()}
	}
	fe := FieldErrors{}
	for _, e := range verrs {
		fe.Add(e.Field(), fieldMessage(e))
	}
	return fe
}

func fieldMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required."
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters.", e.Param())
	case "min":
		return fmt.Sprintf("Ensure this value has at least %s characters.", e.Param())
	case "eqfield":
		return "The two password fields didn't match."
	case "username":
		return "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	case "number":
		return "Select a valid choice."
	default:
		return "Enter a valid value."
	}
}
