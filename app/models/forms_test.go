package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPostFormValidate(t *testing.T) {
	t.Run("valid with group", func(t *testing.T) {
		f := &PostForm{Text: "  hello  ", Group: "3"}
		assert.Nil(t, f.Validate())
		assert.Equal(t, "hello", f.Text)
	})

	t.Run("blank text", func(t *testing.T) {
		f := &PostForm{Text: "   "}
		errs := f.Validate()
		assert.Equal(t, "This field is required.", errs["text"])
	})

	t.Run("non numeric group", func(t *testing.T) {
		f := &PostForm{Text: "hello", Group: "cats"}
		errs := f.Validate()
		assert.Contains(t, errs, "group")
	})
}

func TestCommentFormValidate(t *testing.T) {
	assert.Nil(t, (&CommentForm{Text: "ok"}).Validate())
	assert.Contains(t, (&CommentForm{Text: "\n\t"}).Validate(), "text")
}

func TestSignupFormValidate(t *testing.T) {
	tests := []struct {
		name      string
		form      SignupForm
		wantField string
	}{
		{"valid", SignupForm{Username: "nemo", Password: "nautilus1", Password2: "nautilus1"}, ""},
		{"short password", SignupForm{Username: "nemo", Password: "short", Password2: "short"}, "password1"},
		{"mismatch", SignupForm{Username: "nemo", Password: "nautilus1", Password2: "nautilus2"}, "password2"},
		{"bad username", SignupForm{Username: "ne mo", Password: "nautilus1", Password2: "nautilus1"}, "username"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := tt.form.Validate()
			if tt.wantField == "" {
				assert.Nil(t, errs)
				return
			}
			assert.Contains(t, errs, tt.wantField)
		})
	}
}

func TestFieldErrorsError(t *testing.T) {
	fe := FieldErrors{}
	fe.Add("text", "required")
	fe.Add("text", "ignored")
	fe.Add("", "general")
	assert.Equal(t, "general; text: required", fe.Error())
}
