// Package validate checks form input before it is sent to the API. Each
// field reports only its first failing rule.
package validate

import (
	"unicode/utf8"

	"github.com/asaskevich/govalidator"

	"github.com/felixgeelhaar/scribe/internal/domain"
	"github.com/felixgeelhaar/scribe/internal/errors"
)

// Length limits shared with the API
const (
	MinLoginPassword    = 6
	MinRegisterPassword = 8
	MinName             = 2
	MaxName             = 255
	MinTitle            = 3
	MaxTitle            = 255
	MinBody             = 10
	MaxComment          = 500
)

type rule struct {
	failed  bool
	message string
}

// check records the message of the first failed rule for field
func check(fields *errors.FieldErrors, field string, rules ...rule) {
	for _, r := range rules {
		if r.failed {
			fields.Add(field, r.message)
			return
		}
	}
}

func length(s string) int {
	return utf8.RuneCountInString(s)
}

func email(fields *errors.FieldErrors, value string) {
	check(fields, "email",
		rule{value == "", "Email is required"},
		rule{!govalidator.IsEmail(value), "Please enter a valid email address"},
	)
}

// Login validates the sign-in form
func Login(req domain.LoginRequest) errors.FieldErrors {
	var fields errors.FieldErrors
	email(&fields, req.Email)
	check(&fields, "password",
		rule{req.Password == "", "Password is required"},
		rule{length(req.Password) < MinLoginPassword, "Password must be at least 6 characters"},
	)
	return fields
}

// Register validates the sign-up form. The confirmation is compared only
// once every other field is valid.
func Register(req domain.RegisterRequest) errors.FieldErrors {
	var fields errors.FieldErrors
	check(&fields, "name",
		rule{req.Name == "", "Name is required"},
		rule{length(req.Name) < MinName, "Name must be at least 2 characters"},
		rule{length(req.Name) > MaxName, "Name must be at most 255 characters"},
	)
	email(&fields, req.Email)
	check(&fields, "password",
		rule{req.Password == "", "Password is required"},
		rule{length(req.Password) < MinRegisterPassword, "Password must be at least 8 characters"},
	)
	check(&fields, "password_confirmation",
		rule{req.PasswordConfirmation == "", "Please confirm your password"},
	)

	if len(fields) == 0 && req.Password != req.PasswordConfirmation {
		fields.Add("password_confirmation", "Passwords do not match")
	}
	return fields
}

// Post validates the create-post form
func Post(req domain.CreatePostRequest) errors.FieldErrors {
	var fields errors.FieldErrors
	check(&fields, "title",
		rule{req.Title == "", "Title is required"},
		rule{length(req.Title) < MinTitle, "Title must be at least 3 characters"},
		rule{length(req.Title) > MaxTitle, "Title must be at most 255 characters"},
	)
	check(&fields, "body",
		rule{req.Body == "", "Content is required"},
		rule{length(req.Body) < MinBody, "Content must be at least 10 characters"},
	)
	return fields
}

// Comment validates a comment body
func Comment(body string) errors.FieldErrors {
	var fields errors.FieldErrors
	check(&fields, "body",
		rule{body == "", "Comment cannot be empty"},
		rule{length(body) > MaxComment, "Comment must be at most 500 characters"},
	)
	return fields
}

// Err turns fields into an input error, or nil when there are none
func Err(fields errors.FieldErrors) error {
	if len(fields) == 0 {
		return nil
	}
	return errors.NewInputInvalidError(fields)
}
