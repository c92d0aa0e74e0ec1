package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/dmitrijs2005/readlist/internal/common"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

var validationMessages = map[string]string{
	"required": "the field '%s' is required",
	"email":    "the field '%s' must be a valid email address",
	"max":      "the field '%s' must be no longer than %s characters",
	"min":      "the field '%s' must be at least %s characters long",
	"gt":       "the field '%s' must be greater than %s",
}

// validateStruct runs the struct tags of s (a pointer to struct) and folds
// every violation into one common.ErrValidation.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate: %w", err)
	}

	t := reflect.TypeOf(s).Elem()
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		name := e.StructField()
		if f, ok := t.FieldByName(e.StructField()); ok {
			if tag, _, _ := strings.Cut(f.Tag.Get("json"), ","); tag != "" {
				name = tag
			}
		}
		msgs = append(msgs, fieldMessage(name, e))
	}

	return fmt.Errorf("%w: %s", common.ErrValidation, strings.Join(msgs, "; "))
}

func fieldMessage(name string, e validator.FieldError) string {
	msg, ok := validationMessages[e.Tag()]
	if !ok {
		return fmt.Sprintf("the field '%s' is invalid: %s", name, e.Tag())
	}
	if strings.Count(msg, "%s") == 2 {
		return fmt.Sprintf(msg, name, e.Param())
	}
	return fmt.Sprintf(msg, name)
}

type signupInput struct {
	Name  string `json:"name" validate:"required,max=100"`
	Email string `json:"email" validate:"required,email,max=100"`
}

type emailInput struct {
	Email string `json:"email" validate:"required,email,max=100"`
}

type bookInput struct {
	BookKey string `json:"bookKey" validate:"required,max=100"`
}
