// Package savegate decides whether a workflow may be handed to persistence.
package savegate

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// ErrNameRequired is returned for blank workflow names. Its text is shown to the user.
var ErrNameRequired = errors.New("Please enter a workflow name")

var validate *validator.Validate

func init() {
	validate = validator.New()
	if err := validate.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(fmt.Sprintf("savegate: registering notblank: %v", err))
	}
}

type request struct {
	Name string `validate:"required,notblank"`
}

// CanSave returns true if the name is acceptable. Only blankness is checked.
func CanSave(name string) (bool, error) {
	if err := validate.Struct(request{Name: name}); err != nil {
		return false, ErrNameRequired
	}
	return true, nil
}
