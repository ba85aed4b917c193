/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	stderrors "errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/Dykam/gangwars/errors"
)

// configValidate is the validator instance for configuration structs.
var configValidate *validator.Validate

func init() {
	configValidate = validator.New(validator.WithRequiredStructEnabled())
	mustRegisterValidation(configValidate, "moment", validateMoment)
}

// mustRegisterValidation panics when a rule cannot be registered, since
// every struct using its tag would fail validation.
func mustRegisterValidation(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("config: register validation %q: %v", tag, err))
	}
}

func validateMoment(fl validator.FieldLevel) bool {
	return Moment(fl.Field().String()).Valid()
}

// Validate checks every field against its validate tag. Each rejected field
// becomes an errors.ValidationError; several are combined in an
// errors.BatchError.
func (c *Config) Validate() error {
	err := configValidate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return fmt.Errorf("failed to validate config: %w", err)
	}

	batch := &errors.BatchError{}
	for _, fe := range fieldErrs {
		batch.Errors = append(batch.Errors, errors.NewValidationError(fe.Namespace(), describe(fe)))
	}
	if len(batch.Errors) == 1 {
		return batch.Errors[0]
	}
	return batch
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "moment":
		return fmt.Sprintf("%q is not a moment: use a name, HH:MM or ticks", fe.Value())
	case "oneof":
		return fmt.Sprintf("%v must be one of [%s]", fe.Value(), fe.Param())
	case "required":
		return "is required"
	default:
		if fe.Param() != "" {
			return fmt.Sprintf("failed %s=%s (got %v)", fe.Tag(), fe.Param(), fe.Value())
		}
		return fmt.Sprintf("failed %s (got %v)", fe.Tag(), fe.Value())
	}
}
