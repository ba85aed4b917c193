/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

// gangNamePattern restricts names to characters that survive chat, file and
// key encodings unchanged.
var gangNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,32}$`)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	mustRegisterValidation(validate, "gangname", func(fl validator.FieldLevel) bool {
		return ValidGangName(fl.Field().String())
	})
}

func mustRegisterValidation(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("storagemodels: register validation %q: %v", tag, err))
	}
}

// ValidGangName reports whether name may be used as a gang name.
func ValidGangName(name string) bool {
	return gangNamePattern.MatchString(name)
}

// Validate checks g against its validate tags. The returned error is a
// validator.ValidationErrors when a field is rejected.
func (g StoredGang) Validate() error {
	return validate.Struct(g)
}
