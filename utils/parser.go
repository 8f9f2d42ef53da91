package utils

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ParseAndValidate parses data into v and then runs the struct-tag
// validators declared on it. v must be a pointer to a struct.
func ParseAndValidate(data []byte, v interface{}) error {
	if err := JSONUnmarshal(data, v); err != nil {
		return err
	}

	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	return nil
}

// ValidateStruct runs the struct-tag validators on an already constructed
// value.
func ValidateStruct(v interface{}) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}
