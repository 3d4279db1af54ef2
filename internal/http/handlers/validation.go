package handlers

import (
	"fmt"
	"strings"
)

type ItemValidationError struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

func validateItem(i ItemRequest) []ItemValidationError {
	errs := []ItemValidationError{}
	if strings.TrimSpace(i.Name) == "" {
		errs = append(errs, ItemValidationError{Field: "Name", Description: "Name is required"})
	}
	if !directory.Valid(i.Location) {
		errs = append(errs, ItemValidationError{
			Field:       "Location",
			Description: fmt.Sprintf("Location must be one of %s", strings.Join(directory.All(), ", ")),
		})
	}
	if i.Quantity < 0 {
		errs = append(errs, ItemValidationError{Field: "Quantity", Description: "Quantity cannot be negative"})
	}
	if i.Threshold < 0 {
		errs = append(errs, ItemValidationError{Field: "Threshold", Description: "Threshold cannot be negative"})
	}
	return errs
}
