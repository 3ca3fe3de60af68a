package validation

import (
	apperrors "github.com/spec-kit/ferry-admin/pkg/util"
)

// ConfirmationPhrase is what an operator must type to permanently delete
// the record called name.
func ConfirmationPhrase(name string) string {
	return name + "/delete"
}

// CheckConfirmation accepts only the exact phrase: no trimming and no case
// folding.
func CheckConfirmation(name, typed string) error {
	if typed == ConfirmationPhrase(name) {
		return nil
	}
	return apperrors.NewValidationError("confirmation does not match", map[string]string{
		"confirmation": "Type " + ConfirmationPhrase(name) + " to confirm.",
	})
}
