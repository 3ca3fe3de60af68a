// Package dto holds the form payloads accepted by the page handlers and
// converts them to backend request bodies.
package dto

import "github.com/spec-kit/ferry-admin/internal/domain"

func requireNotCleared(fields map[string]domain.Optional[string]) map[string]string {
	errs := map[string]string{}
	for key, opt := range fields {
		if opt.IsNull() {
			errs[key] = "The " + key + " field cannot be cleared."
		}
	}
	return errs
}
