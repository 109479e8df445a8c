package graph

import "github.com/samber/oops"

const codeEntityNotFound = "entity_not_found"

func errEntityNotFound(name string) error {
	return oops.
		Code(codeEntityNotFound).
		With("entity", name).
		Errorf("entity %q does not exist", name)
}

// IsEntityNotFound reports whether err is a missing-entity failure.
func IsEntityNotFound(err error) bool {
	oopsErr, ok := oops.AsOops(err)
	return ok && oopsErr.Code() == codeEntityNotFound
}

// MissingEntity returns the entity name a missing-entity failure refers to.
func MissingEntity(err error) string {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return ""
	}

	name, _ := oopsErr.Context()["entity"].(string)

	return name
}
