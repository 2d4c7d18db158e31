package store

import (
	"strings"

	"github.com/google/uuid"
)

// freshIdentifier mints an instance IRI of the form
// <namespace><typeName>/<uuid>, lowercasing the type name segment.
// Namespaces already ending in a /, # or : separator (URN namespaces use
// the latter) are used as-is; anything else gets a / appended.
func freshIdentifier(namespace, typeName string) string {
	ns := namespace
	if ns != "" && !strings.HasSuffix(ns, "/") && !strings.HasSuffix(ns, "#") && !strings.HasSuffix(ns, ":") {
		ns += "/"
	}
	return ns + strings.ToLower(typeName) + "/" + uuid.NewString()
}
