package table

import "strings"

// StripPrefix drops the "<tag>_" prefix the span server puts in front of
// index and column names. Everything up to and including the first
// underscore is removed, so "str_value" becomes "value" and "int_" becomes ""
// (an unnamed level). Names without an underscore are returned unchanged.
func StripPrefix(name string) string {
	_, rest, found := strings.Cut(name, "_")
	if !found {
		return name
	}
	return rest
}
