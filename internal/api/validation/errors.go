package validation

import (
	"sort"
	"strings"
)

// Errors maps a form field name to the message shown next to it.
type Errors map[string]string

// Has reports whether field already failed.
func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// Add records msg for field unless the field already has a message; the
// first failing rule wins.
func (e Errors) Add(field, msg string) {
	if e.Has(field) {
		return
	}
	e[field] = msg
}

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, f+": "+e[f])
	}
	return strings.Join(msgs, "; ")
}
