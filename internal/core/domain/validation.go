package domain

import (
	"sort"
	"strings"
)

// FieldErrors carries user-facing validation messages keyed by form field.
// It is returned as an error by use-cases and rendered next to the field.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, k+": "+fe[k])
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Add records msg for field unless the field already has a message.
func (fe FieldErrors) Add(field, msg string) {
	if _, ok := fe[field]; !ok {
		fe[field] = msg
	}
}

// Messages returns the messages in stable field order.
func (fe FieldErrors) Messages() []string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, fe[k])
	}
	return out
}
