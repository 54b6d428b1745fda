package cache

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Key identifies a cacheable operation by name plus its parameters. The
// rendered form is deterministic regardless of the order parameters were
// added, so logically identical requests always map to the same entry.
type Key struct {
	// Op is the operation name (e.g. "dokan_store", "search_products").
	Op string

	params map[string]string
}

// NewKey creates a key for the named operation.
func NewKey(op string) Key {
	return Key{Op: op, params: make(map[string]string)}
}

// With adds a string parameter.
func (k Key) With(name, value string) Key {
	k.params[name] = value
	return k
}

// WithInt adds an integer parameter.
func (k Key) WithInt(name string, value int) Key {
	k.params[name] = strconv.Itoa(value)
	return k
}

// WithBool adds a boolean parameter.
func (k Key) WithBool(name string, value bool) Key {
	k.params[name] = strconv.FormatBool(value)
	return k
}

// String renders the key: wp:<op>:<k=v>... with parameters sorted by name.
func (k Key) String() string {
	parts := make([]string, 0, len(k.params)+2)
	parts = append(parts, "wp", k.Op)

	names := make([]string, 0, len(k.params))
	for name := range k.params {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%s", name, sanitize(k.params[name])))
	}

	return strings.Join(parts, ":")
}

// sanitize keeps the rendered key single-line and free of the separator.
func sanitize(v string) string {
	v = strings.ReplaceAll(v, ":", "_")
	v = strings.ReplaceAll(v, "\n", "_")
	v = strings.ReplaceAll(v, "\r", "_")
	return v
}
