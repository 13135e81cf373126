package plan

import (
	"strconv"
	"strings"

	"github.com/dicore-project/dicore/internal/key"
)

// UniqueNames is a monotonic unique-name set: field names and private-method names derived from a binding's
// simple semantic identity get an integer suffix when already taken.
type UniqueNames struct {
	used map[string]bool
}

// NewUniqueNames constructs an empty set.
func NewUniqueNames() *UniqueNames { return &UniqueNames{used: map[string]bool{}} }

// Reserve returns a name guaranteed unique within this set: base itself if
// free, otherwise base2, base3, ... in order.
func (n *UniqueNames) Reserve(base string) string {
	if !n.used[base] {
		n.used[base] = true
		return base
	}
	for i := 2; ; i++ {
		candidate := base + strconv.Itoa(i)
		if !n.used[candidate] {
			n.used[candidate] = true
			return candidate
		}
	}
}

// simpleFieldName derives a lower-camel identity from a Key's type, the way
// the generated component's fields are conventionally named: the type's
// last dotted/angle-bracket segment, lowercased at the head.
func simpleFieldName(k key.Key) string {
	t := k.Type
	t = strings.TrimSuffix(t, ">")
	if i := strings.LastIndexAny(t, ".<"); i >= 0 {
		t = t[i+1:]
	}
	return decapitalize(t)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func decapitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
