package drops

import (
	"fmt"
)

// MaxNameLength is the maximum length in bytes of an account name.
const MaxNameLength = 64

// Name identifies an account known to the execution environment. Oracles and
// the service's own administrative identity are both names.
type Name string

// ParseName returns the name represented by s, or an error if s is not a
// well-formed account name.
func ParseName(s string) (Name, error) {
	n := Name(s)
	if err := n.Validate(); err != nil {
		return "", err
	}
	return n, nil
}

// Validate checks that the name is 1..MaxNameLength bytes of [a-z0-9._-].
func (n Name) Validate() error {
	if len(n) == 0 {
		return fmt.Errorf("account name must not be empty")
	}
	if len(n) > MaxNameLength {
		return fmt.Errorf("account name exceeds %d bytes: %d", MaxNameLength, len(n))
	}
	for i := 0; i < len(n); i++ {
		c := n[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
		case c == '.' || c == '_' || c == '-':
		default:
			return fmt.Errorf("invalid character %q at position %d in account name %q", c, i, string(n))
		}
	}
	return nil
}

func (n Name) String() string {
	return string(n)
}

// NameList is an ordered list of names.
type NameList []Name

// Contains returns true if the list contains the given name.
func (nl NameList) Contains(name Name) bool {
	for _, n := range nl {
		if n == name {
			return true
		}
	}
	return false
}

// Copy returns a copy of the list which does not share the backing array.
func (nl NameList) Copy() NameList {
	if nl == nil {
		return nil
	}
	dup := make(NameList, len(nl))
	copy(dup, nl)
	return dup
}

// Strings converts the list to a slice of plain strings.
func (nl NameList) Strings() []string {
	out := make([]string, 0, len(nl))
	for _, n := range nl {
		out = append(out, string(n))
	}
	return out
}
