package view

import "strings"

// MembersSet holds lower-cased member logins.
type MembersSet map[string]struct{}

// NewMembersSet builds a set from logins, lower-casing each.
func NewMembersSet(logins ...string) MembersSet {
	m := make(MembersSet, len(logins))
	for _, l := range logins {
		m.Add(l)
	}
	return m
}

func (m MembersSet) Add(login string) {
	m[strings.ToLower(login)] = struct{}{}
}

// Has reports whether login is a member, ignoring case.
func (m MembersSet) Has(login string) bool {
	_, ok := m[strings.ToLower(login)]
	return ok
}

func (m MembersSet) Len() int { return len(m) }
