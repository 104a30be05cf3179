package ingestion

import (
	"fmt"
	"strings"

	"github.com/abhi-singhs/copilot-metrics-analysis/internal/view"
	"github.com/tidwall/gjson"
)

// loginFields are checked in order; the first truthy one names the member.
var loginFields = []string{"login", "user_login", "user", "name"}

// ParseMembers reads an organization members export in any of the shapes
// ParseRecords accepts. Entries are either login strings or objects carrying
// one of loginFields.
func ParseMembers(text string) (view.MembersSet, error) {
	entries, err := Entries(text)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: members file is empty", ErrEmptyResult)
	}

	members := view.NewMembersSet()
	for _, entry := range entries {
		switch {
		case entry.IsObject():
			if login, ok := memberLogin(entry); ok {
				members.Add(login)
			}
		case entry.Type == gjson.String:
			if strings.TrimSpace(entry.Str) != "" {
				members.Add(entry.Str)
			}
		}
	}
	if members.Len() == 0 {
		return nil, fmt.Errorf("%w: no recognizable login fields in members file", ErrEmptyResult)
	}
	return members, nil
}

func memberLogin(entry gjson.Result) (string, bool) {
	for _, field := range loginFields {
		v := entry.Get(field)
		if !truthy(v) {
			continue
		}
		if v.Type == gjson.String {
			return v.Str, true
		}
		return v.Raw, true
	}
	return "", false
}

func truthy(v gjson.Result) bool {
	switch v.Type {
	case gjson.String:
		return v.Str != ""
	case gjson.Number:
		return v.Num != 0
	case gjson.True, gjson.JSON:
		return true
	default:
		return false
	}
}
