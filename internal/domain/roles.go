package domain

import (
	"encoding/json"
	"fmt"
)

// RoleNames decodes the role-name annotation of a user.
// A missing annotation yields an empty list; a malformed one is an error.
func (u User) RoleNames() ([]string, error) {
	raw, ok := u.Metadata.Annotations[RoleNamesAnnotation]
	if !ok || raw == "" {
		return []string{}, nil
	}

	var names []string
	if err := json.Unmarshal([]byte(raw), &names); err != nil {
		return nil, fmt.Errorf("failed to decode role names of %s: %w", u.Name(), err)
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// SetRoleNames encodes names into the role-name annotation
func (u *User) SetRoleNames(names []string) error {
	if names == nil {
		names = []string{}
	}
	data, err := json.Marshal(names)
	if err != nil {
		return fmt.Errorf("failed to encode role names: %w", err)
	}
	if u.Metadata.Annotations == nil {
		u.Metadata.Annotations = make(map[string]string)
	}
	u.Metadata.Annotations[RoleNamesAnnotation] = string(data)
	return nil
}
