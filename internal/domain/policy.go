package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// policyTimeLayout is the wall-clock format the policy blob uses. Times carry
// no zone; they are interpreted in the configured reference timezone.
const policyTimeLayout = "2006-01-02T15:04:05"

// SubmitPolicy is the optional structured policy a problem may attach: a
// submission deadline, a late-extension user list with its own deadline, and a
// language-specific import allow-list. Nil pointer fields mean "not set".
type SubmitPolicy struct {
	ExpireTime     *string  `json:"expire_time"`
	AllowedImports []string `json:"allowed_imports"`
	LateAllowed    []string `json:"late_allowed"`
	LateUntil      *string  `json:"late_until"`
}

// ParseSubmitPolicy decodes the policy blob attached to a problem. A decode
// failure is a configuration fault, not a user error.
func ParseSubmitPolicy(raw string) (*SubmitPolicy, error) {
	var p SubmitPolicy
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("malformed submit policy: %w", err)
	}
	return &p, nil
}

// HasImportPolicy distinguishes "allow-list defined" from "no list at all";
// the latter rejects every import.
func (p *SubmitPolicy) HasImportPolicy() bool {
	return p != nil && p.AllowedImports != nil
}

// IsLateAllowed reports whether the username is on the late-extension list.
func (p *SubmitPolicy) IsLateAllowed(username string) bool {
	for _, name := range p.LateAllowed {
		if name == username {
			return true
		}
	}
	return false
}

// ExpireAt parses the primary deadline in the given location.
func (p *SubmitPolicy) ExpireAt(loc *time.Location) (time.Time, error) {
	return parsePolicyTime(p.ExpireTime, loc)
}

// LateUntilAt parses the late deadline in the given location.
func (p *SubmitPolicy) LateUntilAt(loc *time.Location) (time.Time, error) {
	return parsePolicyTime(p.LateUntil, loc)
}

func parsePolicyTime(s *string, loc *time.Location) (time.Time, error) {
	if s == nil {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(policyTimeLayout, *s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed policy time %q: %w", *s, err)
	}
	return t, nil
}

// ImportAllowed applies the allow-list matching rules: "*" allows everything,
// "pkg.*" allows the package prefix, anything else must match exactly.
func ImportAllowed(name string, allowed []string) bool {
	for _, rule := range allowed {
		switch {
		case rule == "*":
			return true
		case len(rule) > 2 && rule[len(rule)-2:] == ".*":
			prefix := rule[:len(rule)-1]
			if len(name) >= len(prefix) && name[:len(prefix)] == prefix {
				return true
			}
		case name == rule:
			return true
		}
	}
	return false
}
