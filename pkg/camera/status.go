package camera

import "errors"

var (
	// ErrUnknownSetting is returned for identities outside the registry.
	ErrUnknownSetting = errors.New("unknown setting")
	// ErrInvalidIndex is returned for indices outside a setting's table.
	ErrInvalidIndex = errors.New("invalid value index")
)

// Status is the outcome of a commit attempt.
type Status int

const (
	// Accepted means the candidate was committed.
	Accepted Status = iota
	// Rejected means the candidate failed its legality check. Nothing changed.
	Rejected
	// InvalidIndex means the candidate lies outside the setting's table.
	InvalidIndex
	// InvalidSetting means the setting identity is unknown.
	InvalidSetting
	// HeightFallback means a Width commit succeeded but no enabled height fit
	// under the aspect-preserving target, so the smallest enabled height was chosen.
	HeightFallback
	// Unresolved means a Width commit found no enabled height at all and was
	// abandoned. Nothing changed.
	Unresolved
)

var statusNames = map[Status]string{
	Accepted:       "accepted",
	Rejected:       "rejected",
	InvalidIndex:   "invalid_index",
	InvalidSetting: "invalid_setting",
	HeightFallback: "height_fallback",
	Unresolved:     "unresolved",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// Committed reports whether the requested value became current.
func (s Status) Committed() bool {
	return s == Accepted || s == HeightFallback
}

// MarshalText renders the status name for JSON and YAML.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
