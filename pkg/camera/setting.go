package camera

import (
	"fmt"
	"strconv"
	"strings"

	"wavecam/pkg/bitmask"
)

// SettingID identifies one of the six camera settings. Its ordinal is also
// the setting's position in the registry.
type SettingID uint8

const (
	Mode SettingID = iota
	Width
	Height
	FPS
	Shutter
	Format
)

// NumSettings is the fixed number of settings in a Registry.
const NumSettings = 6

// Mode values.
const (
	ModeStandby  = 0
	ModeRec      = 1
	ModePlayback = 2
)

// Width values.
const (
	Width4K = 0
	Width2K = 1
)

// Format values.
const (
	FormatCancel  = 0
	FormatConfirm = 1
)

// FPSUser is the frame rate entry whose value is supplied by the user.
const FPSUser = 0

var settingNames = [NumSettings]string{"mode", "width", "height", "fps", "shutter", "format"}

// AllSettings lists every setting identity in registry order.
var AllSettings = [NumSettings]SettingID{Mode, Width, Height, FPS, Shutter, Format}

func (id SettingID) String() string {
	if int(id) < NumSettings {
		return settingNames[id]
	}
	return fmt.Sprintf("setting(%d)", id)
}

// Valid reports whether id names one of the six settings.
func (id SettingID) Valid() bool {
	return int(id) < NumSettings
}

// ParseSettingID accepts a setting name ("width") or its ordinal ("1").
func ParseSettingID(s string) (SettingID, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range settingNames {
		if s == name {
			return SettingID(i), nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 && n < NumSettings {
		return SettingID(n), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSetting, s)
}

// ValueEntry is one named option of a setting.
type ValueEntry struct {
	Label string
	Value float64
}

// DisplayType says how a renderer should present a setting's value.
type DisplayType uint8

const (
	// DisplayLabel shows the entry label.
	DisplayLabel DisplayType = iota
	// DisplayFormat applies the table format to the integer magnitude.
	DisplayFormat
	// DisplayName shows only the setting name.
	DisplayName
)

// ValueTable is the ordered, read-only list of options for one setting.
type ValueTable struct {
	Name    string
	Format  string
	Display DisplayType
	Entries []ValueEntry
}

// Len returns the number of entries.
func (t *ValueTable) Len() int {
	return len(t.Entries)
}

// Entry returns entry i, or false when i is out of range.
func (t *ValueTable) Entry(i int) (ValueEntry, bool) {
	if i < 0 || i >= len(t.Entries) {
		return ValueEntry{}, false
	}
	return t.Entries[i], true
}

// Render returns the display text of entry i.
func (t *ValueTable) Render(i int) string {
	e, ok := t.Entry(i)
	if !ok {
		return ""
	}
	switch t.Display {
	case DisplayFormat:
		return fmt.Sprintf(t.Format, int(e.Value))
	case DisplayName:
		return t.Name
	default:
		return e.Label
	}
}

// Setting is one configurable field of the camera. Its state is only
// changed through the owning Registry.
type Setting struct {
	id     SettingID
	val    int
	table  *ValueTable
	enable bitmask.Mask
	user   bitmask.Mask
}

func (s *Setting) ID() SettingID { return s.id }
func (s *Setting) Index() int { return s.val }
func (s *Setting) Count() int { return s.table.Len() }
func (s *Setting) Table() *ValueTable { return s.table }
func (s *Setting) EnableMask() bitmask.Mask { return s.enable }
func (s *Setting) UserMask() bitmask.Mask { return s.user }

// Current returns the entry at the current index.
func (s *Setting) Current() ValueEntry {
	e, _ := s.table.Entry(s.val)
	return e
}

// Value returns the magnitude at the current index.
func (s *Setting) Value() float64 {
	return s.Current().Value
}

// Display returns the rendered current value.
func (s *Setting) Display() string {
	return s.table.Render(s.val)
}

func (s *Setting) inRange(i int) bool {
	return i >= 0 && i < s.table.Len()
}

// setEnableMask replaces the enable-mask wholesale. Bits at or beyond the
// table length are dropped so they can never read as enabled.
func (s *Setting) setEnableMask(m bitmask.Mask) {
	s.enable = m.Truncate(s.table.Len())
}
