package camera

import (
	"fmt"
	"log/slog"

	"wavecam/pkg/bitmask"
)

// Registry holds the six camera settings and their commit logic.
// It holds no locks: the owner must serialize every TrySetValue call.
type Registry struct {
	settings [NumSettings]Setting
	logger   *slog.Logger
}

// NewRegistry creates an initialized registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registry{logger: logger}
	r.Initialize()
	return r
}

// Initialize installs the tables, masks and starting values of every setting.
// Calling it again discards all runtime state.
func (r *Registry) Initialize() {
	for i, st := range initialStates() {
		s := &r.settings[i]
		s.id = SettingID(i)
		s.table = st.table
		s.val = st.val
		s.setEnableMask(st.enable)
		s.user = st.user.Truncate(st.table.Len())
	}
}

// Get returns the setting with the given identity.
func (r *Registry) Get(id SettingID) (*Setting, error) {
	if !id.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSetting, id)
	}
	return &r.settings[id], nil
}

// IsEnabled reports whether index is currently a legal target for the setting.
// Indices outside the table are never enabled.
func (r *Registry) IsEnabled(id SettingID, index int) bool {
	if !id.Valid() {
		return false
	}
	s := &r.settings[id]
	return s.inRange(index) && s.enable.Test(index)
}

// RequiresUser reports whether selecting index needs externally supplied data.
func (r *Registry) RequiresUser(id SettingID, index int) bool {
	if !id.Valid() {
		return false
	}
	s := &r.settings[id]
	return s.inRange(index) && s.user.Test(index)
}

// TrySetValue attempts to commit index as the setting's current value.
func (r *Registry) TrySetValue(id SettingID, index int) Status {
	if !id.Valid() {
		return InvalidSetting
	}
	if !r.settings[id].inRange(index) {
		return InvalidIndex
	}

	switch id {
	case Mode:
		return r.commitMode(index)
	case Width:
		return r.commitWidth(index)
	default:
		return r.commitIfEnabled(id, index)
	}
}

// commitMode runs the record state machine. Only Standby<->Rec moves; the
// enable-mask is not consulted.
func (r *Registry) commitMode(index int) Status {
	mode := &r.settings[Mode]
	switch {
	case mode.val == ModeStandby && index == ModeRec:
		mode.val = ModeRec
		r.logger.Debug("Mode: start clip")
	case mode.val == ModeRec && index == ModeStandby:
		mode.val = ModeStandby
		r.logger.Debug("Mode: end clip")
	default:
		return Rejected
	}
	return Accepted
}

func (r *Registry) commitIfEnabled(id SettingID, index int) Status {
	if !r.IsEnabled(id, index) {
		return Rejected
	}
	r.settings[id].val = index
	return Accepted
}

func heightMaskFor(widthIndex int) bitmask.Mask {
	if widthIndex == Width4K {
		return HeightEnable4K
	}
	return HeightEnable2K
}

// commitWidth changes the width and re-selects the height, keeping the
// height/width ratio where the new height mask allows it.
func (r *Registry) commitWidth(index int) Status {
	if !r.IsEnabled(Width, index) {
		return Rejected
	}

	width := &r.settings[Width]
	height := &r.settings[Height]

	prevMask := height.enable
	height.setEnableMask(heightMaskFor(index))

	target := height.Value() * (width.table.Entries[index].Value / width.Value())
	next, ok := r.resolveHeight(target)
	status := Accepted
	if !ok {
		next, ok = r.smallestEnabledHeight()
		if !ok {
			height.enable = prevMask
			r.logger.Warn("Width: no enabled height, change abandoned", "width", index)
			return Unresolved
		}
		status = HeightFallback
		r.logger.Debug("Width: no height under target, using smallest", "target", target, "height", next)
	}

	if next != height.val {
		r.commitIfEnabled(Height, next)
	}
	width.val = index
	return status
}

// resolveHeight returns the first enabled height not above target. Heights
// are stored tallest first, so this is the closest fit from below.
func (r *Registry) resolveHeight(target float64) (int, bool) {
	height := &r.settings[Height]
	for i, e := range height.table.Entries {
		if e.Value <= target && height.enable.Test(i) {
			return i, true
		}
	}
	return 0, false
}

func (r *Registry) smallestEnabledHeight() (int, bool) {
	height := &r.settings[Height]
	best, found := 0, false
	for i, e := range height.table.Entries {
		if !height.enable.Test(i) {
			continue
		}
		if !found || e.Value < height.table.Entries[best].Value {
			best, found = i, true
		}
	}
	return best, found
}
