package camera

// SettingView is a read-only copy of one setting, for renderers and actuators.
type SettingView struct {
	ID      SettingID `json:"-"`
	Name    string    `json:"name"`
	Title   string    `json:"title"`
	Index   int       `json:"index"`
	Label   string    `json:"label"`
	Value   float64   `json:"value"`
	Display string    `json:"display"`
	Count   int       `json:"count"`
	Enabled []int     `json:"enabled"`
	User    []int     `json:"user,omitempty"`
}

// Snapshot is the state of every setting at one instant, in registry order.
type Snapshot [NumSettings]SettingView

// Indices returns the current index of every setting.
func (s *Snapshot) Indices() [NumSettings]int {
	var out [NumSettings]int
	for i := range s {
		out[i] = s[i].Index
	}
	return out
}

// View returns a copy of one setting.
func (r *Registry) View(id SettingID) SettingView {
	s := &r.settings[id]
	cur := s.Current()
	return SettingView{
		ID:      id,
		Name:    id.String(),
		Title:   s.table.Name,
		Index:   s.val,
		Label:   cur.Label,
		Value:   cur.Value,
		Display: s.Display(),
		Count:   s.Count(),
		Enabled: s.enable.Indices(),
		User:    s.user.Indices(),
	}
}

// Snapshot copies the state of every setting.
func (r *Registry) Snapshot() Snapshot {
	var snap Snapshot
	for _, id := range AllSettings {
		snap[id] = r.View(id)
	}
	return snap
}

// NextEnabled walks |delta| enabled entries away from the current index in the
// direction of delta's sign. It stops early at the table ends and returns
// false when no enabled entry lies in that direction.
func (r *Registry) NextEnabled(id SettingID, delta int) (int, bool) {
	if !id.Valid() || delta == 0 {
		return 0, false
	}
	s := &r.settings[id]
	step := 1
	if delta < 0 {
		step, delta = -1, -delta
	}

	found, moved := s.val, false
	for i := s.val + step; i >= 0 && i < s.Count() && delta > 0; i += step {
		if s.enable.Test(i) {
			found, moved = i, true
			delta--
		}
	}
	return found, moved
}
