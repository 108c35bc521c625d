package model

import (
	"time"
)

// CommitEvent records one setting whose index changed as the result of a
// commit request. A single Width request may produce two events: the Width
// change itself and the dependent Height change.
type CommitEvent struct {
	ID        string    `json:"id"`         // uuid v4
	SettingID int       `json:"setting_id"` // ordinal identity (Mode=0 .. Format=5)
	Setting   string    `json:"setting"`    // e.g. "width"
	From      int       `json:"from"`
	To        int       `json:"to"`
	FromLabel string    `json:"from_label"`
	ToLabel   string    `json:"to_label"`
	Status    string    `json:"status"` // status of the originating request
	Timestamp time.Time `json:"timestamp"`
}

// Changed reports whether the event moved the setting to a different index.
func (e *CommitEvent) Changed() bool {
	return e.From != e.To
}

// Clip is one recording session, from Standby->Rec to Rec->Standby.
type Clip struct {
	ID        string    `json:"id"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"` // zero while recording

	// Labels of the capture settings at the moment recording started.
	Width   string `json:"width"`
	Height  string `json:"height"`
	FPS     string `json:"fps"`
	Shutter string `json:"shutter"`
}

// Open reports whether the clip is still recording.
func (c *Clip) Open() bool {
	return c.EndedAt.IsZero()
}

// Duration returns the recorded length, or the elapsed time until now for an
// open clip.
func (c *Clip) Duration(now time.Time) time.Duration {
	if c.Open() {
		return now.Sub(c.StartedAt)
	}
	return c.EndedAt.Sub(c.StartedAt)
}
