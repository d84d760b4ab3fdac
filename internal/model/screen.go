package model

import "time"

// ScreenNode is one element of an accessibility tree captured from another app.
// Either value may be empty.
type ScreenNode struct {
	Text     string        `json:"text,omitempty" yaml:"text,omitempty"`
	Label    string        `json:"label,omitempty" yaml:"label,omitempty"`
	Children []*ScreenNode `json:"children,omitempty" yaml:"children,omitempty"`
}

// RawScreenEvent is a single UI change notification from the observation source.
// ScreenText takes precedence over Root when both are set.
type RawScreenEvent struct {
	ObservedAt  time.Time   `json:"observedAt"`
	Root        *ScreenNode `json:"root,omitempty"`
	SourceAppID string      `json:"sourceAppId"`
	ScreenText  string      `json:"screenText,omitempty"`
}
