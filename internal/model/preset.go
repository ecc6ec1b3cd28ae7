package model

import "time"

// Preset is a named, saved search form.
type Preset struct {
	Name      string    `json:"name"`
	Group     string    `json:"group,omitempty"`
	Start     string    `json:"start"`
	End       string    `json:"end"`
	Query     string    `json:"query"`
	UpdatedAt time.Time `json:"updated_at"`
}
