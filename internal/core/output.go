package core

// OutputInfo describes one monitor in the global desktop space.
type OutputInfo struct {
	// Name is the compositor-provided output name when available.
	Name string `json:"name,omitempty"`

	// Logical position and size in the global desktop space.
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`

	// Scale factor (1, 2, ...).
	Scale int `json:"scale"`
}
