package models

// Preset is a saved quick-bill template. Presets live only in local storage.
type Preset struct {
	ID       string  `json:"id"`
	Label    string  `json:"label"`
	Amount   float64 `json:"amount"`
	Category string  `json:"type"`
}

// DefaultPresets returns the seed presets used when none were ever saved.
func DefaultPresets() []Preset {
	return []Preset{
		{ID: "1", Label: "Photo Retouch", Amount: 300, Category: "Retouch"},
		{ID: "2", Label: "Logo Design", Amount: 1500, Category: "Branding"},
		{ID: "3", Label: "Social Post", Amount: 500, Category: "Social"},
		{ID: "4", Label: "UI Mockup", Amount: 2500, Category: "UX"},
	}
}
