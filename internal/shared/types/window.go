package types

// Status represents application lifecycle states
type Status string

const (
	StatusOpen      Status = "open"
	StatusMinimized Status = "minimized"
	StatusMaximized Status = "maximized"
	StatusClosed    Status = "closed"
)

// Closed reports whether a status means the entry must be evicted.
// Every status other than closed keeps the entry resident.
func (s Status) Closed() bool {
	return s == StatusClosed
}

// Dimension represents window dimensions in pixels
type Dimension struct {
	Height float64 `json:"height"`
	Width  float64 `json:"width"`
}

// Position represents window position on screen plus stacking order
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Layout is the composite geometry of one application window.
// Persisted layouts are always fully populated and in bounds.
type Layout struct {
	Dimension Dimension `json:"dimension"`
	Position  Position  `json:"position"`
}

// DimensionPatch carries optional dimension fields. A nil field means
// "keep the previous value".
type DimensionPatch struct {
	Height *float64 `json:"height,omitempty"`
	Width  *float64 `json:"width,omitempty"`
}

// PositionPatch carries optional position fields.
type PositionPatch struct {
	X *float64 `json:"x,omitempty"`
	Y *float64 `json:"y,omitempty"`
	Z *float64 `json:"z,omitempty"`
}

// LayoutPatch is a partial layout supplied by a caller, or the
// intermediate result of merging one onto a previous layout.
type LayoutPatch struct {
	Dimension *DimensionPatch `json:"dimension,omitempty"`
	Position  *PositionPatch  `json:"position,omitempty"`
}

// ApplicationState is the lifecycle flag of one application entry.
type ApplicationState struct {
	Status Status `json:"status"`
}

// Application represents one open (or being-opened) window.
type Application struct {
	UUID   string           `json:"uuid"`
	Layout Layout           `json:"layout"`
	State  ApplicationState `json:"state"`

	// Configuration is an opaque application-specific blob. The state
	// engine passes it through unmodified and never inspects its shape.
	Configuration map[string]interface{} `json:"applicationConfiguration,omitempty"`
}

// ApplicationPatch is a partial update to one application entry.
// Nil fields keep the entry's previous value.
type ApplicationPatch struct {
	UUID          string                 `json:"uuid"`
	Layout        *LayoutPatch           `json:"layout,omitempty"`
	State         *ApplicationState      `json:"state,omitempty"`
	Configuration map[string]interface{} `json:"applicationConfiguration,omitempty"`
}

// Filter narrows registry lookups. Both constraints are AND-ed when
// present; an entry matches on a dimension the filter omits.
type Filter struct {
	UUID   *string
	Status *Status
}

// Match reports whether the application satisfies the filter.
func (f *Filter) Match(app *Application) bool {
	if f == nil {
		return true
	}
	if f.UUID != nil && app.UUID != *f.UUID {
		return false
	}
	if f.Status != nil && app.State.Status != *f.Status {
		return false
	}
	return true
}

// Stats contains workspace manager statistics
type Stats struct {
	TotalApps     int `json:"total_apps"`
	OpenApps      int `json:"open_apps"`
	MinimizedApps int `json:"minimized_apps"`
	MaximizedApps int `json:"maximized_apps"`
}

// Float returns a pointer to v, for building patches.
func Float(v float64) *float64 { return &v }
