// Package style computes how each plot renders under the current view mode,
// year filter and selection. Everything here is pure: the same inputs always
// give the same styles.
package style

import (
	"fmt"
	"strings"

	"github.com/stwalsh4118/plotpilot/api/internal/models"
	"github.com/stwalsh4118/plotpilot/api/internal/resolver"
)

// Mode is a map view mode.
type Mode string

// View modes.
const (
	ModeStandard     Mode = "standard"
	ModeAvailability Mode = "availability"
	ModeBlocks       Mode = "blocks"
	ModeTimeline     Mode = "timeline"
	ModeMaintenance  Mode = "maintenance"
)

// Modes lists every view mode in menu order.
var Modes = []Mode{ModeStandard, ModeAvailability, ModeBlocks, ModeTimeline, ModeMaintenance}

// ParseMode converts a mode name. The empty string means standard.
func ParseMode(raw string) (Mode, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return ModeStandard, nil
	}
	for _, m := range Modes {
		if string(m) == raw {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown view mode %q", raw)
}

// Palette.
const (
	ColorOccupied    = "#ef4444"
	ColorReserved    = "#eab308"
	ColorAvailable   = "#22c55e"
	ColorOpen        = "#4ade80"
	ColorDimmed      = "#9ca3af"
	ColorFaded       = "#eeeeee"
	ColorWorkOrder   = "#eab308"
	ColorNoWorkOrder = "#94a3b8"
	ColorStroke      = "#000000"
	ColorSelected    = "#ffffff"
	ColorSection     = "#3b82f6"
	ColorBlock       = "#a855f7"
)

// Point marker radii.
const (
	RadiusDefault   = 3
	RadiusHighlight = 4
)

// ViewStyle is the render style of one plot.
type ViewStyle struct {
	FillColor   string  `json:"fillColor"`
	StrokeColor string  `json:"color"`
	Weight      float64 `json:"weight"`
	FillOpacity float64 `json:"fillOpacity"`
	Opacity     float64 `json:"opacity"`
	// PointRadius applies to point geometries only; polygons report 0.
	PointRadius  float64 `json:"radius"`
	BringToFront bool    `json:"bringToFront,omitempty"`
}

// WorkOrderLookup reports whether an open work order references any of the
// given plot identifiers.
type WorkOrderLookup interface {
	HasOpenWorkOrder(ids ...string) bool
}

// Engine holds the view state styles are computed for.
type Engine struct {
	Mode       Mode
	Range      Range
	SelectedID string
	WorkOrders WorkOrderLookup
}

// Style returns the render style of a plot feature.
func (e Engine) Style(f models.Feature) ViewStyle {
	s, dimmed := e.modeStyle(f.Properties)

	if f.Geometry.IsPoint() {
		s.PointRadius = RadiusDefault
		switch {
		case e.Mode == ModeTimeline && dimmed:
			// hidden points must not catch clicks
			s.PointRadius = 0
			s.Opacity = 0
			s.FillOpacity = 0
		case e.Mode == ModeAvailability && !dimmed:
			s.PointRadius = RadiusHighlight
		}
	}

	if e.selected(f.Properties) {
		s.StrokeColor = ColorSelected
		s.Weight = 3
		s.FillOpacity = 1
		s.Opacity = 1
		s.BringToFront = f.Geometry.IsPoint()
	}
	return s
}

// modeStyle applies the per-mode color rules. dimmed reports whether the
// plot fell into the mode's de-emphasised variant.
func (e Engine) modeStyle(props models.Properties) (ViewStyle, bool) {
	s := ViewStyle{StrokeColor: ColorStroke, Weight: 0.5, FillOpacity: 0.8, Opacity: 1}
	status := resolver.ResolveStatus(props)

	switch e.Mode {
	case ModeAvailability:
		if status == models.StatusAvailable {
			s.FillColor, s.FillOpacity, s.Weight = ColorOpen, 0.9, 1
			return s, false
		}
		s.FillColor, s.FillOpacity, s.Weight = ColorDimmed, 0.3, 0.5
		return s, true

	case ModeTimeline:
		if status == models.StatusOccupied {
			if year, ok := resolver.ResolveBurialYear(props); ok && e.Range.Contains(year) {
				s.FillColor, s.FillOpacity, s.Weight = ColorOccupied, 0.9, 1
				return s, false
			}
		}
		s.FillColor, s.FillOpacity, s.Weight = ColorFaded, 0.1, 0
		return s, true

	case ModeBlocks:
		s.FillColor, s.FillOpacity, s.Weight = ColorAvailable, 0, 0
		return s, true

	case ModeMaintenance:
		if e.WorkOrders != nil && e.WorkOrders.HasOpenWorkOrder(workOrderIDs(props)...) {
			s.FillColor, s.FillOpacity, s.Weight = ColorWorkOrder, 0.8, 2
			return s, false
		}
		s.FillColor, s.FillOpacity, s.Weight = ColorNoWorkOrder, 0.1, 0.5
		return s, true

	default:
		s.FillColor = statusColor(status)
		return s, false
	}
}

func statusColor(status models.Status) string {
	switch status {
	case models.StatusOccupied:
		return ColorOccupied
	case models.StatusReserved:
		return ColorReserved
	default:
		return ColorAvailable
	}
}

// workOrderIDs lists the identifiers a work order may use for a plot.
func workOrderIDs(props models.Properties) []string {
	return []string{
		resolver.Text(props, models.PropID),
		resolver.Text(props, models.PropObjectID),
	}
}

func (e Engine) selected(props models.Properties) bool {
	return e.SelectedID != "" && resolver.MatchesID(props, e.SelectedID)
}

// Visible reports whether the plot should be drawn at all. Plots are not
// drawn in blocks mode, and filtered-out points vanish in timeline mode.
func (e Engine) Visible(f models.Feature) bool {
	if e.Mode == ModeBlocks {
		return false
	}
	if e.Mode == ModeTimeline && f.Geometry.IsPoint() {
		_, dimmed := e.modeStyle(f.Properties)
		return !dimmed
	}
	return true
}

// Tooltip returns the hover text "<name> (<id>)". The name falls back to
// "F_NAME L_NAME" when both are set, then to the plot's status.
func (e Engine) Tooltip(f models.Feature) string {
	return Tooltip(f.Properties)
}

// Tooltip returns the hover text for a plot's properties.
func Tooltip(props models.Properties) string {
	name := strings.TrimSpace(resolver.Text(props, models.PropName))
	if name == "" {
		first, last := resolver.FirstName(props), resolver.LastName(props)
		if first != "" && last != "" {
			name = first + " " + last
		} else {
			name = string(resolver.ResolveStatus(props))
		}
	}
	return fmt.Sprintf("%s (%s)", name, resolver.PlotID(props))
}

// FeatureStyle is the computed presentation of one plot.
type FeatureStyle struct {
	ID      string    `json:"id"`
	Style   ViewStyle `json:"style"`
	Tooltip string    `json:"tooltip"`
	Visible bool      `json:"visible"`
}

// Restyle computes the presentation of every plot.
func (e Engine) Restyle(features []models.Feature) []FeatureStyle {
	out := make([]FeatureStyle, len(features))
	for i, f := range features {
		out[i] = FeatureStyle{
			ID:      resolver.PlotID(f.Properties),
			Style:   e.Style(f),
			Tooltip: Tooltip(f.Properties),
			Visible: e.Visible(f),
		}
	}
	return out
}
