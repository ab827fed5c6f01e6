package style

import (
	"github.com/stwalsh4118/plotpilot/api/internal/models"
	"github.com/stwalsh4118/plotpilot/api/internal/resolver"
)

// OverlayStyle styles section and block outlines.
type OverlayStyle struct {
	Color       string  `json:"color"`
	Weight      float64 `json:"weight"`
	FillOpacity float64 `json:"fillOpacity"`
	DashArray   string  `json:"dashArray,omitempty"`
}

// SectionStyle is the outline style of cemetery sections.
func SectionStyle() OverlayStyle {
	return OverlayStyle{Color: ColorSection, Weight: 2, FillOpacity: 0.1}
}

// BlockStyle is the outline style of cemetery blocks.
func BlockStyle() OverlayStyle {
	return OverlayStyle{Color: ColorBlock, Weight: 1, FillOpacity: 0.05, DashArray: "5, 5"}
}

// SectionLabel returns the permanent label drawn at a section's centre.
func SectionLabel(props models.Properties) string {
	name := resolver.Text(props, models.PropSection)
	if name == "" {
		name = resolver.Text(props, models.PropName)
	}
	if name == "" {
		name = resolver.Text(props, models.PropObjectID)
	}
	if name == "" {
		return ""
	}
	return "Section " + name
}

// Overlay is a labelled section or block outline.
type Overlay struct {
	Label  string         `json:"label,omitempty"`
	Center *models.LatLng `json:"center,omitempty"`
}

// Overlays is the overlay layer set for the map.
type Overlays struct {
	SectionStyle OverlayStyle `json:"sectionStyle"`
	BlockStyle   OverlayStyle `json:"blockStyle"`
	Sections     []Overlay    `json:"sections"`
}

// BuildOverlays returns overlay styles and one label per section.
func BuildOverlays(sections models.FeatureCollection) Overlays {
	out := Overlays{
		SectionStyle: SectionStyle(),
		BlockStyle:   BlockStyle(),
		Sections:     make([]Overlay, 0, len(sections.Features)),
	}
	for _, f := range sections.Features {
		o := Overlay{Label: SectionLabel(f.Properties)}
		if c, ok := f.Geometry.Center(); ok {
			o.Center = &c
		}
		out.Sections = append(out.Sections, o)
	}
	return out
}
