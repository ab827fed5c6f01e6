package models

// Properties is a GeoJSON property bag. Legacy key names from the source
// datasets (OBJECTID, LOTSTATUS, F_NAME, ...) are kept verbatim.
type Properties map[string]interface{}

// Merge returns a new property bag containing p overlaid with patch.
// Patch fields win; fields absent from patch are kept. p is not modified.
func (p Properties) Merge(patch Properties) Properties {
	merged := make(Properties, len(p)+len(patch))
	for k, v := range p {
		merged[k] = v
	}
	for k, v := range patch {
		merged[k] = v
	}
	return merged
}

// Clone returns a shallow copy of the property bag.
func (p Properties) Clone() Properties {
	return p.Merge(nil)
}

// Feature is a single GeoJSON feature.
type Feature struct {
	ID         interface{} `json:"id,omitempty"`
	Geometry   *Geometry   `json:"geometry"`
	Properties Properties  `json:"properties"`
	Type       string      `json:"type"`
}

// WithProperties returns a copy of the feature with patch shallow-merged
// into its properties. The receiver is left untouched.
func (f Feature) WithProperties(patch Properties) Feature {
	f.Properties = f.Properties.Merge(patch)
	return f
}

// FeatureCollection is a GeoJSON FeatureCollection.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// NewFeatureCollection wraps features in a FeatureCollection.
func NewFeatureCollection(features []Feature) FeatureCollection {
	if features == nil {
		features = []Feature{}
	}
	return FeatureCollection{Type: "FeatureCollection", Features: features}
}

// Bounds returns the bounding box enclosing every feature geometry.
func (fc FeatureCollection) Bounds() BBox {
	box := EmptyBBox()
	for i := range fc.Features {
		box.Union(fc.Features[i].Geometry.Bounds())
	}
	return box
}

// Dataset is one snapshot of the three effective collections.
// A Dataset is never mutated after construction; updates produce a new one.
type Dataset struct {
	Plots    FeatureCollection `json:"plots"`
	Sections FeatureCollection `json:"sections"`
	Blocks   FeatureCollection `json:"blocks"`
}

// Bounds returns the box framing sections, blocks and plots together.
func (d *Dataset) Bounds() BBox {
	box := d.Sections.Bounds()
	box.Union(d.Blocks.Bounds())
	box.Union(d.Plots.Bounds())
	return box
}
