package print

import (
	"encoding/json"

	"github.com/bookpress/backend/internal/domain/shared"
)

// ObjectType tags a drawable scene object
type ObjectType string

const (
	ObjectImage ObjectType = "IMAGE"
	ObjectText  ObjectType = "TEXT"
	ObjectShape ObjectType = "SHAPE"
)

// IsValid checks if the ObjectType is a valid value
func (t ObjectType) IsValid() bool {
	return t == ObjectImage || t == ObjectText || t == ObjectShape
}

// Drawable is one object of a page scene. The scene format is produced by
// the design canvas; the pipeline only reads the fields it needs (type, fill,
// geometry, and source pixel dimensions for images) and never depends on a
// specific canvas library's object model.
//
// Geometry is expressed in millimeters relative to the trim-box origin, so
// objects extending into the bleed have negative coordinates.
type Drawable struct {
	Type     ObjectType `json:"type"`
	X        float64    `json:"x"`
	Y        float64    `json:"y"`
	Width    float64    `json:"width"`
	Height   float64    `json:"height"`
	Rotation float64    `json:"rotation,omitempty"`
	Opacity  float64    `json:"opacity,omitempty"`
	// Fill is a hex color ("#rrggbb"); empty when the object has no solid fill
	Fill string `json:"fill,omitempty"`

	// Image fields
	SourceWidthPx  int     `json:"source_width_px,omitempty"`
	SourceHeightPx int     `json:"source_height_px,omitempty"`
	ScaleX         float64 `json:"scale_x,omitempty"`
	ScaleY         float64 `json:"scale_y,omitempty"`
	SourceURL      string  `json:"source_url,omitempty"`

	// Text fields
	Text       string  `json:"text,omitempty"`
	FontFamily string  `json:"font_family,omitempty"`
	FontSizePt float64 `json:"font_size_pt,omitempty"`
}

// Scene is the drawable content of one page: an ordered object list over an
// optional background fill.
type Scene struct {
	BackgroundFill string     `json:"background_fill,omitempty"`
	Objects        []Drawable `json:"objects"`
}

// DecodeScene parses a serialized scene payload. Payloads travel opaquely
// through PrintPage and are only decoded at the point of use.
func DecodeScene(raw json.RawMessage) (*Scene, error) {
	if len(raw) == 0 {
		return &Scene{}, nil
	}
	var s Scene
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, shared.NewDomainError("INVALID_SCENE", "Scene payload is not valid JSON: "+err.Error())
	}
	for i := range s.Objects {
		if !s.Objects[i].Type.IsValid() {
			return nil, shared.NewDomainError("INVALID_SCENE",
				"Scene contains an object of unknown type: "+string(s.Objects[i].Type))
		}
	}
	return &s, nil
}

// Encode serializes the scene back into an opaque payload
func (s *Scene) Encode() (json.RawMessage, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_SCENE", "Scene cannot be serialized: "+err.Error())
	}
	return data, nil
}

// Clone returns a deep copy of the scene
func (s *Scene) Clone() *Scene {
	out := &Scene{
		BackgroundFill: s.BackgroundFill,
		Objects:        make([]Drawable, len(s.Objects)),
	}
	copy(out.Objects, s.Objects)
	return out
}

// Fills returns the indices of objects carrying a solid hex fill, plus the
// background when set. Used by the color check and the simulator.
func (s *Scene) Fills() []string {
	fills := make([]string, 0, len(s.Objects)+1)
	if s.BackgroundFill != "" {
		fills = append(fills, s.BackgroundFill)
	}
	for _, obj := range s.Objects {
		if obj.Fill != "" {
			fills = append(fills, obj.Fill)
		}
	}
	return fills
}
