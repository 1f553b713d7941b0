package game

import (
	"encoding/json"
	"math"
)

type Brush struct {
	LineWidth   float64 `json:"lineWidth"`
	LineCap     string  `json:"lineCap"`
	StrokeStyle string  `json:"strokeStyle"`
}

type Point struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Options Brush   `json:"options"`
}

// Stroke is one pointer-down to pointer-up gesture.
type Stroke []Point

type BrushRules struct {
	MinWidth float64
	MaxWidth float64
	Cap      string
}

// wirePoint keeps fields optional so missing coordinates can be told apart from zero.
type wirePoint struct {
	X       *float64 `json:"x"`
	Y       *float64 `json:"y"`
	Options *Brush   `json:"options"`
}

// decodeStroke only checks that value is a list. Each element is decoded in
// validate, so a point with wrong field types fails validation instead of
// being dropped here.
func decodeStroke(value json.RawMessage) ([]json.RawMessage, bool) {
	points := []json.RawMessage{}
	if err := json.Unmarshal(value, &points); err != nil {
		return nil, false
	}
	return points, true
}

func (rules BrushRules) validate(points []json.RawMessage) (Stroke, bool) {
	if len(points) == 0 {
		return nil, false
	}
	stroke := make(Stroke, 0, len(points))
	for _, raw := range points {
		var p wirePoint
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, false
		}
		if p.X == nil || p.Y == nil || !finite(*p.X) || !finite(*p.Y) {
			return nil, false
		}
		if p.Options == nil {
			return nil, false
		}
		width := p.Options.LineWidth
		if !finite(width) || width < rules.MinWidth || width > rules.MaxWidth {
			return nil, false
		}
		if p.Options.LineCap != rules.Cap {
			return nil, false
		}
		stroke = append(stroke, Point{X: *p.X, Y: *p.Y, Options: *p.Options})
	}
	return stroke, true
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
