// Package locate turns path-loss distance estimates into positions.
package locate

import (
	"errors"
	"math"

	"github.com/RMahshie/rssifit/internal/pathloss"
)

// ErrCoincidentAnchors is returned when both anchors sit on the same point
var ErrCoincidentAnchors = errors.New("anchors must not be coincident")

const minAnchorSeparation = 1e-9

// Vec2 is a point in the plane, in meters
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LineConstrained estimates a position on the segment a→b given the distance
// d1 to a and d2 to b. The least-squares position along the line is clamped
// to the segment.
func LineConstrained(a, b Vec2, d1, d2 float64) (Vec2, error) {
	dx := b.X - a.X
	dy := b.Y - a.Y
	span := math.Hypot(dx, dy)
	if span <= minAnchorSeparation {
		return Vec2{}, ErrCoincidentAnchors
	}

	t := (d1 - d2 + span) / (2 * span)
	t = math.Min(1, math.Max(0, t))

	return Vec2{X: a.X + t*dx, Y: a.Y + t*dy}, nil
}

// FromRSSI converts the readings from anchors a and b to distances with
// model and places the receiver between them
func FromRSSI(model pathloss.Model, a, b Vec2, rssiA, rssiB float64) (Vec2, error) {
	return LineConstrained(a, b, model.Distance(rssiA), model.Distance(rssiB))
}

// RoundDistance rounds a distance to centimeters, ties to even, for display
func RoundDistance(d float64) float64 {
	return math.RoundToEven(d*100) / 100
}
