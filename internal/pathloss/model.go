package pathloss

import (
	"math"
)

// Model is the log-distance path-loss model
//
//	distance = 10^((C - rssi) / (10·N))
//
// C is the RSSI at one meter and N the path-loss exponent.
type Model struct {
	C float64
	N float64
}

// DefaultInitial is the starting point used when no initial guess is given
var DefaultInitial = Model{C: -50, N: 2}

// Distance predicts the distance in meters for an RSSI reading in dBm
func (m Model) Distance(rssi float64) float64 {
	return math.Pow(10, m.exponent(rssi))
}

// RSSI is the inverse of Distance: the expected reading at distance meters
func (m Model) RSSI(distance float64) float64 {
	return m.C - 10*m.N*math.Log10(distance)
}

// Jacobian returns ∂Distance/∂C and ∂Distance/∂N at rssi
func (m Model) Jacobian(rssi float64) (dC, dN float64) {
	u := m.exponent(rssi)
	d := math.Pow(10, u)
	dC = d * math.Ln10 / (10 * m.N)
	dN = -d * math.Ln10 * u / m.N
	return dC, dN
}

func (m Model) exponent(rssi float64) float64 {
	return (m.C - rssi) / (10 * m.N)
}

func (m Model) params() []float64 {
	return []float64{m.C, m.N}
}

func modelFrom(p []float64) Model {
	return Model{C: p[0], N: p[1]}
}
