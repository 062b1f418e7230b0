package neat

import "math"

// Sigmoid is the logistic squash applied to every hidden and output node sum.
// Sensor values are never squashed.
func Sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}
