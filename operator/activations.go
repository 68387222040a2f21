package operator

import "math"

// activate applies the activation function to a single value.
func activate(v float64, a Activation) float64 {
	switch a {
	case ActivationReLU:
		if v < 0 {
			return 0
		}
		return v
	case ActivationGELU:
		return 0.5 * v * (1 + math.Erf(v/math.Sqrt2))
	case ActivationTanh:
		return math.Tanh(v)
	case ActivationSigmoid:
		return 1.0 / (1.0 + math.Exp(-v))
	default:
		return v
	}
}

// activateSlice applies the activation function in place.
func activateSlice(v []float64, a Activation) {
	if a == ActivationIdentity {
		return
	}
	for i := range v {
		v[i] = activate(v[i], a)
	}
}
