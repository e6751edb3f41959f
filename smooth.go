package plus

import "math"

// softmin0 is a concave approximation of min(z,0). eps > 0 is the squared
// smoothing width; smaller is sharper. It only feeds the Newton Jacobian,
// never the residual.
func softmin0(z, eps float64) float64 {
	return (z - math.Sqrt(z*z+eps)) / 2
}

func dsoftmin0(z, eps float64) float64 {
	return (1 - z/math.Sqrt(z*z+eps)) / 2
}

// sign returns -1, 0 or 1.
func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
