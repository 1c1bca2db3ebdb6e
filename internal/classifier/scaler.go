package classifier

import "math"

// standardScaler centers each feature on zero mean and unit variance,
// with variance taken over the full fitting set (population form).
// Constant features keep scale 1 so they collapse to zero instead of
// dividing by zero. Fields are exported for serialization.
type standardScaler struct {
	Mean  []float64
	Scale []float64
}

// fitScaler computes per-feature statistics over the given matrix
func fitScaler(X [][]float64) *standardScaler {
	if len(X) == 0 {
		return &standardScaler{}
	}
	width := len(X[0])
	mean := make([]float64, width)
	scale := make([]float64, width)

	for _, row := range X {
		for j, v := range row {
			mean[j] += v
		}
	}
	n := float64(len(X))
	for j := range mean {
		mean[j] /= n
	}

	for _, row := range X {
		for j, v := range row {
			d := v - mean[j]
			scale[j] += d * d
		}
	}
	for j := range scale {
		scale[j] = math.Sqrt(scale[j] / n)
		if scale[j] == 0 {
			scale[j] = 1
		}
	}
	return &standardScaler{Mean: mean, Scale: scale}
}

// TransformRow standardizes one feature vector
func (s *standardScaler) TransformRow(x []float64) []float64 {
	out := make([]float64, len(x))
	for j, v := range x {
		out[j] = (v - s.Mean[j]) / s.Scale[j]
	}
	return out
}

// Transform standardizes a matrix row by row
func (s *standardScaler) Transform(X [][]float64) [][]float64 {
	out := make([][]float64, len(X))
	for i, row := range X {
		out[i] = s.TransformRow(row)
	}
	return out
}
