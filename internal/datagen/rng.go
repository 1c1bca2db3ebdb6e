package datagen

import (
	"math"
	"math/rand"
)

// sampler draws from the distributions used by the generator. All draws
// come from a single seeded source, so a fixed seed yields a fixed
// sequence regardless of which distribution is asked for.
type sampler struct {
	rng *rand.Rand
}

func newSampler(seed int64) *sampler {
	return &sampler{rng: rand.New(rand.NewSource(seed))}
}

// Intn returns a uniform integer in [0, n)
func (s *sampler) Intn(n int) int {
	return s.rng.Intn(n)
}

// Uniform returns a uniform real in [min, max)
func (s *sampler) Uniform(min, max float64) float64 {
	return min + (max-min)*s.rng.Float64()
}

// Normal returns a draw from N(mean, stddev²)
func (s *sampler) Normal(mean, stddev float64) float64 {
	return mean + stddev*s.rng.NormFloat64()
}

// Poisson returns a draw from Poisson(lambda) using Knuth's product
// method. Fine for the small rates used here.
func (s *sampler) Poisson(lambda float64) int {
	limit := math.Exp(-lambda)
	k := 0
	p := 1.0
	for {
		p *= s.rng.Float64()
		if p <= limit {
			return k
		}
		k++
	}
}

// Beta returns a draw from Beta(alpha, beta) as Ga/(Ga+Gb) with two
// unit-scale gamma draws.
func (s *sampler) Beta(alpha, beta float64) float64 {
	ga := s.gamma(alpha)
	gb := s.gamma(beta)
	if ga+gb == 0 {
		return 0
	}
	return ga / (ga + gb)
}

// gamma draws from Gamma(shape, 1) via the Marsaglia-Tsang squeeze.
// Shapes below 1 are boosted and corrected with a uniform power.
func (s *sampler) gamma(shape float64) float64 {
	if shape < 1 {
		u := s.rng.Float64()
		return s.gamma(shape+1) * math.Pow(u, 1/shape)
	}

	d := shape - 1.0/3.0
	c := 1.0 / math.Sqrt(9.0*d)
	for {
		x := s.rng.NormFloat64()
		v := 1.0 + c*x
		if v <= 0 {
			continue
		}
		v = v * v * v
		u := s.rng.Float64()
		if u < 1.0-0.0331*x*x*x*x {
			return d * v
		}
		if math.Log(u) < 0.5*x*x+d*(1.0-v+math.Log(v)) {
			return d * v
		}
	}
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
