package simdata

import "math"

// Interpolator decides how far between two bounding records a requested
// time lies. Records do the blending themselves (see Lerper).
type Interpolator interface {
	// Factor returns the weight of the high record at time t, for
	// low <= t <= high. 0 selects the low record, 1 the high one.
	Factor(low, t, high float64) float64
}

// Lerper is implemented by record types that support interpolation. The
// receiver is the low bounding record.
type Lerper[T any] interface {
	LerpInto(out, next T, time, factor float64)
}

// LinearInterpolator blends proportionally to elapsed time.
type LinearInterpolator struct{}

func (LinearInterpolator) Factor(low, t, high float64) float64 {
	return LinearFactor(low, t, high)
}

// LinearFactor is the time ratio (t-low)/(high-low), 0 for a degenerate span.
func LinearFactor(low, t, high float64) float64 {
	span := high - low
	if span == 0 {
		return 0
	}
	return (t - low) / span
}

// NearestNeighborInterpolator snaps to whichever bound is closer.
type NearestNeighborInterpolator struct{}

func (NearestNeighborInterpolator) Factor(low, t, high float64) float64 {
	if LinearFactor(low, t, high) < 0.5 {
		return 0
	}
	return 1
}

func lerp(a, b, f float64) float64 {
	return a + (b-a)*f
}

// lerpPositive keeps a when either bound is not positive.
func lerpPositive(a, b, f float64) float64 {
	if a <= 0 || b <= 0 {
		return a
	}
	return lerp(a, b, f)
}

// lerpAngle interpolates two angles in radians along the shorter arc. The
// result is in [0, 2pi).
func lerpAngle(a, b, f float64) float64 {
	lo := fix2Pi(a)
	hi := fix2Pi(b)
	delta := hi - lo
	var out float64
	switch {
	case delta == 0:
		out = lo
	case math.Abs(delta) < math.Pi:
		out = lo + f*delta
	case delta > 0:
		out = lo - f*(2*math.Pi-delta)
	default:
		out = lo + f*(2*math.Pi+delta)
	}
	return fix2Pi(out)
}

// lerpAnglePI is lerpAngle with the result in (-pi, pi], for elevation,
// pitch and roll.
func lerpAnglePI(a, b, f float64) float64 {
	return fixPi(lerpAngle(a, b, f))
}

func fixPi(a float64) float64 {
	a = fix2Pi(a)
	if a > math.Pi {
		a -= 2 * math.Pi
	}
	return a
}

func fix2Pi(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}
