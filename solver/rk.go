package solver

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Five stage, fourth order low-storage Runge-Kutta coefficients
// (Carpenter and Kennedy).
var (
	rk4a = []float64{
		0.0,
		-567301805773.0 / 1357537059087.0,
		-2404267990393.0 / 2016746695238.0,
		-3550918686646.0 / 2091501179385.0,
		-1275806237668.0 / 842570457699.0,
	}
	rk4b = []float64{
		1432997174477.0 / 9575080441755.0,
		5161836677717.0 / 13612068292357.0,
		1720146321549.0 / 2090206949498.0,
		3134564353537.0 / 4481467310338.0,
		2277821191437.0 / 14882151754819.0,
	}
	rk4c = []float64{
		0.0,
		1432997174477.0 / 9575080441755.0,
		2526269341429.0 / 6820363183890.0,
		2006345519317.0 / 3224310063776.0,
		2802321613138.0 / 2924317926251.0,
	}
)

var (
	ErrNonFinite    = errors.New("state is not finite")
	ErrMaxSteps     = errors.New("too many internal steps")
	errNotSetUp     = errors.New("integrator not initialised")
	errInvalidSteps = errors.New("step size must be positive")
)

// LowStorageRK is a fixed-step explicit integrator. The last step before
// each output time is shortened to land on it exactly.
type LowStorageRK struct {
	Dt       float64
	MaxSteps int // Per Step call, 0 for no limit

	t    float64
	rhs  RHSFunc
	resu []float64
	rhsu []float64
}

// NewLowStorageRK takes Dt and MaxSteps from opts.
func NewLowStorageRK(opts Options) *LowStorageRK {
	return &LowStorageRK{Dt: opts.Dt, MaxSteps: opts.MaxSteps}
}

func (rk *LowStorageRK) Init(t0 float64, y []float64, rhs RHSFunc) error {
	if rk.Dt <= 0 {
		return fmt.Errorf("%w: dt = %g", errInvalidSteps, rk.Dt)
	}
	rk.t = t0
	rk.rhs = rhs
	rk.resu = make([]float64, len(y))
	rk.rhsu = make([]float64, len(y))
	return nil
}

func (rk *LowStorageRK) Step(tout float64, y []float64) (float64, error) {
	if rk.rhs == nil {
		return rk.t, errNotSetUp
	}
	steps := 0
	for rk.t < tout {
		if rk.MaxSteps > 0 && steps >= rk.MaxSteps {
			return rk.t, fmt.Errorf("%w: %d steps without reaching t=%g", ErrMaxSteps, steps, tout)
		}
		dt := math.Min(rk.Dt, tout-rk.t)
		if err := rk.step(dt, y); err != nil {
			return rk.t, err
		}
		steps++
		if tout-rk.t < 1e-12*rk.Dt {
			rk.t = tout
		}
	}
	return rk.t, nil
}

// step takes one step of size dt.
func (rk *LowStorageRK) step(dt float64, y []float64) error {
	for i := range rk.resu {
		rk.resu[i] = 0
	}
	for stage := 0; stage < 5; stage++ {
		if err := rk.rhs(rk.t+rk4c[stage]*dt, y, rk.rhsu); err != nil {
			return err
		}
		// resu = a*resu + b*dt*rhsu; y += resu
		floats.Scale(rk4a[stage], rk.resu)
		floats.AddScaled(rk.resu, rk4b[stage]*dt, rk.rhsu)
		floats.Add(y, rk.resu)
	}
	if floats.HasNaN(y) || math.IsInf(floats.Norm(y, math.Inf(1)), 0) {
		return fmt.Errorf("%w at t=%g", ErrNonFinite, rk.t+dt)
	}
	rk.t += dt
	return nil
}

// Time is the integrator's current time.
func (rk *LowStorageRK) Time() float64 { return rk.t }
