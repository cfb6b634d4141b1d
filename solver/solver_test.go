package solver

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/notargets/gridfield/field"
	"github.com/notargets/gridfield/utils"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type decay struct {
	p      *Packer
	n, dn  *field.Field3D
	t2, dt *field.Field2D
}

// newDecay sets up dn/dt = -n and dT/dt = 1.
func newDecay(t *testing.T) *decay {
	m := testMesh()
	d := &decay{
		p:  NewPacker(m),
		n:  field.NewField3DValue(m, 1),
		dn: field.NewField3D(m),
		t2: field.NewField2DValue(m, 1),
		dt: field.NewField2D(m),
	}
	require.NoError(t, d.p.Add3D("n", d.n, d.dn))
	require.NoError(t, d.p.Add2D("T", d.t2, d.dt))
	return d
}

func (d *decay) physics(float64) error {
	d.dn.Assign(d.n.Neg())
	d.dt.SetValue(1)
	return nil
}

func testOptions() Options {
	return Options{NOut: 4, TimeStep: 0.25, Dt: 0.01}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(o *Options)
		ok     bool
	}{
		{"valid", func(o *Options) {}, true},
		{"no outputs", func(o *Options) { o.NOut = 0 }, true},
		{"negative nout", func(o *Options) { o.NOut = -1 }, false},
		{"zero timestep", func(o *Options) { o.TimeStep = 0 }, false},
		{"negative dt", func(o *Options) { o.Dt = -1 }, false},
		{"negative max steps", func(o *Options) { o.MaxSteps = -2 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := testOptions()
			tt.modify(&o)
			err := o.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, ErrInvalidOptions))
			}
		})
	}
}

func TestSolverRun(t *testing.T) {
	d := newDecay(t)
	opts := testOptions()
	log, hook := test.NewNullLogger()
	s := NewSolver(d.p, NewLowStorageRK(opts), opts, log)

	require.NoError(t, s.Init(d.physics, 0))
	assert.Len(t, s.State(), d.p.LocalSize())

	var times []float64
	var iters []int
	require.NoError(t, s.Run(func(tm float64, iter, nout int) bool {
		times = append(times, tm)
		iters = append(iters, iter)
		assert.Equal(t, 4, nout)
		return false
	}))

	assert.Equal(t, []int{0, 1, 2, 3}, iters)
	assert.InDeltaSlice(t, []float64{0.25, 0.5, 0.75, 1}, times, 1e-12)
	assert.InDelta(t, 1.0, s.Time(), 1e-12)
	assert.Equal(t, 4, s.Iteration())

	// Fields hold the final state
	assert.InDelta(t, math.Exp(-1), d.n.At(2, 1, 1), 1e-9)
	assert.InDelta(t, 2.0, d.t2.At(0, 1), 1e-12)
	assert.InDelta(t, -math.Exp(-1), d.dn.At(2, 1, 1), 1e-9, "physics run on the final state")

	calls, _ := s.RHSStats()
	assert.Equal(t, 25*5+1, calls)

	require.NotEmpty(t, hook.Entries)
	assert.Equal(t, "Initialising solver", hook.Entries[0].Message)
	assert.Equal(t, s.RunID.String(), hook.Entries[0].Data["run_id"])
	assert.Equal(t, d.p.LocalSize(), hook.Entries[0].Data["local_n"])
}

func TestSolverMonitorStops(t *testing.T) {
	d := newDecay(t)
	opts := testOptions()
	log, hook := test.NewNullLogger()
	s := NewSolver(d.p, NewLowStorageRK(opts), opts, log)
	require.NoError(t, s.Init(d.physics, 0))

	require.NoError(t, s.Run(func(_ float64, iter, _ int) bool { return iter == 1 }))
	assert.Equal(t, 2, s.Iteration())
	assert.InDelta(t, 0.5, s.Time(), 1e-12)
	assert.Equal(t, "Monitor signalled to quit. Returning", hook.LastEntry().Message)
}

func TestSolverStepFailure(t *testing.T) {
	d := newDecay(t)
	opts := testOptions()
	log, hook := test.NewNullLogger()
	s := NewSolver(d.p, NewLowStorageRK(opts), opts, log)

	physics := func(tm float64) error {
		if tm > 0.3 {
			return fmt.Errorf("blew up")
		}
		return d.physics(tm)
	}
	require.NoError(t, s.Init(physics, 0))

	err := s.Run(nil)
	assert.True(t, errors.Is(err, ErrStepFailed))
	assert.Equal(t, 2, s.Iteration())
	assert.InDelta(t, 0.25, s.Time(), 1e-12)
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.Equal(t, "Timestep failed. Aborting", hook.LastEntry().Message)
}

func TestSolverNegativeStartTime(t *testing.T) {
	m := testMesh()
	p := NewPacker(m)
	a, da := field.NewField2DValue(m, 3), field.NewField2D(m)
	require.NoError(t, p.Add2D("a", a, da))

	opts := Options{NOut: 4, TimeStep: 0.5, Dt: 0.1}
	log, _ := test.NewNullLogger()
	s := NewSolver(p, NewLowStorageRK(opts), opts, log)
	require.NoError(t, s.Init(func(float64) error {
		da.SetValue(0)
		return nil
	}, -10))

	var times []float64
	require.NoError(t, s.Run(func(tm float64, _, _ int) bool {
		times = append(times, tm)
		return false
	}))
	assert.InDeltaSlice(t, []float64{-9.5, -9, -8.5, -8}, times, 1e-12)
	assert.InDelta(t, -8.0, s.Time(), 1e-12)
	assert.Equal(t, 3.0, a.At(1, 1))
}

func TestSolverStepFailureWraps(t *testing.T) {
	d := newDecay(t)
	opts := testOptions()
	opts.MaxSteps = 2
	log, _ := test.NewNullLogger()
	s := NewSolver(d.p, NewLowStorageRK(opts), opts, log)
	require.NoError(t, s.Init(d.physics, 0))

	err := s.Run(nil)
	assert.True(t, errors.Is(err, ErrStepFailed))
	assert.True(t, errors.Is(err, ErrMaxSteps))
	assert.Equal(t, 1, s.Iteration())
	assert.Equal(t, 0.0, s.Time())
}

func TestSolverInit(t *testing.T) {
	opts := testOptions()
	log, _ := test.NewNullLogger()

	t.Run("run before init", func(t *testing.T) {
		d := newDecay(t)
		s := NewSolver(d.p, NewLowStorageRK(opts), opts, log)
		assert.True(t, errors.Is(s.Run(nil), ErrNotInitialised))
	})

	t.Run("twice", func(t *testing.T) {
		d := newDecay(t)
		s := NewSolver(d.p, NewLowStorageRK(opts), opts, log)
		require.NoError(t, s.Init(d.physics, 0))
		assert.True(t, errors.Is(s.Init(d.physics, 0), ErrAlreadyStarted))
	})

	t.Run("nil physics", func(t *testing.T) {
		d := newDecay(t)
		assert.Error(t, NewSolver(d.p, NewLowStorageRK(opts), opts, log).Init(nil, 0))
	})

	t.Run("bad integrator step", func(t *testing.T) {
		d := newDecay(t)
		bad := opts
		bad.Dt = 0
		assert.Error(t, NewSolver(d.p, NewLowStorageRK(bad), bad, log).Init(d.physics, 0))
	})

	t.Run("unset variable is fatal", func(t *testing.T) {
		m := testMesh()
		p := NewPacker(m)
		require.NoError(t, p.Add3D("n", field.NewField3D(m), field.NewField3D(m)))
		s := NewSolver(p, NewLowStorageRK(opts), opts, log)

		defer func() {
			r := recover()
			require.True(t, utils.IsFatal(r), "expected fatal error, got %v", r)
			assert.Contains(t, r.(*utils.FatalError).Msg, "initial variable value not set")
		}()
		_ = s.Init(func(float64) error { return nil }, 0)
	})

	t.Run("default logger", func(t *testing.T) {
		d := newDecay(t)
		s := NewSolver(d.p, NewLowStorageRK(opts), opts, nil)
		assert.NotNil(t, s.log)
	})
}
