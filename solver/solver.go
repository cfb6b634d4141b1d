package solver

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/notargets/gridfield/utils"
	"github.com/sirupsen/logrus"
)

var (
	ErrStepFailed      = errors.New("timestep failed")
	ErrNotInitialised  = errors.New("solver not initialised")
	ErrInvalidOptions  = errors.New("invalid solver options")
	ErrAlreadyStarted  = errors.New("solver already initialised")
	errPhysicsNotGiven = errors.New("physics function is nil")
)

// RHSFunc evaluates dydt = f(t, y) on the flat state.
type RHSFunc func(t float64, y, dydt []float64) error

// Integrator advances the flat state in time. Step integrates y from the
// current time to tout and returns the time reached.
type Integrator interface {
	Init(t0 float64, y []float64, rhs RHSFunc) error
	Step(tout float64, y []float64) (float64, error)
}

// PhysicsFunc computes the time derivatives of the registered variables
// from their current values.
type PhysicsFunc func(t float64) error

// MonitorFunc is called after each output step. Returning true ends the
// run.
type MonitorFunc func(t float64, iter, nout int) bool

// Options controls the output schedule and the built-in integrator.
type Options struct {
	NOut     int     `mapstructure:"nout"`      // Number of output steps
	TimeStep float64 `mapstructure:"timestep"`  // Time between outputs
	Dt       float64 `mapstructure:"dt"`        // Internal step of LowStorageRK
	MaxSteps int     `mapstructure:"max_steps"` // Internal steps allowed per output
}

// Validate rejects negative counts and non-positive output intervals.
func (o Options) Validate() error {
	if o.NOut < 0 {
		return fmt.Errorf("%w: nout = %d", ErrInvalidOptions, o.NOut)
	}
	if o.TimeStep <= 0 {
		return fmt.Errorf("%w: timestep = %g", ErrInvalidOptions, o.TimeStep)
	}
	if o.Dt < 0 || o.MaxSteps < 0 {
		return fmt.Errorf("%w: dt = %g, max_steps = %d", ErrInvalidOptions, o.Dt, o.MaxSteps)
	}
	return nil
}

// Solver couples a Packer to an Integrator: the integrator sees only the
// flat state, the physics sees only fields.
type Solver struct {
	p     *Packer
	integ Integrator
	opts  Options
	log   logrus.FieldLogger

	RunID uuid.UUID

	physics PhysicsFunc
	y       []float64

	simtime   float64
	iteration int

	rhsCalls int
	rhsTime  time.Duration

	initialised bool
}

// NewSolver returns a solver for the variables registered in p. A nil
// logger means the standard logrus logger.
func NewSolver(p *Packer, integ Integrator, opts Options, log logrus.FieldLogger) *Solver {
	if log == nil {
		log = logrus.StandardLogger()
	}
	id := uuid.New()
	return &Solver{
		p:     p,
		integ: integ,
		opts:  opts,
		log:   log.WithField("run_id", id.String()),
		RunID: id,
	}
}

// Init takes the initial state from the registered variables and sets up
// the integrator. An unset variable at this point is fatal.
func (s *Solver) Init(physics PhysicsFunc, t0 float64) error {
	if s.initialised {
		return ErrAlreadyStarted
	}
	if physics == nil {
		return errPhysicsNotGiven
	}
	if err := s.opts.Validate(); err != nil {
		return err
	}

	localN := s.p.LocalSize()
	s.log.WithFields(logrus.Fields{
		"n3d":     s.p.N3D(),
		"n2d":     s.p.N2D(),
		"local_n": localN,
	}).Info("Initialising solver")

	s.physics = physics
	s.y = make([]float64, localN)
	if err := s.p.Save(s.y); err != nil {
		utils.Fatalf("initial variable value not set: %v", err)
	}

	if err := s.integ.Init(t0, s.y, s.rhs); err != nil {
		return fmt.Errorf("integrator init: %w", err)
	}
	s.simtime = t0
	s.initialised = true
	return nil
}

// rhs is the integrator callback.
func (s *Solver) rhs(t float64, y, dydt []float64) error {
	start := time.Now()
	defer func() {
		s.rhsTime += time.Since(start)
		s.rhsCalls++
	}()

	if err := s.p.Load(y); err != nil {
		return err
	}
	if err := s.physics(t); err != nil {
		return fmt.Errorf("physics at t=%g: %w", t, err)
	}
	return s.p.SaveDerivatives(dydt)
}

// advance integrates to tout and returns the time reached. The fields are
// left holding the final state and the physics is evaluated once more so
// auxiliary quantities match it.
func (s *Solver) advance(tout float64) (float64, error) {
	s.rhsCalls = 0
	s.rhsTime = 0

	t, err := s.integ.Step(tout, s.y)

	if lerr := s.p.Load(s.y); lerr != nil {
		return t, fmt.Errorf("could not load state: %w", lerr)
	}
	start := time.Now()
	perr := s.physics(t)
	s.rhsTime += time.Since(start)
	s.rhsCalls++

	if err != nil {
		return t, fmt.Errorf("integrator step to %g: %w", tout, err)
	}
	if perr != nil {
		return t, fmt.Errorf("physics at t=%g: %w", t, perr)
	}
	return t, nil
}

// Run advances NOut output steps of length TimeStep, calling monitor after
// each one.
func (s *Solver) Run(monitor MonitorFunc) error {
	if !s.initialised {
		return ErrNotInitialised
	}

	for i := 0; i < s.opts.NOut; i++ {
		t, err := s.advance(s.simtime + s.opts.TimeStep)
		s.iteration++

		if err != nil {
			s.log.WithError(err).WithField("iteration", s.iteration).Error("Timestep failed. Aborting")
			return fmt.Errorf("output %d: %w: %w", i, ErrStepFailed, err)
		}
		s.simtime = t

		s.log.WithFields(logrus.Fields{
			"t":         t,
			"iteration": s.iteration,
			"rhs_calls": s.rhsCalls,
			"rhs_time":  s.rhsTime,
		}).Debug("output step")

		if monitor != nil && monitor(t, i, s.opts.NOut) {
			s.log.Info("Monitor signalled to quit. Returning")
			break
		}
	}
	return nil
}

// Time is the simulation time reached so far.
func (s *Solver) Time() float64 { return s.simtime }

// Iteration is the number of output steps taken.
func (s *Solver) Iteration() int { return s.iteration }

// RHSStats returns the number of physics evaluations and the time spent in
// them during the last output step.
func (s *Solver) RHSStats() (int, time.Duration) { return s.rhsCalls, s.rhsTime }

// State returns the flat state vector.
func (s *Solver) State() []float64 { return s.y }
