package main

import (
	"math"

	"github.com/notargets/gridfield/field"
	"github.com/notargets/gridfield/geometry"
	"github.com/notargets/gridfield/mesh"
	"github.com/notargets/gridfield/solver"
	"github.com/notargets/gridfield/vector"
	"github.com/sirupsen/logrus"
)

// Demo model parameters
const (
	SourceWidth  = 0.1 // Width of the inner x source region
	SourceLength = 0.3
	HotThreshold = 1.5 // T above this damps density at the full rate
	ColdDamping  = 0.5
	TRelax       = 0.1 // Relaxation rate of T towards 1
	UDamping     = 0.2 // Damping rate of the drift velocity
	Drift        = 0.5 // Initial drift in x
)

// driftModel is a damped density n advected in z by the x component of a
// drift velocity u, fed by a source near the inner x edge:
//
//	dn/dt = S(x) - nu(T) n - u_x dn/dz
//	dT/dt = -TRelax (T - 1)
//	du/dt = -UDamping u
type driftModel struct {
	m *mesh.Mesh
	g *geometry.Metric

	n, dn  *field.Field3D
	T, dT  *field.Field2D
	u, du  *vector.Vector2D
	source *field.Field2D
}

func newDriftModel(m *mesh.Mesh) *driftModel {
	g := geometry.NewIdentity(m)
	d := &driftModel{
		m:  m,
		g:  g,
		n:  field.NewField3D(m),
		dn: field.NewField3D(m),
		T:  field.NewField2D(m),
		dT: field.NewField2D(m),
		u:  vector.NewVector2D(g),
		du: vector.NewVector2D(g),
	}
	d.n.SetLocation(field.CellCentre)

	nz := m.LocalNz()
	for jx := 0; jx < m.LocalNx(); jx++ {
		for jy := 0; jy < m.LocalNy(); jy++ {
			row := d.n.Row(jx, jy)
			for jz := range row {
				row[jz] = 1 + 0.1*math.Cos(2*math.Pi*float64(jz)/float64(nz))
			}
			d.T.Set(jx, jy, 1+m.GlobalX(jx))
		}
	}
	d.u.X.SetValue(Drift)
	d.u.Y.SetValue(0)
	d.u.Z.SetValue(0)

	d.source = field.SourceTanhX(d.T, SourceWidth, SourceLength)
	return d
}

func (d *driftModel) register(p *solver.Packer) error {
	if err := p.Add3D("n", d.n, d.dn); err != nil {
		return err
	}
	if err := p.Add2D("T", d.T, d.dT); err != nil {
		return err
	}
	return p.AddVector2D("u", d.u, d.du)
}

// ddz is the periodic central difference in z.
func (d *driftModel) ddz(f *field.Field3D) *field.Field3D {
	r := field.NewField3D(d.m)
	r.SetLocation(f.Location())
	dz2 := 2 * d.m.Dz()
	var s field.Stencil
	for jx := 0; jx < d.m.LocalNx(); jx++ {
		for jy := 0; jy < d.m.LocalNy(); jy++ {
			for jz := 0; jz < d.m.LocalNz(); jz++ {
				f.SetZStencil(&s, field.NewBIndex(d.m, jx, jy, jz))
				r.Set(jx, jy, jz, (s.P-s.M)/dz2)
			}
		}
	}
	return r
}

func (d *driftModel) physics(float64) error {
	nu := field.Where2DScalar(d.T.SubScalar(HotThreshold), d.T, ColdDamping)

	d.dn.Assign(d.source.Sub3D(nu.Mul3D(d.n)))
	d.dn.SubAssign(d.ddz(d.n).MulAssign2D(d.u.X))

	d.dT.Assign(d.T.SubScalar(1).MulScalarAssign(-TRelax))
	d.du.Assign(d.u.MulScalar(-UDamping))
	return nil
}

// monitor logs the z-averaged density range and the peak density on the
// first interior y plane.
func (d *driftModel) monitor(log logrus.FieldLogger, s *solver.Solver) solver.MonitorFunc {
	return func(t float64, iter, nout int) bool {
		perp := d.n.Slice(d.m.MYG)
		peak := perp.MaxAbs()
		perp.Release()

		dc := d.n.DC()
		calls, elapsed := s.RHSStats()
		log.WithFields(logrus.Fields{
			"t":         t,
			"output":    iter + 1,
			"nout":      nout,
			"n_dc_min":  dc.Min(),
			"n_dc_max":  dc.Max(),
			"n_peak":    peak,
			"rhs_calls": calls,
			"rhs_time":  elapsed,
		}).Info("output")
		return false
	}
}
