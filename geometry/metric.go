// Package geometry holds the metric tensor of the local grid. The metric is
// filled once when the grid is set up and only read afterwards; vectors
// receive it explicitly.
package geometry

import (
	"fmt"
	"math"

	"github.com/notargets/gridfield/field"
	"github.com/notargets/gridfield/mesh"
	"gonum.org/v1/gonum/mat"
)

// Metric stores the contravariant tensor g^{ij} (G11..G23), the covariant
// tensor g_{ij} (G_11..G_23) and the Jacobian J at every (x,y) point.
type Metric struct {
	m *mesh.Mesh

	// Contravariant components g^{ij}
	G11, G22, G33, G12, G13, G23 *field.Field2D

	// Covariant components g_{ij}
	G_11, G_22, G_33, G_12, G_13, G_23 *field.Field2D

	J *field.Field2D
}

// New returns a metric with every component zero.
func New(m *mesh.Mesh) *Metric {
	nf := func() *field.Field2D {
		f := field.NewField2D(m)
		f.Allocate()
		return f
	}
	return &Metric{
		m:   m,
		G11: nf(), G22: nf(), G33: nf(), G12: nf(), G13: nf(), G23: nf(),
		G_11: nf(), G_22: nf(), G_33: nf(), G_12: nf(), G_13: nf(), G_23: nf(),
		J: nf(),
	}
}

// NewIdentity returns an orthonormal metric with J = 1.
func NewIdentity(m *mesh.Mesh) *Metric {
	g := New(m)
	for _, f := range []*field.Field2D{g.G11, g.G22, g.G33, g.G_11, g.G_22, g.G_33, g.J} {
		f.SetValue(1)
	}
	return g
}

func (g *Metric) Mesh() *mesh.Mesh { return g.m }

func (g *Metric) contravariant() [6]*field.Field2D {
	return [6]*field.Field2D{g.G11, g.G22, g.G33, g.G12, g.G13, g.G23}
}

func (g *Metric) covariant() [6]*field.Field2D {
	return [6]*field.Field2D{g.G_11, g.G_22, g.G_33, g.G_12, g.G_13, g.G_23}
}

// at loads a symmetric tensor at point i of the flat 2D index.
func at(c [6]*field.Field2D, i int) *mat.SymDense {
	v := func(k int) float64 { return c[k].Data()[i] }
	return mat.NewSymDense(3, []float64{
		v(0), v(3), v(4),
		v(3), v(1), v(5),
		v(4), v(5), v(2),
	})
}

func store(c [6]*field.Field2D, i int, s *mat.SymDense) {
	c[0].Data()[i] = s.At(0, 0)
	c[1].Data()[i] = s.At(1, 1)
	c[2].Data()[i] = s.At(2, 2)
	c[3].Data()[i] = s.At(0, 1)
	c[4].Data()[i] = s.At(0, 2)
	c[5].Data()[i] = s.At(1, 2)
}

func (g *Metric) point(i int) (jx, jy int) {
	ny := g.m.LocalNy()
	return i / ny, i % ny
}

// invert writes the inverse of src into dst at every point.
func (g *Metric) invert(src, dst [6]*field.Field2D, what string) error {
	var (
		chol mat.Cholesky
		inv  mat.SymDense
	)
	npts := g.m.LocalNx() * g.m.LocalNy()
	for i := 0; i < npts; i++ {
		if ok := chol.Factorize(at(src, i)); !ok {
			jx, jy := g.point(i)
			return fmt.Errorf("%s: metric not positive definite at (%d,%d)", what, jx, jy)
		}
		if err := chol.InverseTo(&inv); err != nil {
			jx, jy := g.point(i)
			return fmt.Errorf("%s: inversion failed at (%d,%d): %w", what, jx, jy, err)
		}
		store(dst, i, &inv)
	}
	return nil
}

// CalcCovariant sets g_{ij} to the inverse of g^{ij}.
func (g *Metric) CalcCovariant() error {
	return g.invert(g.contravariant(), g.covariant(), "CalcCovariant")
}

// CalcContravariant sets g^{ij} to the inverse of g_{ij}.
func (g *Metric) CalcContravariant() error {
	return g.invert(g.covariant(), g.contravariant(), "CalcContravariant")
}

// CalcJacobian sets J = 1/sqrt(det g^{ij}).
func (g *Metric) CalcJacobian() error {
	c := g.contravariant()
	jd := g.J.Data()
	for i := range jd {
		det := mat.Det(at(c, i))
		if det <= 0 {
			jx, jy := g.point(i)
			return fmt.Errorf("CalcJacobian: det g^ij = %g at (%d,%d)", det, jx, jy)
		}
		jd[i] = 1 / math.Sqrt(det)
	}
	return nil
}

// Check verifies g^{ij} g_{jk} = delta^i_k at every point within tol.
func (g *Metric) Check(tol float64) error {
	var prod mat.Dense
	id := mat.NewDiagDense(3, []float64{1, 1, 1})
	c, cv := g.contravariant(), g.covariant()
	npts := g.m.LocalNx() * g.m.LocalNy()
	for i := 0; i < npts; i++ {
		prod.Mul(at(c, i), at(cv, i))
		if !mat.EqualApprox(&prod, id, tol) {
			jx, jy := g.point(i)
			return fmt.Errorf("metric inconsistent at (%d,%d): g^ij g_jk =\n%v",
				jx, jy, mat.Formatted(&prod, mat.Prefix("  ")))
		}
	}
	return nil
}
