// Package solver moves the evolving fields of one processor into and out of
// the flat state vector used by a time integrator, and drives the
// integrator through a run.
package solver

import (
	"errors"
	"fmt"

	"github.com/notargets/gridfield/field"
	"github.com/notargets/gridfield/mesh"
	"github.com/notargets/gridfield/vector"
)

var (
	ErrRegistrationClosed = errors.New("variables cannot be added after the state has been packed")
	ErrNotAllocated       = errors.New("variable not allocated")
	ErrBufferSize         = errors.New("buffer length does not match local state size")
)

// Var2D is an evolving axisymmetric variable and its time derivative.
type Var2D struct {
	Name       string
	Var, Deriv *field.Field2D
}

// Var3D is an evolving 3D variable and its time derivative. Location is the
// cell location of Var when it was registered; derivatives are moved there
// before they are saved.
type Var3D struct {
	Name       string
	Var, Deriv *field.Field3D
	Location   field.CellLoc
}

// VarVector2D records the basis a vector variable is stored in.
type VarVector2D struct {
	Name       string
	Var, Deriv *vector.Vector2D
	Covariant  bool
}

// VarVector3D is the 3D counterpart of VarVector2D.
type VarVector3D struct {
	Name       string
	Var, Deriv *vector.Vector3D
	Covariant  bool
}

// Interpolator moves a field to another cell location.
type Interpolator interface {
	InterpTo(f *field.Field3D, loc field.CellLoc) *field.Field3D
}

// InterpolatorFunc adapts a function to Interpolator.
type InterpolatorFunc func(f *field.Field3D, loc field.CellLoc) *field.Field3D

func (fn InterpolatorFunc) InterpTo(f *field.Field3D, loc field.CellLoc) *field.Field3D {
	return fn(f, loc)
}

// Packer maps registered variables to and from a flat buffer. The layout
// is fixed by the mesh topology and the registration order; every Load,
// Save and SaveDerivatives uses the same traversal.
type Packer struct {
	m *mesh.Mesh

	f2d []Var2D
	f3d []Var3D
	v2d []VarVector2D
	v3d []VarVector3D

	names  map[string]bool
	closed bool

	interp Interpolator
}

// NewPacker returns an empty packer for mesh m. 3D derivatives are moved
// to their variable's location with field.InterpTo unless SetInterpolator
// says otherwise.
func NewPacker(m *mesh.Mesh) *Packer {
	return &Packer{
		m:      m,
		names:  make(map[string]bool),
		interp: InterpolatorFunc(field.InterpTo),
	}
}

// SetInterpolator replaces the interpolation used by SaveDerivatives.
func (p *Packer) SetInterpolator(in Interpolator) { p.interp = in }

// Mesh is the mesh fixing the packed layout.
func (p *Packer) Mesh() *mesh.Mesh { return p.m }

// N2D is the number of registered 2D scalars, vector components included.
func (p *Packer) N2D() int { return len(p.f2d) }

// N3D is the number of registered 3D scalars, vector components included.
func (p *Packer) N3D() int { return len(p.f3d) }

// Vars2D lists the 2D scalars in registration order, which is the order
// they are packed at each point. Vector components appear as separate
// entries. The slice is shared with the packer.
func (p *Packer) Vars2D() []Var2D { return p.f2d }

// Vars3D is Vars2D for the 3D scalars.
func (p *Packer) Vars3D() []Var3D { return p.f3d }

func (p *Packer) register(name string) error {
	if p.closed {
		return fmt.Errorf("%s: %w", name, ErrRegistrationClosed)
	}
	if name == "" {
		return fmt.Errorf("variable name must not be empty")
	}
	if p.names[name] {
		return fmt.Errorf("variable %q already registered", name)
	}
	p.names[name] = true
	return nil
}

func (p *Packer) checkMesh(name string, m *mesh.Mesh) error {
	if m.LocalNx() != p.m.LocalNx() || m.LocalNy() != p.m.LocalNy() || m.LocalNz() != p.m.LocalNz() {
		return fmt.Errorf("variable %q is not on the solver mesh", name)
	}
	return nil
}

// Add2D registers an evolving 2D variable and its time derivative.
func (p *Packer) Add2D(name string, f, df *field.Field2D) error {
	if f == nil || df == nil {
		return fmt.Errorf("variable %q: nil field", name)
	}
	if err := p.checkComponent(name, f.Mesh(), df.Mesh()); err != nil {
		return err
	}
	if err := p.register(name); err != nil {
		return err
	}
	p.f2d = append(p.f2d, Var2D{Name: name, Var: f, Deriv: df})
	return nil
}

// Add3D registers an evolving 3D variable and its time derivative. The
// current location of f becomes the declared location.
func (p *Packer) Add3D(name string, f, df *field.Field3D) error {
	if f == nil || df == nil {
		return fmt.Errorf("variable %q: nil field", name)
	}
	if err := p.checkComponent(name, f.Mesh(), df.Mesh()); err != nil {
		return err
	}
	if err := p.register(name); err != nil {
		return err
	}
	p.f3d = append(p.f3d, Var3D{Name: name, Var: f, Deriv: df, Location: f.Location()})
	return nil
}

// componentNames follows the usual convention: covariant components carry
// an underscore (v_x), contravariant ones do not (vx).
func componentNames(name string, covariant bool) [3]string {
	sep := ""
	if covariant {
		sep = "_"
	}
	return [3]string{name + sep + "x", name + sep + "y", name + sep + "z"}
}

// AddVector2D registers a vector variable. Its components are packed as
// three 2D scalars in the basis v has now.
func (p *Packer) AddVector2D(name string, v, dv *vector.Vector2D) error {
	if v == nil || dv == nil {
		return fmt.Errorf("variable %q: nil vector", name)
	}
	n := componentNames(name, v.Covariant)
	vs := [3]*field.Field2D{v.X, v.Y, v.Z}
	ds := [3]*field.Field2D{dv.X, dv.Y, dv.Z}
	for i := range n {
		if vs[i] == nil || ds[i] == nil {
			return fmt.Errorf("variable %q: nil field", n[i])
		}
		if err := p.checkComponent(n[i], vs[i].Mesh(), ds[i].Mesh()); err != nil {
			return err
		}
	}
	if err := p.checkNames(n); err != nil {
		return err
	}
	for i := range n {
		if err := p.Add2D(n[i], vs[i], ds[i]); err != nil {
			return err
		}
	}
	p.v2d = append(p.v2d, VarVector2D{Name: name, Var: v, Deriv: dv, Covariant: v.Covariant})
	return nil
}

// AddVector3D registers a 3D vector variable. Its components are packed as
// three 3D scalars in the basis v has now.
func (p *Packer) AddVector3D(name string, v, dv *vector.Vector3D) error {
	if v == nil || dv == nil {
		return fmt.Errorf("variable %q: nil vector", name)
	}
	n := componentNames(name, v.Covariant)
	vs := [3]*field.Field3D{v.X, v.Y, v.Z}
	ds := [3]*field.Field3D{dv.X, dv.Y, dv.Z}
	for i := range n {
		if vs[i] == nil || ds[i] == nil {
			return fmt.Errorf("variable %q: nil field", n[i])
		}
		if err := p.checkComponent(n[i], vs[i].Mesh(), ds[i].Mesh()); err != nil {
			return err
		}
	}
	if err := p.checkNames(n); err != nil {
		return err
	}
	for i := range n {
		if err := p.Add3D(n[i], vs[i], ds[i]); err != nil {
			return err
		}
	}
	p.v3d = append(p.v3d, VarVector3D{Name: name, Var: v, Deriv: dv, Covariant: v.Covariant})
	return nil
}

// checkComponent requires a variable and its derivative to be on the
// packer's mesh.
func (p *Packer) checkComponent(name string, m, dm *mesh.Mesh) error {
	if err := p.checkMesh(name, m); err != nil {
		return err
	}
	return p.checkMesh(name, dm)
}

// checkNames fails if registration is closed or any of the names is
// taken. With checkComponent it lets a vector be registered completely or
// not at all.
func (p *Packer) checkNames(names [3]string) error {
	if p.closed {
		return fmt.Errorf("%s: %w", names[0], ErrRegistrationClosed)
	}
	for _, n := range names {
		if p.names[n] {
			return fmt.Errorf("variable %q already registered", n)
		}
	}
	return nil
}

// LocalSize is the length of the flat state on this processor.
func (p *Packer) LocalSize() int {
	npts := 0
	p.points(func(_, _ int) { npts++ })
	return npts * (len(p.f2d) + len(p.f3d)*p.m.LocalNz())
}

func (p *Packer) checkBuffer(buf []float64) error {
	if n := p.LocalSize(); len(buf) != n {
		return fmt.Errorf("%w: got %d, want %d", ErrBufferSize, len(buf), n)
	}
	return nil
}

// Load copies buf into the variables. Fields are allocated as needed, 3D
// variables are put back at their declared location and vectors are marked
// as being in their declared basis.
func (p *Packer) Load(buf []float64) error {
	p.closed = true
	if err := p.checkBuffer(buf); err != nil {
		return err
	}
	for _, v := range p.f2d {
		v.Var.Allocate()
	}
	for _, v := range p.f3d {
		v.Var.Allocate()
		v.Var.SetLocation(v.Location)
	}

	p.loopVars(buf, loadVars)

	for _, v := range p.v2d {
		v.Var.Covariant = v.Covariant
	}
	for _, v := range p.v3d {
		v.Var.Covariant = v.Covariant
	}
	return nil
}

// Save copies the variables into buf. It fails before touching any data if
// a variable has never been set.
func (p *Packer) Save(buf []float64) error {
	p.closed = true
	if err := p.checkBuffer(buf); err != nil {
		return err
	}
	for _, v := range p.f2d {
		if !v.Var.IsAllocated() {
			return fmt.Errorf("%s: %w", v.Name, ErrNotAllocated)
		}
	}
	for _, v := range p.f3d {
		if !v.Var.IsAllocated() {
			return fmt.Errorf("%s: %w", v.Name, ErrNotAllocated)
		}
	}

	for _, v := range p.v2d {
		toBasis2D(v.Var, v.Covariant)
	}
	for _, v := range p.v3d {
		toBasis3D(v.Var, v.Covariant)
	}

	p.loopVars(buf, saveVars)
	return nil
}

// SaveDerivatives copies the time derivatives into buf, after putting
// derivative vectors in their declared basis and interpolating 3D
// derivatives to the location of their variable.
func (p *Packer) SaveDerivatives(buf []float64) error {
	p.closed = true
	if err := p.checkBuffer(buf); err != nil {
		return err
	}

	for _, v := range p.v2d {
		toBasis2D(v.Deriv, v.Covariant)
	}
	for _, v := range p.v3d {
		toBasis3D(v.Deriv, v.Covariant)
	}
	for _, v := range p.f3d {
		if v.Deriv.Location() != v.Location {
			v.Deriv.Assign(p.interp.InterpTo(v.Deriv, v.Location))
		}
	}

	p.loopVars(buf, saveDerivs)
	return nil
}

func toBasis2D(v *vector.Vector2D, covariant bool) {
	if covariant {
		v.ToCovariant()
	} else {
		v.ToContravariant()
	}
}

func toBasis3D(v *vector.Vector3D, covariant bool) {
	if covariant {
		v.ToCovariant()
	} else {
		v.ToContravariant()
	}
}
