package field

// Where selects pointwise between two values: the first wherever test > 0
// and the second elsewhere, over the whole local array including ghost
// cells. test is always a Field2D; a 3D result applies the same choice to
// every z point of a column.

func where3D(test *Field2D, gt0, le0 func(i, jz int) float64) *Field3D {
	m := test.Mesh()
	r := NewField3D(m)
	r.Allocate()
	nz := m.LocalNz()
	for i, t := range test.Data() {
		row := r.data[i*nz : (i+1)*nz]
		pick := le0
		if t > 0 {
			pick = gt0
		}
		for jz := range row {
			row[jz] = pick(i, jz)
		}
	}
	return r
}

func from3D(f *Field3D) func(i, jz int) float64 {
	d, nz := f.Data(), f.Mesh().LocalNz()
	return func(i, jz int) float64 { return d[i*nz+jz] }
}

func from2D(f *Field2D) func(i, jz int) float64 {
	d := f.Data()
	return func(i, _ int) float64 { return d[i] }
}

func constant(v float64) func(i, jz int) float64 {
	return func(_, _ int) float64 { return v }
}

func Where3D3D(test *Field2D, gt0, le0 *Field3D) *Field3D {
	sameGrid("where", test.m, gt0.m)
	sameGrid("where", test.m, le0.m)
	return where3D(test, from3D(gt0), from3D(le0))
}

func Where3DScalar(test *Field2D, gt0 *Field3D, le0 float64) *Field3D {
	sameGrid("where", test.m, gt0.m)
	return where3D(test, from3D(gt0), constant(le0))
}

func WhereScalar3D(test *Field2D, gt0 float64, le0 *Field3D) *Field3D {
	sameGrid("where", test.m, le0.m)
	return where3D(test, constant(gt0), from3D(le0))
}

func Where3D2D(test *Field2D, gt0 *Field3D, le0 *Field2D) *Field3D {
	sameGrid("where", test.m, gt0.m)
	sameGrid("where", test.m, le0.m)
	return where3D(test, from3D(gt0), from2D(le0))
}

func Where2D3D(test *Field2D, gt0 *Field2D, le0 *Field3D) *Field3D {
	sameGrid("where", test.m, gt0.m)
	sameGrid("where", test.m, le0.m)
	return where3D(test, from2D(gt0), from3D(le0))
}

func where2D(test *Field2D, gt0, le0 func(i, jz int) float64) *Field2D {
	r := NewField2D(test.Mesh())
	r.Allocate()
	for i, t := range test.Data() {
		if t > 0 {
			r.data[i] = gt0(i, 0)
		} else {
			r.data[i] = le0(i, 0)
		}
	}
	return r
}

func Where2D2D(test, gt0, le0 *Field2D) *Field2D {
	sameGrid("where", test.m, gt0.m)
	sameGrid("where", test.m, le0.m)
	return where2D(test, from2D(gt0), from2D(le0))
}

func Where2DScalar(test, gt0 *Field2D, le0 float64) *Field2D {
	sameGrid("where", test.m, gt0.m)
	return where2D(test, from2D(gt0), constant(le0))
}

func WhereScalar2D(test *Field2D, gt0 float64, le0 *Field2D) *Field2D {
	sameGrid("where", test.m, le0.m)
	return where2D(test, constant(gt0), from2D(le0))
}
