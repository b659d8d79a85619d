package bases

import (
	"testing"

	"github.com/notargets/spsr/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row3(m utils.Matrix, i int) (r [3]float64) {
	copy(r[:], m.Row(i))
	return
}

func relMatrix(rows ...[3]float64) (R utils.Matrix) {
	R = utils.NewMatrix(len(rows), 3)
	for i, r := range rows {
		for j := 0; j < 3; j++ {
			R.Set(i, j, r[j])
		}
	}
	return
}

func TestIntegrateGradGradPreconditions(t *testing.T) {
	var (
		b   = NewBezierBasis()
		rel = relMatrix([3]float64{0, 0, 0})
	)
	// Source stride may never exceed target stride
	for _, p := range [][2]int{{2, 1}, {4, 1}, {4, 2}, {8, 4}} {
		_, err := b.IntegrateGradGrad(rel, p[0], p[1])
		assert.ErrorIs(t, err, ErrInvalidArgument, "s=%d t=%d", p[0], p[1])
	}
	// Strides must be powers of two
	_, err := b.IntegrateGradGrad(rel, 3, 6)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = b.IntegrateGradGrad(rel, 1, 6)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = b.IntegrateGradGrad(rel, 0, 1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	// Ratio beyond the tabulated levels
	_, err = b.IntegrateGradGrad(rel, 1, 1<<20)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestIntegrateGradGradOutOfSupport(t *testing.T) {
	var (
		b = NewBezierBasis()
	)
	// Offsets beyond 4*targetStride on any axis are valid zero results
	rel := relMatrix(
		[3]float64{5, 0, 0},
		[3]float64{0, -5, 0},
		[3]float64{0, 0, 7},
		[3]float64{100, 100, 100},
	)
	res, err := b.IntegrateGradGrad(rel, 1, 1)
	require.NoError(t, err)
	for i := 0; i < res.Len(); i++ {
		assert.Equal(t, 0., res.AtVec(i))
	}
	rel = relMatrix(
		[3]float64{8.5, 0.5, 0.5},
		[3]float64{0.5, -8.5, 0.5},
	)
	res, err = b.IntegrateGradGrad(rel, 1, 2)
	require.NoError(t, err)
	for i := 0; i < res.Len(); i++ {
		assert.Equal(t, 0., res.AtVec(i))
	}
}

func TestIntegrateGradGradSelfEnergy(t *testing.T) {
	var (
		b   = NewBezierBasis()
		rel = relMatrix([3]float64{0, 0, 0})
	)
	res, err := b.IntegrateGradGrad(rel, 1, 1)
	require.NoError(t, err)
	// Tabulated self energy at level 0, center index: 3 * 4 * 2.2^2
	assert.InDelta(t, 58.08, res.AtVec(0), 1.e-12)

	// At equal strides s the self energy scales linearly with s
	res, err = b.IntegrateGradGrad(rel, 2, 2)
	require.NoError(t, err)
	assert.InDelta(t, 2*58.08, res.AtVec(0), 1.e-12)
}

func TestIntegrateGradGradSymmetry(t *testing.T) {
	var (
		b = NewBezierBasis()
	)
	rel := relMatrix(
		[3]float64{1, -2, 0},
		[3]float64{-1, 2, 0},
		[3]float64{2, 1, -1},
		[3]float64{-2, -1, 1},
	)
	res, err := b.IntegrateGradGrad(rel, 1, 1)
	require.NoError(t, err)
	assert.InDelta(t, res.AtVec(0), res.AtVec(1), 1.e-14)
	assert.InDelta(t, res.AtVec(2), res.AtVec(3), 1.e-14)
}

// gradGradQuadrature recomputes the separable grad·grad integral with
// direct 1D quadrature of the kernel products.
func gradGradQuadrature(rel [3]float64, s, ts int) float64 {
	var (
		m     = float64(ts) / float64(s)
		plain [3]float64
		deriv [3]float64
	)
	for ax := 0; ax < 3; ax++ {
		r := rel[ax]
		plain[ax] = float64(s) * simpson(func(u float64) float64 {
			return EvalKernel1D(u) * EvalKernel1D((u-r)/m)
		}, -1.5, 1.5, 3000)
		deriv[ax] = simpson(func(u float64) float64 {
			return EvalKernelDeriv1D(u) * EvalKernelDeriv1D((u-r)/m)
		}, -1.5, 1.5, 3000) / float64(ts)
	}
	return deriv[0]*plain[1]*plain[2] +
		plain[0]*deriv[1]*plain[2] +
		plain[0]*plain[1]*deriv[2]
}

func TestIntegrateGradGradAgainstQuadrature(t *testing.T) {
	var (
		b = NewBezierBasis()
	)
	// Equal strides: integer offsets
	offs := [][3]float64{
		{0, 0, 0},
		{1, 0, 0},
		{1, 1, 0},
		{2, -1, 1},
		{-2, 2, -2},
	}
	rel := relMatrix(offs...)
	res, err := b.IntegrateGradGrad(rel, 1, 1)
	require.NoError(t, err)
	for i, off := range offs {
		want := gradGradQuadrature(off, 1, 1)
		assert.True(t, nearTol(want, res.AtVec(i), 1.e-06), "offset %v: want %v have %v", off, want, res.AtVec(i))
	}

	// Cross scale, stride ratio 2: half-integer offsets in source units
	offs = [][3]float64{
		{0.5, 0.5, 0.5},
		{1.5, -0.5, 0.5},
		{-2.5, 0.5, 1.5},
		{3.5, 0.5, -1.5},
	}
	rel = relMatrix(offs...)
	res, err = b.IntegrateGradGrad(rel, 1, 2)
	require.NoError(t, err)
	for i, off := range offs {
		want := gradGradQuadrature(off, 1, 2)
		assert.True(t, nearTol(want, res.AtVec(i), 1.e-06), "offset %v: want %v have %v", off, want, res.AtVec(i))
	}

	// Stride ratio 2 at coarser absolute scale
	res, err = b.IntegrateGradGrad(rel, 2, 4)
	require.NoError(t, err)
	for i, off := range offs {
		want := gradGradQuadrature(off, 2, 4)
		assert.True(t, nearTol(want, res.AtVec(i), 1.e-06), "offset %v: want %v have %v", off, want, res.AtVec(i))
	}
}

func TestIntegrateConstGradPreconditions(t *testing.T) {
	var (
		b    = NewBezierBasis()
		rel  = relMatrix([3]float64{0, 0, 0})
		data = relMatrix([3]float64{1, 1, 1})
	)
	_, err := b.IntegrateConstGrad(data, rel, 3, 1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = b.IntegrateConstGrad(data, rel, 1, 5)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = b.IntegrateConstGrad(data, rel, 1, 1<<20)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	short := utils.NewMatrix(2, 3)
	_, err = b.IntegrateConstGrad(short, rel, 1, 1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

// constGradForwardQuadrature recomputes the coarse-target branch with
// direct quadrature over the unit data cell.
func constGradForwardQuadrature(data, rel [3]float64, d, ts int) float64 {
	var (
		m     = float64(ts) / float64(d)
		plain [3]float64
		deriv [3]float64
	)
	for ax := 0; ax < 3; ax++ {
		r := rel[ax]
		plain[ax] = float64(d) * simpson(func(u float64) float64 {
			return EvalKernel1D((u - r) / m)
		}, -0.5, 0.5, 2000)
		deriv[ax] = float64(d) / float64(ts) * simpson(func(u float64) float64 {
			return EvalKernelDeriv1D((u - r) / m)
		}, -0.5, 0.5, 2000)
	}
	return data[0]*deriv[0]*plain[1]*plain[2] +
		data[1]*plain[0]*deriv[1]*plain[2] +
		data[2]*plain[0]*plain[1]*deriv[2]
}

// constGradInverseQuadrature recomputes the fine-target branch: the
// derivative factor telescopes to kernel values at the cell faces.
func constGradInverseQuadrature(data, rel [3]float64, d, ts int) float64 {
	var (
		m     = float64(d) / float64(ts)
		plain [3]float64
		deriv [3]float64
	)
	for ax := 0; ax < 3; ax++ {
		s := rel[ax] * m
		plain[ax] = float64(ts) * simpson(EvalKernel1D, s-m/2, s+m/2, 2000)
		deriv[ax] = EvalKernel1D(s-m/2) - EvalKernel1D(s+m/2)
	}
	return data[0]*deriv[0]*plain[1]*plain[2] +
		data[1]*plain[0]*deriv[1]*plain[2] +
		data[2]*plain[0]*plain[1]*deriv[2]
}

func TestIntegrateConstGradAgainstQuadrature(t *testing.T) {
	var (
		b    = NewBezierBasis()
		data = relMatrix(
			[3]float64{1, 0, 0},
			[3]float64{0, 1, 0},
			[3]float64{0.3, -0.7, 1.1},
		)
	)
	// Coarse target, ratio 2: offsets are half-integers in data units
	offs := [][3]float64{
		{0.5, 0.5, 0.5},
		{-1.5, 0.5, -0.5},
		{2.5, -0.5, 1.5},
	}
	rel := relMatrix(offs...)
	res, err := b.IntegrateConstGrad(data, rel, 1, 2)
	require.NoError(t, err)
	for i, off := range offs {
		want := constGradForwardQuadrature(row3(data, i), off, 1, 2)
		assert.True(t, nearTol(want, res.AtVec(i), 1.e-06), "offset %v: want %v have %v", off, want, res.AtVec(i))
	}

	// Fine target, ratio 2
	offs = [][3]float64{
		{0.25, 0.25, 0.25},
		{-0.75, 0.25, -0.25},
		{0.75, -0.25, 0.25},
	}
	rel = relMatrix(offs...)
	res, err = b.IntegrateConstGrad(data, rel, 2, 1)
	require.NoError(t, err)
	for i, off := range offs {
		want := constGradInverseQuadrature(row3(data, i), off, 2, 1)
		assert.True(t, nearTol(want, res.AtVec(i), 1.e-06), "offset %v: want %v have %v", off, want, res.AtVec(i))
	}
}

func TestIntegrateConstGradBranchTie(t *testing.T) {
	var (
		b    = NewBezierBasis()
		data = relMatrix(
			[3]float64{1, 1, 1},
			[3]float64{0.5, -1, 2},
			[3]float64{1, 1, 1},
		)
	)
	// At dataStride == targetStride the forward branch is taken; the
	// inverse-branch formulas at ratio 1 must agree with it exactly.
	offs := [][3]float64{
		{0, 0, 0},
		{1, 0, -1},
		{-1, 1, 0},
	}
	rel := relMatrix(offs...)
	res, err := b.IntegrateConstGrad(data, rel, 1, 1)
	require.NoError(t, err)
	for i, off := range offs {
		forward := constGradForwardQuadrature(row3(data, i), off, 1, 1)
		inverse := constGradInverseQuadrature(row3(data, i), off, 1, 1)
		assert.True(t, nearTol(forward, inverse, 1.e-06), "branch formulas disagree at tie: %v vs %v", forward, inverse)
		assert.True(t, nearTol(forward, res.AtVec(i), 1.e-06), "offset %v: want %v have %v", off, forward, res.AtVec(i))
	}
}

func TestIntegrateConstGradOutOfRangeMasked(t *testing.T) {
	var (
		b    = NewBezierBasis()
		data = relMatrix([3]float64{1, 1, 1}, [3]float64{1, 1, 1})
	)
	// The reference convention never specified out-of-range behavior for
	// this kernel and assumed callers stay within the tabulated rows.
	// We mask to zero per axis, matching IntegrateGradGrad; this test
	// records that decision.
	rel := relMatrix(
		[3]float64{3, 0, 0},
		[3]float64{0, 0, -9},
	)
	res, err := b.IntegrateConstGrad(data, rel, 1, 1)
	require.NoError(t, err)
	for i := 0; i < res.Len(); i++ {
		assert.Equal(t, 0., res.AtVec(i))
	}
}
