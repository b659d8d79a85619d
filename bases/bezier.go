package bases

import (
	"fmt"

	"github.com/notargets/spsr/utils"
)

// The Bezier tensor-product basis is an axis-separable basis centered at
// the voxel center, where each dim takes the form:
//		B^k = (B^0)^(*k), where ^(*k) is convolution with itself k times,
//		B^0 is a box function, being 1 when |x|<0.5, and 0 otherwise.
// We use k=2 as in [Kazhdan et al., 06], scaled up by 2:
//		B^2(x) = 0,                           x < -1.5
//		         (x + 1.5)^2,          -1.5 <= x < -0.5
//		         -2x^2 + 1.5,          -0.5 <= x < 0.5
//		         (x - 1.5)^2,           0.5 <= x < 1.5
//		         0.                     1.5 <= x
// Each piece owns its left endpoint and excludes its right endpoint.
type BezierBasis struct {
	table *IntegralTable
}

var _ Basis = (*BezierBasis)(nil)

// NewBezierBasis constructs the basis around tableO, or around the
// embedded integral table when no table is passed.
func NewBezierBasis(tableO ...*IntegralTable) (b *BezierBasis) {
	b = &BezierBasis{}
	if len(tableO) != 0 && tableO[0] != nil {
		b.table = tableO[0]
	} else {
		b.table = DefaultIntegralTable()
	}
	return
}

// Table exposes the immutable integral table the basis was built around.
func (b *BezierBasis) Table() *IntegralTable { return b.table }

// EvalKernel1D evaluates the 1D piecewise quadratic kernel at x.
func EvalKernel1D(x float64) (y float64) {
	switch {
	case x >= -1.5 && x < -0.5:
		y = (x + 1.5) * (x + 1.5)
	case x >= -0.5 && x < 0.5:
		y = -2*x*x + 1.5
	case x >= 0.5 && x < 1.5:
		y = (x - 1.5) * (x - 1.5)
	}
	return
}

// EvalKernelDeriv1D evaluates the kernel derivative, piecewise linear on
// the same interval partition as EvalKernel1D.
func EvalKernelDeriv1D(x float64) (y float64) {
	switch {
	case x >= -1.5 && x < -0.5:
		y = 2*x + 3
	case x >= -0.5 && x < 0.5:
		y = -4 * x
	case x >= 0.5 && x < 1.5:
		y = 2*x - 3
	}
	return
}

// Evaluate computes the separable product of the per-axis kernels for
// each row of xyz (N,3).
func (b *BezierBasis) Evaluate(xyz utils.Matrix) (R utils.Vector) {
	var (
		nr = checkXYZ(xyz)
	)
	R = utils.NewVector(nr)
	for i := 0; i < nr; i++ {
		row := xyz.Row(i)
		R.Set(i, EvalKernel1D(row[0])*EvalKernel1D(row[1])*EvalKernel1D(row[2]))
	}
	return
}

// EvaluateDerivative computes the basis gradient (N,3). Component i is
// the kernel derivative along axis i divided by stride, times the plain
// kernel values along the other two axes.
func (b *BezierBasis) EvaluateDerivative(xyz utils.Matrix, stride int) (R utils.Matrix) {
	var (
		nr = checkXYZ(xyz)
		h  = float64(stride)
	)
	R = utils.NewMatrix(nr, 3)
	for i := 0; i < nr; i++ {
		row := xyz.Row(i)
		bx, by, bz := EvalKernel1D(row[0]), EvalKernel1D(row[1]), EvalKernel1D(row[2])
		dx := EvalKernelDeriv1D(row[0]) / h
		dy := EvalKernelDeriv1D(row[1]) / h
		dz := EvalKernelDeriv1D(row[2]) / h
		R.Set(i, 0, dx*by*bz)
		R.Set(i, 1, bx*dy*bz)
		R.Set(i, 2, bx*by*dz)
	}
	return
}

// InitializeFeatureValue is a no-op for this basis family. It is part of
// the Basis contract so other families can customize initial features.
func (b *BezierBasis) InitializeFeatureValue(feat utils.Matrix) {}

func checkXYZ(xyz utils.Matrix) (nr int) {
	var nc int
	nr, nc = xyz.Dims()
	if nc != 3 {
		err := fmt.Errorf("coordinate matrix must have 3 columns, has %d", nc)
		panic(err)
	}
	return
}
