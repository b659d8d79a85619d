package bases

import (
	"fmt"
	"math"

	"github.com/notargets/spsr/utils"
)

// IntegrateGradGrad computes, for each row of relPos (N,3), the definite
// integral over the shared support of grad(B_source)·grad(B_target),
// where the target basis is offset from the source by relPos in source
// stride units: source-basis + relPos = target-basis. These are the
// stiffness entries of the assembled screened-Poisson system.
//
// Out-of-support offsets contribute exactly zero per axis, never a
// lookup error.
func (b *BezierBasis) IntegrateGradGrad(relPos utils.Matrix, sourceStride, targetStride int) (R utils.Vector, err error) {
	var (
		nr = checkXYZ(relPos)
	)
	if err = checkStride(sourceStride); err != nil {
		return
	}
	if err = checkStride(targetStride); err != nil {
		return
	}
	if sourceStride > targetStride {
		return R, fmt.Errorf("%w: source stride %d cannot be larger than target stride %d",
			ErrInvalidArgument, sourceStride, targetStride)
	}
	mult := targetStride / sourceStride
	level := utils.Log2Int(mult)
	if level >= len(b.table.shiftedSelf) {
		return R, fmt.Errorf("%w: stride ratio %d exceeds tabulated levels", ErrInvalidArgument, mult)
	}
	var (
		selfRow  = b.table.shiftedSelf[level]
		derivRow = b.table.shiftedDerivative[level]
		center   = float64(mult)*1.5 + 0.5
		sStride  = float64(sourceStride)
		tStride  = float64(targetStride)
		plain    [3]float64
		deriv    [3]float64
	)
	R = utils.NewVector(nr)
	for i := 0; i < nr; i++ {
		row := relPos.Row(i)
		for ax := 0; ax < 3; ax++ {
			// Recenter the offset into a nonnegative table index. Entries
			// outside the row are clamped for the read and masked to zero.
			idx := int(math.Round(row[ax] + center))
			if idx < 0 || idx >= len(selfRow) {
				plain[ax], deriv[ax] = 0, 0
				continue
			}
			plain[ax] = selfRow[idx] * sStride
			deriv[ax] = derivRow[idx] / tStride
		}
		R.Set(i, deriv[0]*plain[1]*plain[2]+
			plain[0]*deriv[1]*plain[2]+
			plain[0]*plain[1]*deriv[2])
	}
	return
}

// IntegrateConstGrad computes, for each row, the integral of the
// constant field data (N,3), localized over a dataStride cell offset by
// relPos from the target basis (data + relPos = target-basis),
// contracted against the target basis gradient. These are the right
// hand side contributions of the assembled system.
//
// Offsets whose table index falls outside the tabulated row are masked
// to zero per axis, consistent with IntegrateGradGrad. The reference
// convention left this case unspecified and assumed in-range callers;
// see the out-of-range test for the recorded decision.
func (b *BezierBasis) IntegrateConstGrad(data, relPos utils.Matrix, dataStride, targetStride int) (R utils.Vector, err error) {
	var (
		nr = checkXYZ(relPos)
	)
	if dr, _ := data.Dims(); dr != nr {
		return R, fmt.Errorf("%w: data rows %d != relPos rows %d", ErrInvalidArgument, dr, nr)
	}
	checkXYZ(data)
	if err = checkStride(dataStride); err != nil {
		return
	}
	if err = checkStride(targetStride); err != nil {
		return
	}

	var (
		derivRow, plainRow []float64
		center             float64
		relScale           float64 // applied to relPos before recentering
		iMult              float64
		plainStride        float64
	)
	if targetStride >= dataStride {
		mult := targetStride / dataStride
		level := utils.Log2Int(mult)
		if level >= len(b.table.partial) {
			return R, fmt.Errorf("%w: stride ratio %d exceeds tabulated levels", ErrInvalidArgument, mult)
		}
		derivRow, plainRow = b.table.partial[level], b.table.derivPartial[level]
		center = (3*float64(mult) - 1) / 2
		relScale = 1
		iMult = float64(dataStride) / float64(targetStride)
		plainStride = float64(dataStride)
	} else {
		mult := dataStride / targetStride
		level := utils.Log2Int(mult) - 1
		if level >= len(b.table.invPartial) {
			return R, fmt.Errorf("%w: stride ratio %d exceeds tabulated levels", ErrInvalidArgument, mult)
		}
		derivRow, plainRow = b.table.invPartial[level], b.table.invDerivPartial[level]
		center = float64(mult)/2 + 0.5
		relScale = float64(mult)
		iMult = 1.0
		// The fine target takes over the plain-term scaling.
		plainStride = float64(targetStride)
	}

	var (
		plain [3]float64
		deriv [3]float64
	)
	R = utils.NewVector(nr)
	for i := 0; i < nr; i++ {
		row := relPos.Row(i)
		d := data.Row(i)
		for ax := 0; ax < 3; ax++ {
			idx := int(math.Round(row[ax]*relScale + center))
			if idx < 0 || idx >= len(plainRow) {
				plain[ax], deriv[ax] = 0, 0
				continue
			}
			plain[ax] = plainRow[idx] * plainStride
			deriv[ax] = derivRow[idx] * iMult
		}
		R.Set(i, d[0]*deriv[0]*plain[1]*plain[2]+
			d[1]*plain[0]*deriv[1]*plain[2]+
			d[2]*plain[0]*plain[1]*deriv[2])
	}
	return
}

func checkStride(stride int) error {
	if !utils.IsPowerOfTwo(stride) {
		return fmt.Errorf("%w: stride %d must be a positive power of two", ErrInvalidArgument, stride)
	}
	return nil
}
