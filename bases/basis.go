package bases

import (
	"github.com/notargets/spsr/utils"
)

// Basis is the capability set shared by all basis families attached to
// cells of the multiresolution hierarchy. The assembly layer only ever
// talks to this contract, so additional kernels can be added without
// touching callers. All operations are batched over N queries, pure,
// and safe for concurrent use.
type Basis interface {
	// Evaluate computes basis values at local coordinates xyz (N,3),
	// taken relative to the owning cell's center.
	Evaluate(xyz utils.Matrix) utils.Vector
	// EvaluateDerivative computes the basis gradient (N,3) at local
	// coordinates xyz (N,3). stride is the denominator of xyz and is
	// needed for the chain rule.
	EvaluateDerivative(xyz utils.Matrix, stride int) utils.Matrix
	// IntegrateGradGrad computes the grad·grad integral between a source
	// basis and a target basis offset by relPos (N,3), used for the
	// stiffness entries of the assembled system.
	IntegrateGradGrad(relPos utils.Matrix, sourceStride, targetStride int) (utils.Vector, error)
	// IntegrateConstGrad contracts a constant field data (N,3) localized
	// over a dataStride cell against the gradient of the target basis,
	// used for the right hand side of the assembled system.
	IntegrateConstGrad(data, relPos utils.Matrix, dataStride, targetStride int) (utils.Vector, error)
	// InitializeFeatureValue customizes initial per-cell feature values
	// for basis families that need it.
	InitializeFeatureValue(feat utils.Matrix)
}
