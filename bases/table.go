package bases

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"github.com/ghodss/yaml"
)

// Names of the 8 precomputed 1D integral tables. The shifted family
// backs the grad·grad kernel, the partial family backs the forward
// const·grad branch and the inverse family backs its fine-target branch.
const (
	PartialIntegral           = "PARTIAL_INTEGRAL"
	DerivativePartialIntegral = "DERIVATIVE_PARTIAL_INTEGRAL"
	InvPartialIntegral        = "INV_PARTIAL_INTEGRAL"
	InvDerivativePartial      = "INV_DERIVATIVE_PARTIAL_INTEGRAL"
	ShiftedSelfIntegral       = "SHIFTED_SELF_INTEGRAL"
	ShiftedDerivativeIntegral = "SHIFTED_DERIVATIVE_INTEGRAL"
	ShiftedSelfDerivIntegral  = "SHIFTED_SELF_DERIV_INTEGRAL"
	InvShiftedSelfDeriv       = "INV_SHIFTED_SELF_DERIV_INTEGRAL"
)

// TableNames lists the 8 table names in resource order.
var TableNames = []string{
	PartialIntegral,
	DerivativePartialIntegral,
	InvPartialIntegral,
	InvDerivativePartial,
	ShiftedSelfIntegral,
	ShiftedDerivativeIntegral,
	ShiftedSelfDerivIntegral,
	InvShiftedSelfDeriv,
}

// IntegralTable holds the precomputed cross-scale integrals of the
// Bezier kernel. Each table is an ordered sequence of 1D rows, outer
// indexed by integer scale level >= 0. The table is loaded once and
// read-only thereafter, concurrent readers need no locking.
type IntegralTable struct {
	partial           [][]float64
	derivPartial      [][]float64
	invPartial        [][]float64
	invDerivPartial   [][]float64
	shiftedSelf       [][]float64
	shiftedDerivative [][]float64
	shiftedSelfDeriv  [][]float64
	invShiftedSD      [][]float64
}

// bezierIntegrals is the production resource, produced offline and
// checked in as an artifact.
//
//go:embed data/bezier_integrals.yaml
var bezierIntegrals []byte

var (
	defaultTable     *IntegralTable
	defaultTableOnce sync.Once
)

// DefaultIntegralTable returns the process-wide table built from the
// embedded resource. The build happens exactly once; a corrupt embedded
// resource is a packaging defect and aborts the process.
func DefaultIntegralTable() *IntegralTable {
	defaultTableOnce.Do(func() {
		var err error
		if defaultTable, err = LoadIntegralTable(bezierIntegrals); err != nil {
			panic(fmt.Errorf("embedded integral table: %w", err))
		}
	})
	return defaultTable
}

// LoadIntegralTable deserializes the 8 named arrays-of-arrays from a
// YAML resource. The loader is idempotent and side effect free, so per
// worker reloads produce equivalent immutable tables.
func LoadIntegralTable(data []byte) (t *IntegralTable, err error) {
	var raw map[string][][]float64
	if err = yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResourceCorrupt, err)
	}
	if len(raw) != len(TableNames) {
		return nil, fmt.Errorf("%w: expected %d tables, found %d",
			ErrResourceCorrupt, len(TableNames), len(raw))
	}
	tabs := make(map[string][][]float64, len(TableNames))
	for _, name := range TableNames {
		rows, ok := raw[name]
		if !ok {
			return nil, fmt.Errorf("%w: table %s missing", ErrResourceCorrupt, name)
		}
		if len(rows) == 0 {
			return nil, fmt.Errorf("%w: table %s has no levels", ErrResourceCorrupt, name)
		}
		for lev, row := range rows {
			if len(row) == 0 {
				return nil, fmt.Errorf("%w: table %s level %d is empty",
					ErrResourceCorrupt, name, lev)
			}
		}
		tabs[name] = rows
	}
	t = &IntegralTable{
		partial:           tabs[PartialIntegral],
		derivPartial:      tabs[DerivativePartialIntegral],
		invPartial:        tabs[InvPartialIntegral],
		invDerivPartial:   tabs[InvDerivativePartial],
		shiftedSelf:       tabs[ShiftedSelfIntegral],
		shiftedDerivative: tabs[ShiftedDerivativeIntegral],
		shiftedSelfDeriv:  tabs[ShiftedSelfDerivIntegral],
		invShiftedSD:      tabs[InvShiftedSelfDeriv],
	}
	return
}

// LoadIntegralTableFile loads a table resource from an explicit path,
// overriding the embedded artifact.
func LoadIntegralTableFile(path string) (t *IntegralTable, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResourceMissing, err)
	}
	return LoadIntegralTable(data)
}

func (t *IntegralTable) byName(name string) ([][]float64, bool) {
	switch name {
	case PartialIntegral:
		return t.partial, true
	case DerivativePartialIntegral:
		return t.derivPartial, true
	case InvPartialIntegral:
		return t.invPartial, true
	case InvDerivativePartial:
		return t.invDerivPartial, true
	case ShiftedSelfIntegral:
		return t.shiftedSelf, true
	case ShiftedDerivativeIntegral:
		return t.shiftedDerivative, true
	case ShiftedSelfDerivIntegral:
		return t.shiftedSelfDeriv, true
	case InvShiftedSelfDeriv:
		return t.invShiftedSD, true
	}
	return nil, false
}

// Levels returns the number of scale levels stored for a table.
func (t *IntegralTable) Levels(name string) (n int, err error) {
	rows, ok := t.byName(name)
	if !ok {
		return 0, fmt.Errorf("%w: unknown table %q", ErrInvalidArgument, name)
	}
	return len(rows), nil
}

// RowLen returns the length of the level row of a table.
func (t *IntegralTable) RowLen(name string, level int) (n int, err error) {
	rows, ok := t.byName(name)
	if !ok {
		return 0, fmt.Errorf("%w: unknown table %q", ErrInvalidArgument, name)
	}
	if level < 0 || level >= len(rows) {
		return 0, fmt.Errorf("%w: level %d out of range [0,%d)",
			ErrInvalidArgument, level, len(rows))
	}
	return len(rows[level]), nil
}

// Lookup performs an O(1) indexed read. The index is expected to have
// been clamped by the caller; out-of-range contributions are the
// integrator's responsibility to mask, truly invalid requests are
// rejected here.
func (t *IntegralTable) Lookup(name string, level, index int) (val float64, err error) {
	rows, ok := t.byName(name)
	if !ok {
		return 0, fmt.Errorf("%w: unknown table %q", ErrInvalidArgument, name)
	}
	if level < 0 || level >= len(rows) {
		return 0, fmt.Errorf("%w: level %d out of range [0,%d)",
			ErrInvalidArgument, level, len(rows))
	}
	if index < 0 || index >= len(rows[level]) {
		return 0, fmt.Errorf("%w: index %d out of range [0,%d)",
			ErrInvalidArgument, index, len(rows[level]))
	}
	return rows[level][index], nil
}
