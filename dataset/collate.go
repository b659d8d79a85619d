package dataset

import (
	"fmt"

	"github.com/notargets/spsr/utils"
)

// Collate recursively stacks a batch of nested values elementwise:
//   - float64 scalars stack into a utils.Vector
//   - int scalars stack into an []int
//   - []float64 rows of equal length stack into a utils.Matrix
//   - strings, Matrices and Vectors are kept unstacked as slices
//   - map[string]interface{} values collate per key
//   - []interface{} sequences of equal length collate per position
//
// Inconsistent sequence or row lengths within a batch are an error.
func Collate(batch []interface{}) (interface{}, error) {
	var elem interface{}
	for _, e := range batch {
		if e != nil {
			elem = e
			break
		}
	}
	switch el := elem.(type) {
	case nil:
		return batch, nil
	case float64:
		out := utils.NewVector(len(batch))
		for i, e := range batch {
			v, ok := e.(float64)
			if !ok {
				return nil, fmt.Errorf("collate: mixed types at element %d: %T vs float64", i, e)
			}
			out.Set(i, v)
		}
		return out, nil
	case int:
		out := make([]int, len(batch))
		for i, e := range batch {
			v, ok := e.(int)
			if !ok {
				return nil, fmt.Errorf("collate: mixed types at element %d: %T vs int", i, e)
			}
			out[i] = v
		}
		return out, nil
	case string:
		out := make([]string, len(batch))
		for i, e := range batch {
			v, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("collate: mixed types at element %d: %T vs string", i, e)
			}
			out[i] = v
		}
		return out, nil
	case []float64:
		nc := len(el)
		out := utils.NewMatrix(len(batch), nc)
		for i, e := range batch {
			row, ok := e.([]float64)
			if !ok {
				return nil, fmt.Errorf("collate: mixed types at element %d: %T vs []float64", i, e)
			}
			if len(row) != nc {
				return nil, fmt.Errorf("collate: each element in list of batch should be of equal size: %d vs %d", len(row), nc)
			}
			for j, v := range row {
				out.Set(i, j, v)
			}
		}
		return out, nil
	case utils.Matrix, utils.Vector:
		// Tensor-like leaves keep their batch dimension unstacked.
		return batch, nil
	case Sample:
		out := make(map[string]interface{}, len(el))
		for key := range el {
			sub := make([]interface{}, len(batch))
			for i, e := range batch {
				m, ok := e.(Sample)
				if !ok {
					return nil, fmt.Errorf("collate: mixed types at element %d: %T vs Sample", i, e)
				}
				sub[i] = m[key]
			}
			c, err := Collate(sub)
			if err != nil {
				return nil, err
			}
			out[key] = c
		}
		return out, nil
	case map[string]interface{}:
		out := make(map[string]interface{}, len(el))
		for key := range el {
			sub := make([]interface{}, len(batch))
			for i, e := range batch {
				m, ok := e.(map[string]interface{})
				if !ok {
					return nil, fmt.Errorf("collate: mixed types at element %d: %T vs map", i, e)
				}
				sub[i] = m[key]
			}
			c, err := Collate(sub)
			if err != nil {
				return nil, err
			}
			out[key] = c
		}
		return out, nil
	case []interface{}:
		n := len(el)
		for i, e := range batch {
			seq, ok := e.([]interface{})
			if !ok {
				return nil, fmt.Errorf("collate: mixed types at element %d: %T vs sequence", i, e)
			}
			if len(seq) != n {
				return nil, fmt.Errorf("collate: each element in list of batch should be of equal size: %d vs %d", len(seq), n)
			}
		}
		out := make([]interface{}, n)
		for j := 0; j < n; j++ {
			sub := make([]interface{}, len(batch))
			for i, e := range batch {
				sub[i] = e.([]interface{})[j]
			}
			c, err := Collate(sub)
			if err != nil {
				return nil, err
			}
			out[j] = c
		}
		return out, nil
	}
	return batch, nil
}

// CollateSamples collates a batch of Samples into one stacked sample.
func CollateSamples(batch []Sample) (map[string]interface{}, error) {
	raw := make([]interface{}, len(batch))
	for i, s := range batch {
		raw[i] = s
	}
	c, err := Collate(raw)
	if err != nil {
		return nil, err
	}
	out, ok := c.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("collate: batch did not collate to a mapping: %T", c)
	}
	return out, nil
}
