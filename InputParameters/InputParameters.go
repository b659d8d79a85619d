package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"
)

// Parameters obtained from the YAML input file
type EvalParameters struct {
	Title        string  `yaml:"Title"`
	NumSamples   int     `yaml:"NumSamples"`
	SourceStride int     `yaml:"SourceStride"`
	TargetStride int     `yaml:"TargetStride"`
	XMin         float64 `yaml:"XMin"`
	XMax         float64 `yaml:"XMax"`
	TableFile    string  `yaml:"TableFile"` // empty selects the embedded artifact
}

func (ep *EvalParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ep)
}

func (ep *EvalParameters) Validate() error {
	if ep.NumSamples <= 0 {
		return fmt.Errorf("NumSamples must be positive, have %d", ep.NumSamples)
	}
	if ep.XMax <= ep.XMin {
		return fmt.Errorf("XMax (%v) must exceed XMin (%v)", ep.XMax, ep.XMin)
	}
	return nil
}

func (ep *EvalParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ep.Title)
	fmt.Printf("[%d]\t\t\t= NumSamples\n", ep.NumSamples)
	fmt.Printf("[%d]\t\t\t= SourceStride\n", ep.SourceStride)
	fmt.Printf("[%d]\t\t\t= TargetStride\n", ep.TargetStride)
	fmt.Printf("%8.5f\t\t= XMin\n", ep.XMin)
	fmt.Printf("%8.5f\t\t= XMax\n", ep.XMax)
	if len(ep.TableFile) != 0 {
		fmt.Printf("[%s]\t= TableFile\n", ep.TableFile)
	}
}
