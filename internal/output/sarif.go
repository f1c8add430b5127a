package output

import (
	"encoding/json"
	"fmt"
)

// SARIFFormatter renders the run's SARIF 2.1.0 log.
type SARIFFormatter struct{}

func (f *SARIFFormatter) Format(out *Output) ([]byte, error) {
	if out == nil || out.SARIF == nil {
		return nil, fmt.Errorf("sarif formatter: SARIF log is required")
	}
	return json.MarshalIndent(out.SARIF, "", "  ")
}
