package export

import (
	"encoding/json"
	"io"

	"github.com/spigell/cv-screener/internal/screening"
)

// ToJSON writes the analyses as an indented JSON array.
func ToJSON(w io.Writer, outputs []*screening.AnalysisOutput) error {
	if outputs == nil {
		outputs = []*screening.AnalysisOutput{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(outputs)
}
