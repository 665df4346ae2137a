package output

import (
	"encoding/json"
	"fmt"

	"refimpact/internal/analysis"
)

// JSON renders the report with stable key order and indentation, so runs on
// the same tree diff cleanly.
func JSON(r *analysis.Report) (string, error) {
	out, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding report: %w", err)
	}
	return string(out) + "\n", nil
}
