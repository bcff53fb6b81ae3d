package report

import (
	"fmt"
	"io"

	"github.com/RMahshie/rssifit/pkg/models"
)

// Write prints the fitted parameters in the human-readable report format
func Write(w io.Writer, result *models.FitResult) error {
	if result == nil {
		return fmt.Errorf("no fit result to report")
	}
	_, err := fmt.Fprintf(w, "Fitted Parameters:\nConstant C = %.4f\nn = %.4f\n", result.C, result.N)
	return err
}
