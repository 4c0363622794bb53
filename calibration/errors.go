package calibration

import (
	"fmt"

	"github.com/pkg/errors"
)

type calibrationError struct {
	reason string
}

func (e *calibrationError) Error() string {
	return fmt.Sprintf("scale calibration failed: %s", e.reason)
}

func newCalibrationError(reason string) error {
	return &calibrationError{reason: reason}
}

// IsCalibrationError reports whether any error in err's chain came from
// scale calibration. Calibration failures are fatal to a reconstruction and
// are never retried here; the caller must supply better input or a manual
// scale override.
func IsCalibrationError(err error) bool {
	var target *calibrationError
	return errors.As(err, &target)
}
