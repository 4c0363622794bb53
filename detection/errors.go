package detection

import (
	"fmt"

	"github.com/pkg/errors"
)

type malformedDetectionError struct {
	index int
	label string
}

func (e *malformedDetectionError) Error() string {
	label := e.label
	if label == "" {
		label = "<unlabeled>"
	}
	return fmt.Sprintf("detection %d (%s) has no usable bounding box", e.index, label)
}

// NewMalformedDetectionError returns an error for a detection that lacks a
// usable bounding box. The error carries the detection's position in the
// input batch and its label. Callers treat it as non-fatal, skipping the
// record rather than aborting the batch.
func NewMalformedDetectionError(index int, label string) error {
	return &malformedDetectionError{index: index, label: label}
}

// IsMalformedDetectionError reports whether any error in err's chain marks a
// skipped, malformed detection.
func IsMalformedDetectionError(err error) bool {
	var target *malformedDetectionError
	return errors.As(err, &target)
}
