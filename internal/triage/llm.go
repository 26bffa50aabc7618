package triage

import (
	"context"
	"errors"
	"fmt"
)

// Classifier is the interface for the external semantic text-understanding
// service. Classify is synchronous and may fail; any failure (transport
// error, malformed response, schema violation) is reported as an error and
// the pipeline substitutes DegradedClassification. A classifier failure is
// never a pipeline failure.
type Classifier interface {
	Classify(ctx context.Context, text string) (Classification, error)
}

// validateClassification enforces the classifier response schema. Any
// violation is treated as total failure of the call.
func validateClassification(cl Classification) error {
	if cl.Intensity < 1 || cl.Intensity > 10 {
		return fmt.Errorf("intensity %d out of range 1..10", cl.Intensity)
	}
	if cl.Emotion == "" {
		return errors.New("missing emotion")
	}
	if cl.Intent == "" {
		return errors.New("missing intent")
	}
	return nil
}
