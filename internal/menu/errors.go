package menu

import (
	"errors"
	"fmt"
)

// RequestValidationError means no plan can be produced for the request.
// It is the only fatal error of the pipeline.
type RequestValidationError struct {
	Reason string
}

func (e *RequestValidationError) Error() string {
	return fmt.Sprintf("invalid menu request: %s", e.Reason)
}

// ProviderError wraps an AI backend failure: network, non-2xx status,
// unparseable JSON or an unrecognized response shape. The orchestrator
// recovers from it by falling back to the rule-based generator.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// ErrCandidateInvalid marks an AI candidate that failed structural
// validation. The whole candidate is discarded; there is no partial repair
// at that stage.
var ErrCandidateInvalid = errors.New("candidate failed structural validation")
