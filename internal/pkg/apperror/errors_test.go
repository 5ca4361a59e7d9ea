package apperror

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOfUnwrapsWrappedErrors(t *testing.T) {
	err := fmt.Errorf("ingest: %w", Extraction(errors.New("bad xref")))
	assert.Equal(t, KindExtraction, KindOf(err))
	assert.Contains(t, DetailOf(err), "bad xref")
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, Kind(""), KindOf(nil))
}

func TestPartialIngestionError(t *testing.T) {
	cause := errors.New("insert failed")
	err := &PartialIngestionError{DocumentId: "doc-1", Stored: 2, Expected: 3, Failures: []error{cause}}

	assert.Equal(t, KindPartialIngestion, KindOf(err))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "stored 2 of 3 chunk vectors", DetailOf(err))
}

func TestCancelledKeepsContextError(t *testing.T) {
	err := Cancelled("embedding", context.Canceled)
	assert.Equal(t, KindCancelled, KindOf(err))
	assert.True(t, errors.Is(err, context.Canceled))
}
