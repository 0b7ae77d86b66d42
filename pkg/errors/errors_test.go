package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorFormatting(t *testing.T) {
	err := New(ErrorTypeNetwork, "fetch", "connection refused")
	assert.Equal(t, "fetch: network error: connection refused", err.Error())

	httpErr := NewHTTP("fetch", "not found", 404)
	assert.Equal(t, "fetch: http error (status 404): not found", httpErr.Error())
	assert.Equal(t, 404, httpErr.Code)
}

func TestIsFatal(t *testing.T) {
	fatal := []ErrorType{
		ErrorTypeInvalidURL,
		ErrorTypeNetwork,
		ErrorTypeHTTP,
		ErrorTypeEmptyResponse,
		ErrorTypeParse,
		ErrorTypeUnknown,
	}
	for _, et := range fatal {
		assert.True(t, IsFatal(et), "expected %s to be fatal", et)
	}

	perEntry := []ErrorType{ErrorTypeWrite, ErrorTypeTransfer}
	for _, et := range perEntry {
		assert.False(t, IsFatal(et), "expected %s to be per-entry", et)
	}
}
