package transport

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCategory
	}{
		{"canceled", fmt.Errorf("post: %w", context.Canceled), ErrorCanceled},
		{"deadline", fmt.Errorf("post: %w", context.DeadlineExceeded), ErrorTimeout},
		{"net timeout", fmt.Errorf("dial: %w", timeoutErr{}), ErrorTimeout},
		{"connection refused", errors.New("connection refused"), ErrorProviderOutage},
		{"already categorized", NewError(ErrorBadData, "http://registry", "malformed envelope", nil), ErrorBadData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.err, "http://registry")
			assert.Equal(t, tt.want, got.Category)
			assert.Equal(t, tt.want, GetCategory(got))
		})
	}

	assert.Nil(t, Normalize(nil, "http://registry"))
}

func TestErrorUnwrap(t *testing.T) {
	underlying := errors.New("boom")
	err := NewError(ErrorProviderOutage, "http://registry", "status 503", underlying)

	assert.ErrorIs(t, err, underlying)
	assert.Equal(t, "registry http://registry [provider_outage]: status 503: boom", err.Error())
	assert.Equal(t, "provider_outage: status 503", err.Detail())
}

func TestGetCategoryUnknown(t *testing.T) {
	assert.Equal(t, ErrorInternal, GetCategory(errors.New("other")))
}

func TestDetail(t *testing.T) {
	assert.Equal(t, "canceled: request canceled", Detail(context.Canceled))
	assert.Empty(t, Detail(nil))
}
