package app

import (
	"errors"
	"fmt"
	"testing"

	"message_board_service/internal/board/domain"
	errprocess "message_board_service/pkg/err"

	"github.com/stretchr/testify/assert"
)

func TestResolveError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		kind   string
	}{
		{"validation", domain.NewValidationError("text is required"), 400, errprocess.KindValidation},
		{"not found", domain.ErrNotFound, 404, errprocess.KindNotFound},
		{"already exists", domain.ErrAlreadyExists, 409, errprocess.KindAlreadyExists},
		{"store", domain.NewStoreError("append", errors.New("dial tcp 10.0.0.1: i/o timeout")), 500, errprocess.KindStoreUnavailable},
		{"wrapped not found", fmt.Errorf("delete: %w", domain.ErrNotFound), 404, errprocess.KindNotFound},
		{"unknown", errors.New("boom"), 500, errprocess.KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := resolveError(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.kind, body.Error)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestResolveError_StoreDetailIsHidden(t *testing.T) {
	_, body := resolveError(domain.NewStoreError("list", errors.New("AccessDenied: arn:secret")))
	assert.NotContains(t, body.Message, "secret")
	assert.NotContains(t, body.Message, "AccessDenied")
}

func TestResolveError_ValidationKeepsReason(t *testing.T) {
	_, body := resolveError(domain.NewValidationError("text is required"))
	assert.Contains(t, body.Message, "text is required")
}
