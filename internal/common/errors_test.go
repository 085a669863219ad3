package common

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{WrapError(ErrInvalidInput, "decode"), http.StatusBadRequest},
		{NewValidator().Field("x", "", Required).Error(), http.StatusBadRequest},
		{NewAppError("NOT_FOUND", "upload", ErrNotFound), http.StatusNotFound},
		{ExtractionError("a.pdf", errors.New("corrupt xref")), http.StatusUnprocessableEntity},
		{DatabaseError("insert order", errors.New("disk full")), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.err), "%v", tt.err)
	}
}

func TestGRPCStatus(t *testing.T) {
	assert.Nil(t, GRPCStatus(nil))

	st, _ := status.FromError(GRPCStatus(ExtractionError("a.pdf", errors.New("bad"))))
	assert.Equal(t, codes.FailedPrecondition, st.Code())

	st, _ = status.FromError(GRPCStatus(DatabaseError("insert", errors.New("locked"))))
	assert.Equal(t, codes.Internal, st.Code())

	st, _ = status.FromError(GRPCStatus(NotFoundError("gone")))
	assert.Equal(t, codes.NotFound, st.Code(), "existing status errors pass through")
}

func TestDatabaseErrorUnwraps(t *testing.T) {
	cause := errors.New("database is locked")
	err := DatabaseError("insert order", cause)
	assert.ErrorIs(t, err, ErrDatabase)
	assert.ErrorIs(t, err, cause)
	assert.Nil(t, DatabaseError("noop", nil))
}
