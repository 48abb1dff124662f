package utils

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"bookfair/models"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{models.NewError(models.CodeNotFound, "stall x"), http.StatusNotFound},
		{fmt.Errorf("request: %w", models.NewError(models.CodeStallUnavailable, "A1")), http.StatusConflict},
		{models.NewError(models.CodeCapacityExceeded, "x"), http.StatusConflict},
		{models.NewError(models.CodeInvalidTransition, "x"), http.StatusUnprocessableEntity},
		{models.NewError(models.CodeForbidden, "x"), http.StatusForbidden},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, HTTPStatus(tc.err), tc.err.Error())
	}
}
