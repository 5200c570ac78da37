package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/ecocommute/core/ecoscore"
	"github.com/kilianp07/ecocommute/core/model"
	"github.com/kilianp07/ecocommute/core/session"
)

func TestErrorStatus(t *testing.T) {
	legErr := &ecoscore.InvalidLegError{Index: 2, Leg: model.Leg{Mode: model.ModeCar, DistanceKm: -1}, Reason: "negative distance"}
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{legErr, http.StatusUnprocessableEntity, "invalid_leg"},
		{fmt.Errorf("add: %w", legErr), http.StatusUnprocessableEntity, "invalid_leg"},
		{BadRequest("nope"), http.StatusBadRequest, "bad_request"},
		{session.ErrNotFound, http.StatusNotFound, "not_found"},
		{fmt.Errorf("remove: %w", session.ErrIndexOutOfRange), http.StatusBadRequest, "index_out_of_range"},
		{errors.New("disk on fire"), http.StatusInternalServerError, "internal"},
	}
	for _, c := range cases {
		rr := httptest.NewRecorder()
		Error(rr, httptest.NewRequest(http.MethodGet, "/api/x", nil), c.err)
		assert.Equal(t, c.status, rr.Code, c.err.Error())
		var body ErrorBody
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, c.code, body.Code)
	}
}

func TestErrorHidesInternalMessage(t *testing.T) {
	rr := httptest.NewRecorder()
	Error(rr, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("secret dsn"))
	assert.NotContains(t, rr.Body.String(), "secret")
}

func TestInvalidLegDetails(t *testing.T) {
	rr := httptest.NewRecorder()
	Error(rr, httptest.NewRequest(http.MethodGet, "/", nil), &ecoscore.InvalidLegError{Index: 1, Reason: "unknown mode"})
	var body ErrorBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "1", body.Details["index"])
	assert.Equal(t, "unknown mode", body.Details["reason"])
}

type payload struct {
	Name  string `json:"name" validate:"required"`
	Inner struct {
		Count int `json:"count" validate:"gte=1"`
	} `json:"inner"`
}

func TestDecodeJSON(t *testing.T) {
	var p payload
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a","inner":{"count":2}}`))
	require.NoError(t, DecodeJSON(httptest.NewRecorder(), r, &p))
	assert.Equal(t, 2, p.Inner.Count)

	for name, body := range map[string]string{
		"empty":   "",
		"unknown": `{"name":"a","extra":1}`,
		"syntax":  `{"name":`,
		"two":     `{"name":"a"} {"name":"b"}`,
	} {
		t.Run(name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
			var reqErr *RequestError
			assert.ErrorAs(t, DecodeJSON(httptest.NewRecorder(), r, &payload{}), &reqErr)
		})
	}
}

func TestValidate(t *testing.T) {
	err := Validate(payload{})
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "required", reqErr.Details["name"])
	assert.Equal(t, "gte", reqErr.Details["inner.count"])

	ok := payload{Name: "x"}
	ok.Inner.Count = 1
	assert.NoError(t, Validate(ok))
}
