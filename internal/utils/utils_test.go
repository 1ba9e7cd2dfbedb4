package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dib506676/fast-api/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func decodePayload(t *testing.T, rec *httptest.ResponseRecorder) Payload {
	t.Helper()
	var p Payload
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&p))
	return p
}

func TestJSONResponse(t *testing.T) {
	rec := httptest.NewRecorder()
	OK(rec, http.StatusCreated, "created", map[string]int{"id": 1})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	p := decodePayload(t, rec)
	assert.True(t, p.Success)
	assert.Equal(t, "created", p.Message)
	assert.Equal(t, map[string]any{"id": float64(1)}, p.Data)
}

func TestNoContent(t *testing.T) {
	rec := httptest.NewRecorder()
	NoContent(rec)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Zero(t, rec.Body.Len())
}

func TestWriteErrorStatuses(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{apperr.ErrNotFound, http.StatusNotFound},
		{apperr.ErrForbidden, http.StatusForbidden},
		{apperr.ErrUnauthorized, http.StatusUnauthorized},
		{apperr.ErrEmailTaken, http.StatusBadRequest},
		{apperr.ErrInvalidCredentials, http.StatusUnauthorized},
		{apperr.ErrWrongProvider, http.StatusBadRequest},
		{apperr.New(apperr.CodeInvalid, "bad"), http.StatusBadRequest},
		{apperr.New(apperr.CodeUpstream, "google"), http.StatusUnauthorized},
		{errors.New("raw"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		WriteError(rec, zap.NewNop(), tc.err)
		assert.Equal(t, tc.status, rec.Code, tc.err.Error())
		assert.False(t, decodePayload(t, rec).Success)
	}
}

func TestWriteErrorUnauthorizedHeader(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, nil, apperr.ErrUnauthorized)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
	assert.Equal(t, "Could not validate credentials", decodePayload(t, rec).Message)
}

func TestWriteErrorHidesInternalCause(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	rec := httptest.NewRecorder()
	WriteError(rec, zap.New(core), apperr.Wrap(errors.New("pq: connection refused"), apperr.CodeInternal, "load blog"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodePayload(t, rec)
	assert.Equal(t, "Internal server error", body.Message)
	require.Equal(t, 1, logs.Len())
	assert.Contains(t, logs.All()[0].ContextMap()["error"], "connection refused")
}

type sample struct {
	Title string  `json:"title" validate:"required,max=5"`
	Note  *string `json:"note" validate:"omitnil,min=1"`
}

func TestDecodeJSON(t *testing.T) {
	cases := map[string]string{
		"empty body":    "",
		"malformed":     `{"title":`,
		"unknown field": `{"title":"a","extra":1}`,
		"missing field": `{}`,
		"too long":      `{"title":"abcdef"}`,
		"empty pointer": `{"title":"a","note":""}`,
		"two objects":   `{"title":"a"}{"title":"b"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
			r.Header.Set("Content-Type", "application/json")
			var dst sample
			err := DecodeJSON(httptest.NewRecorder(), r, &dst)
			assert.True(t, apperr.IsCode(err, apperr.CodeInvalid), "got %v", err)
		})
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"hey"}`))
	r.Header.Set("Content-Type", "application/json; charset=utf-8")
	var dst sample
	require.NoError(t, DecodeJSON(httptest.NewRecorder(), r, &dst))
	assert.Equal(t, "hey", dst.Title)
	assert.Nil(t, dst.Note)
}

func TestDecodeJSONRequiresJSONContentType(t *testing.T) {
	for _, ct := range []string{"", "text/plain", "application/x-www-form-urlencoded", "multipart/form-data; boundary=x"} {
		t.Run(ct, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"hey"}`))
			if ct != "" {
				r.Header.Set("Content-Type", ct)
			}
			var dst sample
			err := DecodeJSON(httptest.NewRecorder(), r, &dst)
			assert.True(t, apperr.IsCode(err, apperr.CodeUnsupportedMedia), "got %v", err)
			assert.Equal(t, http.StatusUnsupportedMediaType, StatusOf(apperr.CodeOf(err)))
			assert.Empty(t, dst.Title)
		})
	}
}

func TestValidateUsesJSONNames(t *testing.T) {
	err := Validate(sample{})
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "title is required", ae.Message)
}

func TestParseWindow(t *testing.T) {
	cases := []struct {
		query       string
		skip, limit int
		invalid     bool
	}{
		{"", 0, 100, false},
		{"skip=5&limit=10", 5, 10, false},
		{"limit=0", 0, 1, false},
		{"limit=-3", 0, 1, false},
		{"limit=1000", 0, 100, false},
		{"skip=-1", 0, 0, true},
		{"skip=abc", 0, 0, true},
		{"limit=many", 0, 0, true},
	}
	for _, tc := range cases {
		r := httptest.NewRequest(http.MethodGet, "/blogs?"+tc.query, nil)
		skip, limit, err := ParseWindow(r)
		if tc.invalid {
			assert.True(t, apperr.IsCode(err, apperr.CodeInvalid), tc.query)
			continue
		}
		require.NoError(t, err, tc.query)
		assert.Equal(t, tc.skip, skip, tc.query)
		assert.Equal(t, tc.limit, limit, tc.query)
	}
}

func TestGenerateSecureToken(t *testing.T) {
	a, err := GenerateSecureToken(32)
	require.NoError(t, err)
	b, err := GenerateSecureToken(32)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 43)
}
