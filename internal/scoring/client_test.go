package scoring

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAnalyzeSuccess(t *testing.T) {
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/analyze", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"address": "0xabc",
			"verdict": "flagged",
			"confidence": 0.93,
			"transaction_count": 12,
			"features": {"Sent tnx": 7, "total ether balance": 1.5},
			"explanations": [["Sent tnx", 0.1234], ["total ether balance", -0.5678]]
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, testLogger())
	res, err := c.Analyze(context.Background(), "0xabc")
	require.NoError(t, err)

	assert.Equal(t, "0xabc", gotBody["address"])
	assert.Equal(t, VerdictFlagged, res.Verdict)
	assert.Equal(t, 0.93, res.Confidence)
	assert.Equal(t, 12, res.TransactionCount)
	assert.Equal(t, 7.0, res.Features[FeatureSentTx])
	require.Len(t, res.Explanations, 2)
	assert.Equal(t, Explanation{Feature: "Sent tnx", Impact: 0.1234}, res.Explanations[0])
	assert.Equal(t, Explanation{Feature: "total ether balance", Impact: -0.5678}, res.Explanations[1])
}

func TestAnalyzeOptionalFieldsAbsent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"address":"0xabc","verdict":"not flagged","confidence":0.5,"transaction_count":0}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, testLogger())
	res, err := c.Analyze(context.Background(), "0xabc")
	require.NoError(t, err)
	assert.Nil(t, res.Features)
	assert.Nil(t, res.Explanations)
}

func TestAnalyzeServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": "too many requests"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, testLogger())
	_, err := c.Analyze(context.Background(), "0xabc")

	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, http.StatusTooManyRequests, svcErr.StatusCode)
	assert.Equal(t, "too many requests", svcErr.Message)
	assert.False(t, errors.Is(err, ErrTransport))
}

func TestAnalyzeServiceErrorWithoutMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`<html>oops</html>`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, testLogger())
	_, err := c.Analyze(context.Background(), "0xabc")

	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Empty(t, svcErr.Message)
}

func TestAnalyzeTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewClient(srv.URL, time.Second, testLogger())
	_, err := c.Analyze(context.Background(), "0xabc")

	require.ErrorIs(t, err, ErrTransport)
	var svcErr *ServiceError
	assert.False(t, errors.As(err, &svcErr))
}

func TestAnalyzeMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, testLogger())
	_, err := c.Analyze(context.Background(), "0xabc")
	require.ErrorIs(t, err, ErrTransport)
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/", r.URL.Path)
		w.Write([]byte(`{"status":"healthy"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, testLogger())
	require.NoError(t, c.Health(context.Background()))

	srv.Close()
	require.ErrorIs(t, c.Health(context.Background()), ErrTransport)
}

func TestExplanationUnmarshal(t *testing.T) {
	var e Explanation
	require.NoError(t, json.Unmarshal([]byte(`["Sent tnx", 0.25]`), &e))
	assert.Equal(t, Explanation{Feature: "Sent tnx", Impact: 0.25}, e)

	assert.Error(t, json.Unmarshal([]byte(`["only one"]`), &e))
	assert.Error(t, json.Unmarshal([]byte(`[1, 2]`), &e))
	assert.Error(t, json.Unmarshal([]byte(`["name", "not a number"]`), &e))
}
