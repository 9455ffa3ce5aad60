package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/spigell/cv-screener/internal/screening"
	"github.com/spigell/cv-screener/internal/store"
)

const (
	testResume = `Jane Doe
Senior Go engineer with 6 years of experience building Go microservices on Kubernetes.
Software Engineer at Google, 2018 - 2023
Bachelor of Science in Computer Science`
	testJD = `Backend Engineer
We need 5+ years of Go experience, Kubernetes and PostgreSQL.`
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newAnalyzer() *screening.Analyzer {
	var n atomic.Int64
	return screening.NewAnalyzer(
		screening.WithClock(func() time.Time { return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC) }),
		screening.WithIDGenerator(func(time.Time) string {
			return fmt.Sprintf("CND-%d-TEST", n.Add(1))
		}),
	)
}

func newTestServer(t *testing.T, withStore bool) *Server {
	t.Helper()

	var opts []Option
	if withStore {
		s, err := store.Open(":memory:")
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		opts = append(opts, WithRepository(s))
	}
	return New(newAnalyzer(), zaptest.NewLogger(t), opts...)
}

func do(t *testing.T, s *Server, req *http.Request) (int, envelope) {
	t.Helper()

	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.Unmarshal(body, &env), string(body))
	return resp.StatusCode, env
}

func postAnalyze(t *testing.T, s *Server, in screening.RawInput) (int, envelope) {
	t.Helper()

	payload, err := json.Marshal(in)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	return do(t, s, req)
}

func TestHealth(t *testing.T) {
	code, env := do(t, newTestServer(t, false), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)
}

func TestAnalyzeWithoutStore(t *testing.T) {
	s := newTestServer(t, false)

	code, env := postAnalyze(t, s, screening.RawInput{
		Resume:         testResume,
		JobDescription: testJD,
		Candidate:      screening.CandidateInfo{Name: "Jane Doe"},
	})
	require.Equal(t, http.StatusCreated, code)

	var resp analyzeResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Empty(t, resp.ID)
	assert.Equal(t, "CND-1-TEST", resp.Analysis.Basic.CandidateID)
	assert.Equal(t, "Jane Doe", resp.Analysis.Basic.Name)

	code, env = do(t, s, httptest.NewRequest(http.MethodGet, "/analyses", nil))
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.False(t, env.Success)
}

func TestAnalyzeValidation(t *testing.T) {
	s := newTestServer(t, false)

	code, env := postAnalyze(t, s, screening.RawInput{JobDescription: testJD})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, env.Message, "Resume is required")

	req := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	code, _ = do(t, s, req)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestAnalysesRoundTrip(t *testing.T) {
	s := newTestServer(t, true)

	code, env := postAnalyze(t, s, screening.RawInput{Resume: testResume, JobDescription: testJD})
	require.Equal(t, http.StatusCreated, code)

	var created analyzeResponse
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.NotEmpty(t, created.ID)

	code, env = do(t, s, httptest.NewRequest(http.MethodGet, "/analyses/CND-1-TEST", nil))
	require.Equal(t, http.StatusOK, code)

	var got screening.AnalysisOutput
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, created.Analysis.Basic, got.Basic)

	code, env = do(t, s, httptest.NewRequest(http.MethodGet, "/analyses?limit=10", nil))
	require.Equal(t, http.StatusOK, code)

	var list []store.Summary
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "CND-1-TEST", list[0].CandidateID)

	code, _ = do(t, s, httptest.NewRequest(http.MethodGet, "/analyses/CND-9-MISSING", nil))
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = do(t, s, httptest.NewRequest(http.MethodGet, "/analyses?recommendation=maybe", nil))
	assert.Equal(t, http.StatusBadRequest, code)

	other := string(screening.StrongHire)
	if created.Analysis.Basic.Recommendation == screening.StrongHire {
		other = string(screening.Reject)
	}
	req := httptest.NewRequest(http.MethodGet, "/analyses?recommendation="+url.QueryEscape(other), nil)
	code, env = do(t, s, req)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Empty(t, list)
}
