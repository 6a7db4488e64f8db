package filter

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mikey/email-triage/internal/core"
	"github.com/mikey/email-triage/internal/taxonomy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestHTTP(maxBatch int) (*HTTPFilter, *fakeService) {
	svc := &fakeService{}
	return NewHTTPFilter(svc, taxonomy.Default(), zap.NewNop(), "127.0.0.1:0", maxBatch), svc
}

func do(t *testing.T, f *HTTPFilter, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.Handler().ServeHTTP(w, req)
	return w
}

func TestClassifyEndpoint(t *testing.T) {
	f, svc := newTestHTTP(10)

	w := do(t, f, http.MethodPost, "/api/classify",
		`{"subject":"Payment","body":"see attached","sender":"ap@acme.com","has_attachments":true}`)

	require.Equal(t, http.StatusOK, w.Code)
	var got core.ClassificationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Payment Confirmation", got.Subcategory)
	assert.Equal(t, core.MethodRuleHighConfidence, got.Method)
	require.Len(t, svc.seen, 1)
	assert.Equal(t, "ap@acme.com", svc.seen[0].Sender)
}

func TestClassifyEndpointRejectsBadInput(t *testing.T) {
	f, svc := newTestHTTP(10)

	assert.Equal(t, http.StatusBadRequest, do(t, f, http.MethodPost, "/api/classify", `{not json`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, f, http.MethodPost, "/api/classify", `{"sender":"x@y.com"}`).Code)
	assert.Empty(t, svc.seen)
}

func TestBatchEndpoint(t *testing.T) {
	f, _ := newTestHTTP(3)

	w := do(t, f, http.MethodPost, "/api/classify/batch",
		`{"emails":[{"subject":"a","body":"x"},{"subject":"b","body":"y","has_attachments":true}]}`)
	require.Equal(t, http.StatusOK, w.Code)

	var got batchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 2, got.Count)
	assert.Equal(t, "Complex Queries", got.Results[0].Subcategory)
	assert.Equal(t, "Payment Confirmation", got.Results[1].Subcategory)
}

func TestBatchEndpointLimits(t *testing.T) {
	f, _ := newTestHTTP(2)

	assert.Equal(t, http.StatusBadRequest, do(t, f, http.MethodPost, "/api/classify/batch", `{"emails":[]}`).Code)

	var items []string
	for i := 0; i < 3; i++ {
		items = append(items, fmt.Sprintf(`{"subject":"s%d","body":"b"}`, i))
	}
	w := do(t, f, http.MethodPost, "/api/classify/batch", `{"emails":[`+strings.Join(items, ",")+`]}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestLabelsEndpoint(t *testing.T) {
	f, _ := newTestHTTP(10)

	w := do(t, f, http.MethodGet, "/api/labels", "")
	require.Equal(t, http.StatusOK, w.Code)
	var all struct {
		Info      taxonomy.Info       `json:"info"`
		Hierarchy taxonomy.ExportNode `json:"hierarchy"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	assert.Equal(t, taxonomy.Default().Info(), all.Info)
	assert.Len(t, all.Hierarchy.Sublabels, len(taxonomy.Default().MainCategories()))

	w = do(t, f, http.MethodGet, "/api/labels?search=proof", "")
	require.Equal(t, http.StatusOK, w.Code)
	var found struct {
		Matches []labelMatch `json:"matches"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &found))
	require.NotEmpty(t, found.Matches)
	for _, m := range found.Matches {
		assert.Equal(t, m.Label, m.Path[len(m.Path)-1])
	}
}

func TestStatsEndpoints(t *testing.T) {
	f, svc := newTestHTTP(10)
	do(t, f, http.MethodPost, "/api/classify", `{"subject":"a","body":"b"}`)

	w := do(t, f, http.MethodGet, "/api/stats", "")
	require.Equal(t, http.StatusOK, w.Code)
	var snap core.StatsSnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, int64(1), snap.Processed)

	w = do(t, f, http.MethodPost, "/api/stats/reset", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, svc.resets)
}

func TestHealthAndDebug(t *testing.T) {
	f, _ := newTestHTTP(10)

	w := do(t, f, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)

	w = do(t, f, http.MethodPost, "/api/debug", `{"subject":"a","body":"b"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"result"`)
}
