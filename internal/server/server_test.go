package server

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/KaramelBytes/benford-cli/internal/analysis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, maxBytes int64) http.Handler {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(Config{MaxUploadBytes: maxBytes, Audit: analysis.DefaultOptions()}, log).Handler()
}

// uniformCSV has leading digits spread evenly over 1..9.
func uniformCSV(n int) string {
	var b strings.Builder
	b.WriteString("id,amount\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "r%d,%d\n", i, (i%9+1)*100+i%89)
	}
	return b.String()
}

// benfordCSV is log-uniform over two decades.
func benfordCSV(n int) string {
	var b strings.Builder
	b.WriteString("amount\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "%.6f\n", math.Pow(10, 2*(float64(i)+0.5)/float64(n)))
	}
	return b.String()
}

func upload(t *testing.T, path, filename, data string, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = io.WriteString(fw, data)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func do(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthAndBenford(t *testing.T) {
	h := newTestServer(t, 0)

	rec := do(h, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = do(h, httptest.NewRequest(http.MethodGet, "/v1/benford", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		Distribution map[string]float64 `json:"distribution"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Distribution, 9)
	assert.InDelta(t, math.Log10(2), got.Distribution["1"], 1e-12)
}

func TestAnalyze_Deviates(t *testing.T) {
	h := newTestServer(t, 0)
	rec := do(h, upload(t, "/v1/analyze", "data.csv", uniformCSV(900), map[string]string{"column": "amount"}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var s analysis.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
	assert.Equal(t, "amount", s.Column)
	assert.NotEmpty(t, s.RunID)
	assert.Equal(t, 100, s.Counts[1])
	assert.Len(t, s.Chart, 9)
	assert.Contains(t, rec.Body.String(), `"verdict":"DEVIATES"`)
	assert.NotEmpty(t, s.Exceeding)
}

func TestAnalyze_Threshold(t *testing.T) {
	h := newTestServer(t, 0)
	rec := do(h, upload(t, "/v1/analyze", "data.csv", uniformCSV(900), map[string]string{"threshold": "0.5"}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"verdict":"CONFORMS"`)

	rec = do(h, upload(t, "/v1/analyze", "data.csv", uniformCSV(9), map[string]string{"threshold": "abc"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyze_BadRequests(t *testing.T) {
	h := newTestServer(t, 0)

	cases := []struct {
		name     string
		filename string
		data     string
		fields   map[string]string
	}{
		{"missing file", "", "", nil},
		{"unknown column", "data.csv", uniformCSV(9), map[string]string{"column": "nope"}},
		{"no numeric column", "data.csv", "name\nalpha\nbeta\n", nil},
		{"legacy xls", "data.xls", "garbage", nil},
		{"all zero", "data.csv", "amount\n0\n0\n", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(h, upload(t, "/v1/analyze", tc.filename, tc.data, tc.fields))
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}
}

func TestAnalyze_TooLarge(t *testing.T) {
	h := newTestServer(t, 512)
	rec := do(h, upload(t, "/v1/analyze", "data.csv", uniformCSV(500), nil))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestAdjust_ReturnsCSV(t *testing.T) {
	h := newTestServer(t, 0)
	rec := do(h, upload(t, "/v1/adjust", "data.csv", uniformCSV(900), map[string]string{"column": "amount", "seed": "11"}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="benford_adjusted.csv"`)
	assert.Equal(t, "DEVIATES", rec.Header().Get("X-Benford-Verdict"))

	body := rec.Body.String()
	require.True(t, strings.HasPrefix(body, "\ufeff"), "missing BOM")
	rows, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(body, "\ufeff"))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 901)
	assert.Equal(t, []string{"id", "amount", "amount_benford"}, rows[0])
	assert.Equal(t, "r0", rows[1][0])

	// Same seed, same output.
	again := do(h, upload(t, "/v1/adjust", "data.csv", uniformCSV(900), map[string]string{"column": "amount", "seed": "11"}))
	require.Equal(t, http.StatusOK, again.Code)
	assert.Equal(t, body, again.Body.String())
}

func TestAdjust_ConformingNeedsForce(t *testing.T) {
	h := newTestServer(t, 0)
	rec := do(h, upload(t, "/v1/adjust", "data.csv", benfordCSV(2000), nil))
	require.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "CONFORMS")

	rec = do(h, upload(t, "/v1/adjust", "data.csv", benfordCSV(2000), map[string]string{"force": "true"}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "amount_benford")

	rec = do(h, upload(t, "/v1/adjust", "data.csv", benfordCSV(20), map[string]string{"force": "maybe"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
