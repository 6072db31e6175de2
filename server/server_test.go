package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tessera-analytics/tessera/dataset"
	"github.com/tessera-analytics/tessera/engine"
	"github.com/tessera-analytics/tessera/session"
)

const testCSV = "본부,지사,상호,이벤트시작일,청구금액,부실여부(체납제외)\n" +
	"수도권본부,서울지사,가맹점A,2025-01-15,1500000,-\n" +
	"수도권본부,경기지사,가맹점B,2025-02-01,2500000,부실\n" +
	"남부본부,부산지사,가맹점C,2024-06-01,800000,-\n"

func newTestServer(t *testing.T, secret string) *httptest.Server {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(testCSV), 0o644))

	loader := dataset.NewFileLoader(path, dataset.DefaultColumns(), 2025, time.Hour)
	srv := New(loader, session.NewRegistry(0), engine.PassConfig{
		Levels:     []string{"hq", "branch", "account"},
		MeasureKey: "amount",
		CutoffYear: 2025,
		FlagKey:    "부실여부(체납제외)",
		Sentinel:   dataset.Sentinel,
	}, secret)

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func createSession(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	resp, err := http.Post(ts.URL+"/api/sessions", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var s session.Session
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&s))
	return s.ID
}

func TestRenderFreshSession(t *testing.T) {
	ts := newTestServer(t, "")
	id := createSession(t, ts)

	resp, err := http.Get(ts.URL + "/api/sessions/" + id + "/render")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result engine.PassResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	require.Equal(t, 3, result.KPIs.TotalRecords)
	require.Equal(t, 1, result.KPIs.DelinquentCount)
	require.Len(t, result.Options, 3)
	require.ElementsMatch(t, []string{"남부본부", "수도권본부"}, result.Options[0].Candidates)
}

func TestUpdateNarrowsAndSwitchesMode(t *testing.T) {
	ts := newTestServer(t, "")
	id := createSession(t, ts)

	body, _ := json.Marshal(map[string]any{
		"selections": map[string][]string{"hq": {"수도권본부"}},
		"mode":       "revenue",
	})
	req, err := http.NewRequest(http.MethodPut, ts.URL+"/api/sessions/"+id, bytes.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result engine.PassResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	require.Equal(t, 2, result.KPIs.TotalRecords)
	require.Equal(t, engine.Revenue, result.Mode)
	// 4,000,000 → millions unit
	require.Equal(t, "4.0백만", result.KPIs.Headline)
}

func TestRenderGroupByParam(t *testing.T) {
	ts := newTestServer(t, "")
	id := createSession(t, ts)

	resp, err := http.Get(ts.URL + "/api/sessions/" + id + "/render?group_by=period")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result engine.PassResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	require.NotNil(t, result.Custom)
	require.Equal(t, "period 요약", result.Custom.Title)
	require.Len(t, result.Custom.Table.Rows, 3)
}

func TestRenderUnknownSession(t *testing.T) {
	ts := newTestServer(t, "")
	resp, err := http.Get(ts.URL + "/api/sessions/nope/render")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestExportSecretGate(t *testing.T) {
	ts := newTestServer(t, "letmein")
	id := createSession(t, ts)

	resp, err := http.Get(ts.URL + "/api/sessions/" + id + "/export")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/api/sessions/" + id + "/export?secret=letmein")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "text/csv; charset=utf-8", resp.Header.Get("Content-Type"))
}

func TestExportContent(t *testing.T) {
	ts := newTestServer(t, "")
	id := createSession(t, ts)

	resp, err := http.Get(ts.URL + "/api/sessions/" + id + "/export")
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)

	out := buf.String()
	require.True(t, strings.HasPrefix(out, "\ufeff"))
	require.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 4, "header plus three rows")
	require.Contains(t, out, "가맹점A")
}
