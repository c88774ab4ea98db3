package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/idfmboard/idfmboard/pkg/ctdf"
	"github.com/idfmboard/idfmboard/pkg/realtime/idfmdepartures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBoards struct {
	boards    map[string]*ctdf.DepartureBoard
	refreshed []string
}

func newFakeBoards() *fakeBoards {
	return &fakeBoards{boards: map[string]*ctdf.DepartureBoard{
		"Gare de Lyon": {
			Name: "Gare de Lyon",
			Header: &ctdf.DepartureBoardHeader{
				Badge:    "D",
				Mode:     ctdf.TransportModeRER,
				Origin:   "Gare de Lyon",
				Operator: "SNCF",
			},
			Rows:        []ctdf.DepartureBoardRow{{Vehicle: "ZOVA", Destination: "Melun", Minutes: "3"}},
			LastUpdated: time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC),
			Routes:      []*ctdf.RouteStops{{RouteID: "route:south", Sens: "1"}},
		},
	}}
}

func (f *fakeBoards) Boards() []*ctdf.DepartureBoard {
	return []*ctdf.DepartureBoard{f.boards["Gare de Lyon"]}
}

func (f *fakeBoards) Board(name string) (*ctdf.DepartureBoard, error) {
	board, ok := f.boards[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", idfmdepartures.ErrUnknownBoard, name)
	}
	return board, nil
}

func (f *fakeBoards) Refresh(ctx context.Context, name string) (*ctdf.DepartureBoard, error) {
	f.refreshed = append(f.refreshed, name)
	return f.Board(name)
}

func request(t *testing.T, boards *fakeBoards, method string, target string, body string) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := NewApp(boards).Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	contents, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(contents) > 0 && contents[0] == '{' {
		require.NoError(t, json.Unmarshal(contents, &decoded))
	}

	return resp.StatusCode, decoded
}

func TestVersion(t *testing.T) {
	status, body := request(t, newFakeBoards(), http.MethodGet, "/core/version", "")

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "v1.0", body["version"])
}

func TestListBoards(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/core/boards", nil)
	resp, err := NewApp(newFakeBoards()).Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var summaries []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summaries))

	require.Len(t, summaries, 1)
	assert.Equal(t, "Gare de Lyon", summaries[0]["name"])
	assert.Equal(t, 1.0, summaries[0]["rows"])
	assert.Equal(t, "2024-01-01T08:00:00Z", summaries[0]["lastUpdated"])
}

func TestGetBoard(t *testing.T) {
	status, body := request(t, newFakeBoards(), http.MethodGet, "/core/boards/Gare%20de%20Lyon", "")

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Gare de Lyon", body["name"])
	assert.Len(t, body["rows"], 1)
	assert.NotContains(t, body, "routes")
	assert.NotContains(t, body["header"], "operator")
}

func TestGetBoardDetailed(t *testing.T) {
	status, body := request(t, newFakeBoards(), http.MethodGet, "/core/boards/Gare%20de%20Lyon?detailed=true", "")

	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["routes"], 1)
	assert.Equal(t, "SNCF", body["header"].(map[string]any)["operator"])
}

func TestUnknownBoard(t *testing.T) {
	status, body := request(t, newFakeBoards(), http.MethodGet, "/core/boards/Nowhere", "")

	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, body["error"], "unknown board")
}

func TestRefreshBoard(t *testing.T) {
	boards := newFakeBoards()
	status, _ := request(t, boards, http.MethodPost, "/core/boards/Gare%20de%20Lyon/refresh", "")

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{"Gare de Lyon"}, boards.refreshed)
}

func TestEditorParseURL(t *testing.T) {
	status, body := request(t, newFakeBoards(), http.MethodPost, "/core/editor/parse-url", `{
		"url": "https://www.iledefrance-mobilites.fr/itineraires/line%3AIDFM%3AC01729/horaires?arrivalId=stop_area%3AIDFM%3A73798&departureId=stop_area%3AIDFM%3A67897&direction=-1",
		"card": {"name": "Commute", "line": "line:IDFM:C01727", "station": "stop_area:IDFM:71", "maxTrainsShown": 4}
	}`)

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["applied"])

	card := body["card"].(map[string]any)
	assert.Equal(t, "Commute", card["name"])
	assert.Equal(t, "line:IDFM:C01729", card["line"])
	assert.Equal(t, "stop_area:IDFM:67897", card["station"])
	assert.Equal(t, "stop_area:IDFM:73798", card["arrivalStation"])
	assert.Equal(t, "R", card["direction"])
	assert.Equal(t, 4.0, card["maxTrainsShown"])
}

func TestEditorParseURLPartialMatch(t *testing.T) {
	status, body := request(t, newFakeBoards(), http.MethodPost, "/core/editor/parse-url", `{
		"url": "https://www.iledefrance-mobilites.fr/itineraires/line%3AIDFM%3AC01729/horaires",
		"card": {"line": "line:IDFM:C01727", "station": "stop_area:IDFM:71"}
	}`)

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["applied"])
	assert.Equal(t, "line:IDFM:C01727", body["card"].(map[string]any)["line"])
	assert.Equal(t, "line:IDFM:C01729", body["extracted"].(map[string]any)["line"])
}

func TestEditorRejectsMissingURL(t *testing.T) {
	status, _ := request(t, newFakeBoards(), http.MethodPost, "/core/editor/parse-url", `{"card": {}}`)
	assert.Equal(t, http.StatusBadRequest, status)
}
