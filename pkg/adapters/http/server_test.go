package http_test

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/narrator"
	narratorhttp "github.com/aretw0/narrator/pkg/adapters/http"
	"github.com/aretw0/narrator/pkg/adapters/memory"
	"github.com/aretw0/narrator/pkg/domain"
	"github.com/aretw0/narrator/pkg/observability"
	"github.com/aretw0/narrator/pkg/tools"
)

func testStory() *domain.Story {
	return memory.MustStory("North", "S1",
		domain.Scene{ID: "S1", Title: "Crossroads", Narration: "Two roads.", Choices: []domain.Choice{
			{ID: "c1", Label: "Go north", NextScene: "S2"},
			{ID: "c2", Label: "Go south", NextScene: "S3"},
		}},
		domain.Scene{ID: "S2", Title: "Cliff", Choices: []domain.Choice{
			{ID: "end", Label: "Jump"},
		}},
		domain.Scene{ID: "S3", Title: "Beach"},
	)
}

type fixture struct {
	handler http.Handler
	streams *narratorhttp.StreamManager
	metrics *observability.Metrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	streams := narratorhttp.NewStreamManager(nil)
	metrics := observability.NewMetrics()
	eng, err := narrator.New("",
		narrator.WithStory(testStory()),
		narrator.WithLifecycleHooks(observability.ChainHooks(metrics.Hooks(), streams.Hooks())),
	)
	require.NoError(t, err)

	h := narratorhttp.NewHandler(tools.NewService(eng),
		narratorhttp.WithStreams(streams),
		narratorhttp.WithMetrics(metrics.Handler()),
	)
	return &fixture{handler: h, streams: streams, metrics: metrics}
}

func (f *fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	f.handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func (f *fixture) start(t *testing.T) string {
	t.Helper()
	rr := f.do(t, http.MethodPost, "/sessions", "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decode[tools.StartGameResponse](t, rr).SessionID
}

func TestGetHealth(t *testing.T) {
	rr := newFixture(t).do(t, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, rr)["status"])
}

func TestGetInfo(t *testing.T) {
	rr := newFixture(t).do(t, http.MethodGet, "/info", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		App     string          `json:"app"`
		Version string          `json:"version"`
		Story   tools.StoryInfo `json:"story"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "narrator-http", resp.App)
	assert.NotEmpty(t, resp.Version)
	assert.Equal(t, "North", resp.Story.Title)
	assert.Equal(t, 3, resp.Story.SceneCount)
	assert.True(t, resp.Story.Loaded)
}

func TestStartGame(t *testing.T) {
	f := newFixture(t)

	t.Run("Default Start", func(t *testing.T) {
		rr := f.do(t, http.MethodPost, "/sessions", "")
		require.Equal(t, http.StatusCreated, rr.Code)
		res := decode[tools.StartGameResponse](t, rr)
		assert.NotEmpty(t, res.SessionID)
		require.NotNil(t, res.Scene)
		assert.Equal(t, "S1", res.Scene.ID)
	})

	t.Run("Override", func(t *testing.T) {
		rr := f.do(t, http.MethodPost, "/sessions", `{"start_scene_override":"S2"}`)
		require.Equal(t, http.StatusCreated, rr.Code)
		assert.Equal(t, "S2", decode[tools.StartGameResponse](t, rr).Scene.ID)
	})

	t.Run("Malformed Body", func(t *testing.T) {
		rr := f.do(t, http.MethodPost, "/sessions", `{`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, tools.CodeInvalidInput, decode[tools.Failure](t, rr).Error)
	})
}

func TestChooseOption(t *testing.T) {
	f := newFixture(t)
	sid := f.start(t)

	rr := f.do(t, http.MethodPost, "/sessions/"+sid+"/choices", `{"utterance":"I want to go north"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var res struct {
		AppliedChoice domain.ChoicePayload `json:"applied_choice"`
		NextScene     *domain.ScenePayload `json:"next_scene"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.Equal(t, "c1", res.AppliedChoice.ID)
	require.NotNil(t, res.NextScene)
	assert.Equal(t, "Cliff", res.NextScene.Title)

	// The ending choice reports a null next scene.
	rr = f.do(t, http.MethodPost, "/sessions/"+sid+"/choices", `{"utterance":"jump"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"next_scene":null`)
}

func TestStatusMapping(t *testing.T) {
	f := newFixture(t)
	ended := f.start(t)
	f.do(t, http.MethodPost, "/sessions/"+ended+"/choices", `{"utterance":"go north"}`)
	f.do(t, http.MethodPost, "/sessions/"+ended+"/choices", `{"utterance":"jump"}`)
	live := f.start(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{"Unknown Session Scene", http.MethodGet, "/sessions/nope/scene", "", http.StatusNotFound, tools.CodeSessionNotFound},
		{"Unknown Session Choice", http.MethodPost, "/sessions/nope/choices", `{"utterance":"north"}`, http.StatusNotFound, tools.CodeSessionNotFound},
		{"Unknown Session Reset", http.MethodPost, "/sessions/nope/reset", "", http.StatusNotFound, tools.CodeSessionNotFound},
		{"Unknown Session Delete", http.MethodDelete, "/sessions/nope", "", http.StatusNotFound, tools.CodeSessionNotFound},
		{"Ended Story Scene", http.MethodGet, "/sessions/" + ended + "/scene", "", http.StatusConflict, tools.CodeNoCurrentScene},
		{"Ended Story Choice", http.MethodPost, "/sessions/" + ended + "/choices", `{"utterance":"north"}`, http.StatusConflict, tools.CodeSceneNotFound},
		{"No Match", http.MethodPost, "/sessions/" + live + "/choices", `{"utterance":"xyz unrelated"}`, http.StatusUnprocessableEntity, tools.CodeNoMatch},
		{"Malformed Choice", http.MethodPost, "/sessions/" + live + "/choices", `not json`, http.StatusBadRequest, tools.CodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := f.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, rr.Code, rr.Body.String())
			assert.Equal(t, tt.code, decode[tools.Failure](t, rr).Error)
		})
	}
}

func TestNoMatchCarriesChoices(t *testing.T) {
	f := newFixture(t)
	sid := f.start(t)

	rr := f.do(t, http.MethodPost, "/sessions/"+sid+"/choices", `{"utterance":"xyz unrelated"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	res := decode[tools.Failure](t, rr)
	assert.Equal(t, []string{"Go north", "Go south"}, res.AvailableChoices)
	assert.NotEmpty(t, res.Message)

	// The session did not move.
	rr = f.do(t, http.MethodGet, "/sessions/"+sid+"/scene", "")
	assert.Equal(t, "S1", decode[tools.SceneResponse](t, rr).Scene.ID)
}

func TestResetAndDelete(t *testing.T) {
	f := newFixture(t)
	sid := f.start(t)
	f.do(t, http.MethodPost, "/sessions/"+sid+"/choices", `{"utterance":"go south"}`)

	rr := f.do(t, http.MethodPost, "/sessions/"+sid+"/reset", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "S1", decode[tools.SceneResponse](t, rr).Scene.ID)

	rr = f.do(t, http.MethodGet, "/sessions", "")
	assert.Equal(t, []string{sid}, decode[tools.SessionsResponse](t, rr).Sessions)

	rr = f.do(t, http.MethodDelete, "/sessions/"+sid, "")
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = f.do(t, http.MethodGet, "/sessions", "")
	assert.Empty(t, decode[tools.SessionsResponse](t, rr).Sessions)
}

func TestGetGraph(t *testing.T) {
	f := newFixture(t)

	rr := f.do(t, http.MethodGet, "/graph", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.HasPrefix(rr.Body.String(), "graph TD"))
	assert.Contains(t, rr.Body.String(), `S1 -- "Go north" --> S2`)

	sid := f.start(t)
	rr = f.do(t, http.MethodGet, "/graph?session="+sid, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "class S1 current;")

	rr = f.do(t, http.MethodGet, "/graph?session=nope", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t)
	f.start(t)

	rr := f.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "narrator_sessions_started_total 1")
}

func TestCORS(t *testing.T) {
	rr := newFixture(t).do(t, http.MethodOptions, "/sessions", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestSubscribeEvents(t *testing.T) {
	f := newFixture(t)
	sid := f.start(t)

	srv := httptest.NewServer(f.handler)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/sessions/"+sid+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	scanner := bufio.NewScanner(resp.Body)
	require.True(t, scanner.Scan())
	assert.Equal(t, "event: ping", scanner.Text())
	require.True(t, scanner.Scan())
	assert.Equal(t, "data: connected", scanner.Text())
	require.True(t, scanner.Scan())

	f.do(t, http.MethodPost, "/sessions/"+sid+"/choices", `{"utterance":"go north"}`)

	require.True(t, scanner.Scan())
	assert.Equal(t, "event: choice_applied", scanner.Text())
	require.True(t, scanner.Scan())
	data := strings.TrimPrefix(scanner.Text(), "data: ")

	var ev domain.ChoiceEvent
	require.NoError(t, json.Unmarshal([]byte(data), &ev))
	assert.Equal(t, sid, ev.SessionID)
	assert.Equal(t, "S1", ev.FromScene)
	assert.Equal(t, "S2", ev.ToScene)
}
