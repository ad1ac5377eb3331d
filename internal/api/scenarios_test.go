package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seantiz/asyncdemo/internal/model"
	"github.com/seantiz/asyncdemo/internal/scenario"
)

func TestListScenarios(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/v1/scenarios")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var infos []scenario.Info
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&infos))
	require.Len(t, infos, len(model.ComparisonOrder))

	byName := make(map[string]scenario.Info, len(infos))
	for i, info := range infos {
		if i > 0 {
			assert.Less(t, infos[i-1].Name, info.Name, "scenarios must be sorted")
		}
		byName[info.Name] = info
	}
	assert.True(t, byName[model.ScenarioBlocking].Blocking)
	assert.False(t, byName[model.ScenarioAsync].Blocking)
	assert.Equal(t, 2, byName[model.ScenarioParallel].DefaultTasks)
}

func TestListResponses(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	get := func() listResponsesResponse {
		resp, err := http.Get(ts.URL + "/v1/responses")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body listResponsesResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		return body
	}

	empty := get()
	assert.Equal(t, 0, empty.Total)
	assert.NotNil(t, empty.Responses)

	require.NoError(t, srv.store.SaveResponse(ctx, model.NewApiResponse(testPost, time.Now())))
	require.NoError(t, srv.store.SaveResponse(ctx, model.NewApiResponse("second", time.Now())))

	body := get()
	require.Equal(t, 2, body.Total)
	assert.Equal(t, testPost, body.Responses[0].Data)
	assert.Equal(t, "second", body.Responses[1].Data)
	assert.Less(t, body.Responses[0].ID, body.Responses[1].ID)
}
