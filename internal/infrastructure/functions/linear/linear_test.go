package linear

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/jan-agent-gateway/internal/domain/tool"
)

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// graphQLServer answers every request with respond(req) and records what it received.
func graphQLServer(t *testing.T, respond func(req gqlRequest) (int, string)) (*httptest.Server, *[]gqlRequest) {
	t.Helper()
	var received []gqlRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "lin_api_test", r.Header.Get("Authorization"))
		var req gqlRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		received = append(received, req)

		status, body := respond(req)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &received
}

func run(t *testing.T, srv *httptest.Server, name string, args map[string]any) tool.Result {
	t.Helper()
	exec, err := New(srv.URL+"/graphql", 5*time.Second)
	require.NoError(t, err)
	return exec.Execute(context.Background(), name, args, "lin_api_test")
}

func TestCatalog(t *testing.T) {
	exec, err := New("https://api.linear.app/graphql", time.Second)
	require.NoError(t, err)

	var names []string
	for _, d := range exec.Descriptors() {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{
		"linear_get_viewer", "linear_list_teams", "linear_list_projects", "linear_list_issues", "linear_search_issues",
		"linear_get_issue", "linear_create_issue", "linear_update_issue", "linear_add_comment",
	}, names)
}

func TestGetViewer(t *testing.T) {
	srv, received := graphQLServer(t, func(req gqlRequest) (int, string) {
		return http.StatusOK, `{"data":{"viewer":{"id":"u1","name":"Ada","email":"ada@example.com"}}}`
	})

	result := run(t, srv, "linear_get_viewer", nil)
	require.False(t, result.IsError(), result.ErrorMessage())
	assert.JSONEq(t, `{"id":"u1","name":"Ada","email":"ada@example.com"}`, result.Content())
	require.Len(t, *received, 1)
	assert.Contains(t, (*received)[0].Query, "viewer")
}

func TestListIssuesBuildsFilter(t *testing.T) {
	srv, received := graphQLServer(t, func(req gqlRequest) (int, string) {
		return http.StatusOK, `{"data":{"issues":{"nodes":[{"id":"i1","identifier":"ENG-1","title":"Fix","url":"u","priority":2,"state":{"name":"Todo"}}]}}}`
	})

	result := run(t, srv, "linear_list_issues", map[string]any{"team_id": "t1", "state": "Todo", "first": 5})
	require.False(t, result.IsError(), result.ErrorMessage())

	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(result.Content()), &out))
	assert.Equal(t, float64(1), out["count"])

	vars := (*received)[0].Variables
	assert.Equal(t, float64(5), vars["first"])
	filter := vars["filter"].(map[string]any)
	assert.Equal(t, map[string]any{"id": map[string]any{"eq": "t1"}}, filter["team"])
	assert.NotContains(t, filter, "assignee")
}

func TestSearchIssuesDefaultsFirst(t *testing.T) {
	srv, received := graphQLServer(t, func(req gqlRequest) (int, string) {
		return http.StatusOK, `{"data":{"searchIssues":{"nodes":[]}}}`
	})

	result := run(t, srv, "linear_search_issues", map[string]any{"query": "login bug"})
	require.False(t, result.IsError(), result.ErrorMessage())
	assert.Equal(t, float64(defaultFirst), (*received)[0].Variables["first"])
	assert.Equal(t, "login bug", (*received)[0].Variables["term"])
}

func TestCreateIssue(t *testing.T) {
	srv, received := graphQLServer(t, func(req gqlRequest) (int, string) {
		return http.StatusOK, `{"data":{"issueCreate":{"success":true,"issue":{"id":"i9","identifier":"ENG-9","title":"New","url":"u"}}}}`
	})

	result := run(t, srv, "linear_create_issue", map[string]any{"team_id": "t1", "title": "New", "priority": 0})
	require.False(t, result.IsError(), result.ErrorMessage())

	input := (*received)[0].Variables["input"].(map[string]any)
	assert.Equal(t, "t1", input["teamId"])
	assert.Equal(t, float64(0), input["priority"])
	assert.NotContains(t, input, "description")
}

func TestUpdateIssueRequiresAField(t *testing.T) {
	srv, received := graphQLServer(t, func(req gqlRequest) (int, string) {
		return http.StatusOK, `{}`
	})

	result := run(t, srv, "linear_update_issue", map[string]any{"id": "ENG-1"})
	require.True(t, result.IsError())
	assert.Contains(t, result.ErrorMessage(), "at least one field")
	assert.Empty(t, *received)
}

func TestAddComment(t *testing.T) {
	srv, _ := graphQLServer(t, func(req gqlRequest) (int, string) {
		if !strings.Contains(req.Query, "commentCreate") {
			return http.StatusBadRequest, `{"errors":[{"message":"unexpected query"}]}`
		}
		return http.StatusOK, `{"data":{"commentCreate":{"success":true,"comment":{"id":"c1","body":"done"}}}}`
	})

	result := run(t, srv, "linear_add_comment", map[string]any{"issue_id": "ENG-1", "body": "done"})
	require.False(t, result.IsError(), result.ErrorMessage())
	assert.JSONEq(t, `{"id":"c1","body":"done"}`, result.Content())
}

func TestGraphQLErrorsAreFailures(t *testing.T) {
	srv, _ := graphQLServer(t, func(req gqlRequest) (int, string) {
		return http.StatusOK, `{"data":null,"errors":[{"message":"Entity not found"},{"message":"second"}]}`
	})

	result := run(t, srv, "linear_get_issue", map[string]any{"id": "ENG-404"})
	require.True(t, result.IsError())
	assert.Equal(t, "linear API error: Entity not found; second", result.ErrorMessage())
}

func TestHTTPErrorIsFailure(t *testing.T) {
	srv, _ := graphQLServer(t, func(req gqlRequest) (int, string) {
		return http.StatusUnauthorized, `{"errors":[{"message":"Authentication required"}]}`
	})

	result := run(t, srv, "linear_list_teams", nil)
	require.True(t, result.IsError())
	assert.Equal(t, "linear API returned 401: Authentication required", result.ErrorMessage())
}

func TestValidationHappensBeforeAnyCall(t *testing.T) {
	srv, received := graphQLServer(t, func(req gqlRequest) (int, string) {
		return http.StatusOK, `{}`
	})

	result := run(t, srv, "linear_create_issue", map[string]any{"title": "no team"})
	require.True(t, result.IsError())
	assert.Contains(t, result.ErrorMessage(), "team_id is required")
	assert.Empty(t, *received)
}
