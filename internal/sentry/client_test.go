package sentry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Path   string
	Query  url.Values
	Header http.Header
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *[]recordedRequest) {
	t.Helper()

	var requests []recordedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, recordedRequest{Path: r.URL.Path, Query: r.URL.Query(), Header: r.Header.Clone()})
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	client, err := New(Config{APIToken: "test-token", Organization: "test-org", Host: server.URL})
	require.NoError(t, err)
	return client, &requests
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func TestNew(t *testing.T) {
	_, err := New(Config{Organization: "org"})
	require.ErrorIs(t, err, ErrMissingConfig)

	_, err = New(Config{APIToken: "token"})
	require.ErrorIs(t, err, ErrMissingConfig)

	client, err := New(Config{APIToken: "token", Organization: "org"})
	require.NoError(t, err)
	require.Equal(t, "https://sentry.io/api/0", client.BaseURL())
	require.Equal(t, "org", client.Organization())

	client, err = New(Config{APIToken: "token", Organization: "org", Host: "https://sentry.example.com/"})
	require.NoError(t, err)
	require.Equal(t, "https://sentry.example.com/api/0", client.BaseURL())
}

func TestClient_RequestShape(t *testing.T) {
	client, requests := newTestClient(t, respond(http.StatusOK, `{"slug":"web"}`))

	ctx := WithRequestID(context.Background(), "req-1")
	_, err := client.ProjectDetails(ctx, "web")
	require.NoError(t, err)

	require.Len(t, *requests, 1)
	req := (*requests)[0]
	require.Equal(t, "/api/0/projects/test-org/web/", req.Path)
	require.Equal(t, "Bearer test-token", req.Header.Get("Authorization"))
	require.Equal(t, "application/json", req.Header.Get("Content-Type"))
	require.Equal(t, "req-1", req.Header.Get("X-Request-ID"))
}

func TestClient_ListNormalization(t *testing.T) {
	arrayClient, _ := newTestClient(t, respond(http.StatusOK, `[{"slug":"web","name":"Web"},{"slug":"api","name":"API"}]`))
	envelopeClient, _ := newTestClient(t, respond(http.StatusOK, `{"data":[{"slug":"web","name":"Web"},{"slug":"api","name":"API"}],"meta":{}}`))

	fromArray, err := arrayClient.ListProjects(context.Background())
	require.NoError(t, err)
	fromEnvelope, err := envelopeClient.ListProjects(context.Background())
	require.NoError(t, err)

	require.Equal(t, fromArray, fromEnvelope)
	require.Len(t, fromArray, 2)
	require.Equal(t, "api", fromArray[1].String("slug"))
}

func TestClient_ListUnexpectedShape(t *testing.T) {
	for name, body := range map[string]string{
		"object without data": `{"detail":"nope"}`,
		"data not an array":   `{"data":{"slug":"web"}}`,
		"scalar":              `42`,
	} {
		t.Run(name, func(t *testing.T) {
			client, _ := newTestClient(t, respond(http.StatusOK, body))
			items, err := client.ListProjects(context.Background())
			require.NoError(t, err)
			require.Empty(t, items)
		})
	}
}

func TestClient_StatusErrors(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusBadRequest} {
		client, _ := newTestClient(t, respond(status, `{"detail":"missing"}`))
		_, err := client.IssueDetails(context.Background(), "1")

		var statusErr *HTTPStatusError
		require.True(t, errors.As(err, &statusErr))
		require.Equal(t, status, statusErr.StatusCode)
		require.True(t, IsNotFound(err))
	}

	client, _ := newTestClient(t, respond(http.StatusInternalServerError, `oops`))
	_, err := client.IssueDetails(context.Background(), "1")
	var statusErr *HTTPStatusError
	require.True(t, errors.As(err, &statusErr))
	require.False(t, IsNotFound(err))
}

func TestClient_ParseErrors(t *testing.T) {
	for name, body := range map[string]string{
		"invalid": `{not json`,
		"null":    `null`,
		"empty":   ``,
		"array":   `[1,2]`,
	} {
		t.Run(name, func(t *testing.T) {
			client, _ := newTestClient(t, respond(http.StatusOK, body))
			_, err := client.IssueDetails(context.Background(), "1")
			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr), "got %v", err)
		})
	}
}

func TestClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	client, err := New(Config{APIToken: "token", Organization: "org", Host: server.URL})
	require.NoError(t, err)

	_, err = client.ListProjects(context.Background())
	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
}

func TestClient_ProjectIssuesStatsPeriod(t *testing.T) {
	client, requests := newTestClient(t, respond(http.StatusOK, `[]`))
	ctx := context.Background()
	since := int64(1_700_000_000)

	cases := []struct {
		until  int64
		period string
	}{
		{since + 3600, "24h"},
		{since + 1_000_000, "14d"},
		{since + 2_000_000, ""},
	}
	for _, tc := range cases {
		_, err := client.ProjectIssues(ctx, "web", IssuesOptions{Limit: 75, Window: &Window{Since: since, Until: tc.until}})
		require.NoError(t, err)
	}
	_, err := client.ProjectIssues(ctx, "web", IssuesOptions{})
	require.NoError(t, err)

	require.Len(t, *requests, 4)
	for i, tc := range cases {
		q := (*requests)[i].Query
		require.Equal(t, "/api/0/projects/test-org/web/issues/", (*requests)[i].Path)
		require.Contains(t, q, "statsPeriod")
		require.Equal(t, tc.period, q.Get("statsPeriod"))
		require.Equal(t, "75", q.Get("limit"))
		require.NotContains(t, q, "since")
	}
	require.Equal(t, "24h", (*requests)[3].Query.Get("statsPeriod"))
	require.Equal(t, "100", (*requests)[3].Query.Get("limit"))
}

func TestClient_EpochQueryParams(t *testing.T) {
	client, requests := newTestClient(t, respond(http.StatusOK, `[[1700000000, 3]]`))
	ctx := context.Background()
	end := time.Unix(1_700_003_600, 0)
	window := WindowEnding(end, time.Hour)

	_, err := client.ProjectStats(ctx, "web", StatsOptions{Window: &window})
	require.NoError(t, err)
	_, err = client.IssuesBySort(ctx, "web", SortUsers, IssuesOptions{Limit: 5, Window: &window})
	require.NoError(t, err)
	_, err = client.ProjectEvents(ctx, "web", EventsOptions{Query: "level:error", Transactions: true})
	require.NoError(t, err)

	stats := (*requests)[0].Query
	require.Equal(t, "received", stats.Get("stat"))
	require.Equal(t, "1700000000", stats.Get("since"))
	require.Equal(t, "1700003600", stats.Get("until"))

	sorted := (*requests)[1].Query
	require.Equal(t, "users", sorted.Get("sort"))
	require.Equal(t, "24h", sorted.Get("statsPeriod"))
	require.Equal(t, "5", sorted.Get("limit"))

	events := (*requests)[2].Query
	require.Equal(t, "/api/0/projects/test-org/web/events/", (*requests)[2].Path)
	require.Equal(t, "level:error", events.Get("query"))
	require.Equal(t, "transaction", events.Get("field"))
	require.Equal(t, "-timestamp", events.Get("sort"))
	require.Equal(t, "100", events.Get("limit"))
	require.NotContains(t, events, "since")
}

func TestClient_IssuePaths(t *testing.T) {
	client, requests := newTestClient(t, respond(http.StatusOK, `[]`))
	ctx := context.Background()

	_, err := client.IssueEvents(ctx, "42", 1)
	require.NoError(t, err)
	_, err = client.IssueNotes(ctx, "42")
	require.NoError(t, err)
	_, err = client.IssueHashes(ctx, "42")
	require.NoError(t, err)
	_, err = client.ReleaseHealth(ctx, "web", "1.2.3")
	require.NoError(t, err)

	require.Equal(t, "/api/0/issues/42/events/", (*requests)[0].Path)
	require.Equal(t, "1", (*requests)[0].Query.Get("limit"))
	require.Equal(t, "/api/0/issues/42/notes/", (*requests)[1].Path)
	require.Equal(t, "/api/0/issues/42/hashes/", (*requests)[2].Path)
	require.Equal(t, "/api/0/projects/test-org/web/releases/", (*requests)[3].Path)
	require.Equal(t, "1.2.3", (*requests)[3].Query.Get("query"))
}

func TestStatsPeriod(t *testing.T) {
	require.Equal(t, "24h", StatsPeriod(nil))
	require.Equal(t, "24h", StatsPeriod(&Window{Since: 0, Until: 100}))
	require.Equal(t, "24h", StatsPeriod(&Window{Since: 1, Until: 1 + 24*3600}))
	require.Equal(t, "14d", StatsPeriod(&Window{Since: 1, Until: 1 + 25*3600}))
	require.Equal(t, "14d", StatsPeriod(&Window{Since: 1, Until: 1 + 336*3600}))
	require.Equal(t, "", StatsPeriod(&Window{Since: 1, Until: 1 + 337*3600}))
}
