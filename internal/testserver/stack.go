package testserver

import (
	"context"
	"log/slog"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/sentry-mcp/internal/domain/issue"
	"github.com/rpggio/sentry-mcp/internal/domain/project"
	"github.com/rpggio/sentry-mcp/internal/llm"
	"github.com/rpggio/sentry-mcp/internal/mcp"
	"github.com/rpggio/sentry-mcp/internal/sentry"
	"github.com/rpggio/sentry-mcp/internal/sqlite"
	"github.com/stretchr/testify/require"
)

// Stack is a connected MCP client talking to a server wired like the binary.
type Stack struct {
	API       *SentryAPI
	DB        *sqlite.DB
	Snapshots *sqlite.SnapshotRepository
	Cache     *project.Cache
	Session   *sdkmcp.ClientSession
	StoreKey  string
}

// New wires the sentry client, LLM client, project cache with its sqlite
// snapshot store, domain services and MCP server, then connects a client
// over in-memory transports.
func New(t *testing.T) *Stack {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.DiscardHandler)
	api := NewSentryAPI(t)

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { _ = db.Close() })

	client, err := sentry.New(sentry.Config{
		APIToken:     Token,
		Organization: Organization,
		Host:         api.URL(),
		Logger:       logger,
	})
	require.NoError(t, err)

	completer, err := llm.New(llm.Config{
		APIKey:  "test-llm-key",
		BaseURL: api.URL() + "/v1",
		Logger:  logger,
	})
	require.NoError(t, err)

	snapshots := sqlite.NewSnapshotRepository(db)
	storeKey := api.URL() + "|" + Organization
	cache := project.NewCache(client, project.CacheConfig{
		Store:    snapshots,
		StoreKey: storeKey,
		Now:      func() time.Time { return Now },
		Logger:   logger,
	})

	server := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Resolver: project.NewResolver(cache, completer, logger),
			Projects: project.NewService(client, logger),
			Issues:   issue.NewService(client, logger, issue.WithClock(func() time.Time { return Now }), issue.WithLocation(time.UTC)),
		},
		TransportMode: "stdio",
		Logger:        logger,
	})

	clientTransport, serverTransport := sdkmcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Close() })

	mcpClient := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "testserver", Version: "0.0.1"}, nil)
	session, err := mcpClient.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })

	return &Stack{
		API:       api,
		DB:        db,
		Snapshots: snapshots,
		Cache:     cache,
		Session:   session,
		StoreKey:  storeKey,
	}
}

// Call invokes a tool and decodes its JSON text result.
func (s *Stack) Call(t *testing.T, tool string, args map[string]any) map[string]any {
	t.Helper()
	res, err := s.Session.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: tool, Arguments: args})
	require.NoError(t, err)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])

	var out map[string]any
	require.NoError(t, decodeJSON(text.Text, &out))
	return out
}
