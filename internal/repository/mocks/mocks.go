package mocks

import (
	"context"

	"github.com/rpggio/sentry-mcp/internal/domain/project"
	"github.com/rpggio/sentry-mcp/internal/payload"
	"github.com/rpggio/sentry-mcp/internal/sentry"
	"github.com/stretchr/testify/mock"
)

// Gateway is a mock for the Sentry API client.
type Gateway struct {
	mock.Mock
}

func (m *Gateway) ListProjects(ctx context.Context) ([]payload.Object, error) {
	args := m.Called(ctx)
	return objects(args.Get(0)), args.Error(1)
}

func (m *Gateway) ProjectDetails(ctx context.Context, projectSlug string) (payload.Object, error) {
	args := m.Called(ctx, projectSlug)
	return object(args.Get(0)), args.Error(1)
}

func (m *Gateway) ProjectIssues(ctx context.Context, projectSlug string, opts sentry.IssuesOptions) ([]payload.Object, error) {
	args := m.Called(ctx, projectSlug, opts)
	return objects(args.Get(0)), args.Error(1)
}

func (m *Gateway) IssuesBySort(ctx context.Context, projectSlug, sort string, opts sentry.IssuesOptions) ([]payload.Object, error) {
	args := m.Called(ctx, projectSlug, sort, opts)
	return objects(args.Get(0)), args.Error(1)
}

func (m *Gateway) ProjectStats(ctx context.Context, projectSlug string, opts sentry.StatsOptions) (any, error) {
	args := m.Called(ctx, projectSlug, opts)
	return args.Get(0), args.Error(1)
}

func (m *Gateway) ProjectEvents(ctx context.Context, projectSlug string, opts sentry.EventsOptions) ([]payload.Object, error) {
	args := m.Called(ctx, projectSlug, opts)
	return objects(args.Get(0)), args.Error(1)
}

func (m *Gateway) ReleaseHealth(ctx context.Context, projectSlug, release string) ([]payload.Object, error) {
	args := m.Called(ctx, projectSlug, release)
	return objects(args.Get(0)), args.Error(1)
}

func (m *Gateway) IssueDetails(ctx context.Context, issueID string) (payload.Object, error) {
	args := m.Called(ctx, issueID)
	return object(args.Get(0)), args.Error(1)
}

func (m *Gateway) IssueLatestEvent(ctx context.Context, issueID string) (payload.Object, error) {
	args := m.Called(ctx, issueID)
	return object(args.Get(0)), args.Error(1)
}

func (m *Gateway) IssueEvents(ctx context.Context, issueID string, limit int) ([]payload.Object, error) {
	args := m.Called(ctx, issueID, limit)
	return objects(args.Get(0)), args.Error(1)
}

func (m *Gateway) IssueNotes(ctx context.Context, issueID string) ([]payload.Object, error) {
	args := m.Called(ctx, issueID)
	return objects(args.Get(0)), args.Error(1)
}

func (m *Gateway) IssueHashes(ctx context.Context, issueID string) ([]payload.Object, error) {
	args := m.Called(ctx, issueID)
	return objects(args.Get(0)), args.Error(1)
}

// Completer is a mock for project.Completer.
type Completer struct {
	mock.Mock
}

func (m *Completer) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// SnapshotStore is a mock for project.SnapshotStore.
type SnapshotStore struct {
	mock.Mock
}

func (m *SnapshotStore) LoadSnapshot(ctx context.Context, key string) (*project.Snapshot, error) {
	args := m.Called(ctx, key)
	if snap, ok := args.Get(0).(*project.Snapshot); ok {
		return snap, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SnapshotStore) SaveSnapshot(ctx context.Context, snap *project.Snapshot) error {
	args := m.Called(ctx, snap)
	return args.Error(0)
}

func object(v any) payload.Object {
	if obj, ok := v.(payload.Object); ok {
		return obj
	}
	return nil
}

func objects(v any) []payload.Object {
	if list, ok := v.([]payload.Object); ok {
		return list
	}
	return nil
}
