package mcp

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/sentry-mcp/internal/domain/issue"
	"github.com/rpggio/sentry-mcp/internal/domain/project"
	"github.com/rpggio/sentry-mcp/internal/sentry"
)

var (
	// ErrUnknownTool is returned for a tool name outside the catalog.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrInvalidArguments is returned when tool arguments cannot be decoded.
	ErrInvalidArguments = errors.New("invalid arguments")
)

var callerSentinels = []error{
	project.ErrNameRequired,
	project.ErrInvalidInput,
	issue.ErrIssueIDRequired,
	issue.ErrInvalidInput,
	ErrUnknownTool,
	ErrInvalidArguments,
}

// callerMessage returns the message shown for errors that describe a bad
// request rather than a failure talking to Sentry. Context added by outer
// wrappers is dropped; the text starts at the domain error.
func callerMessage(err error) (string, bool) {
	var noMatch *project.NoMatchError
	if errors.As(err, &noMatch) {
		return noMatch.Error(), true
	}
	for _, sentinel := range callerSentinels {
		if !errors.Is(err, sentinel) {
			continue
		}
		msg := err.Error()
		if i := strings.Index(msg, sentinel.Error()); i >= 0 {
			return msg[i:], true
		}
		return sentinel.Error(), true
	}
	return "", false
}

func isCallerError(err error) bool {
	_, ok := callerMessage(err)
	return ok
}

const notFoundHint = "check the Sentry organization and project slug"

// toolErrorMessage renders err for the {"error": ...} body of a tool result.
func toolErrorMessage(prefix string, err error) string {
	if msg, ok := callerMessage(err); ok {
		return msg
	}
	msg := err.Error()
	if sentry.IsNotFound(err) {
		msg += " (" + notFoundHint + ")"
	}
	if prefix == "" {
		return msg
	}
	return prefix + ": " + msg
}

// jsonResult wraps v as a single JSON text content.
func jsonResult(v any) *sdkmcp.CallToolResult {
	data, err := json.Marshal(v)
	if err != nil {
		data, _ = json.Marshal(ErrorResponse{Error: fmt.Sprintf("failed to encode result: %v", err)})
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}
}
