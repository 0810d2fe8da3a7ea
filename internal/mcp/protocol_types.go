package mcp

// ToolDefinition describes a callable tool
type ToolDefinition struct {
	Name        string         `json:"name"`
	Title       string         `json:"title,omitempty"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
	// ErrorPrefix is prepended to unexpected failures of the tool.
	ErrorPrefix string `json:"-"`
}
