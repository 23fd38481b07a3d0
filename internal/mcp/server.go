// Package mcp exposes the spark pipeline as MCP tools over stdio so
// agent frontends can drive it.
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kayz/motion/internal/notify"
	"github.com/kayz/motion/internal/orchestrator"
	"github.com/kayz/motion/internal/settings"
)

// ServerName identifies this MCP server.
const ServerName = "motion"

// ServerVersion is the released version string.
const ServerVersion = "0.3.0"

// Deps holds what the tool handlers need.
type Deps struct {
	SparksDir  string
	Extensions []string
	Settings   *settings.Store
	Client     orchestrator.Generator
	Notifier   *notify.Service
}

// NewServer creates the MCP server with all tools registered.
func NewServer(deps Deps) *server.MCPServer {
	s := server.NewMCPServer(
		ServerName,
		ServerVersion,
		server.WithToolCapabilities(true),
	)

	h := &Handlers{deps: deps}

	s.AddTool(mcp.NewTool("spark_list",
		mcp.WithDescription("List the spark records under the watched root, newest first"),
	), h.HandleSparkList)

	s.AddTool(mcp.NewTool("prompt_compile",
		mcp.WithDescription("Compile the prompt from the current sparks and settings without calling the model"),
		mcp.WithString("instruction", mcp.Description("Override the saved instruction text")),
		mcp.WithString("context", mcp.Description("Override the saved context text")),
		mcp.WithBoolean("as_json", mcp.Description("Format the Data section as a JSON array")),
	), h.HandlePromptCompile)

	s.AddTool(mcp.NewTool("generate",
		mcp.WithDescription("Compile the prompt and send it to the model endpoint, returning the reply"),
		mcp.WithString("instruction", mcp.Description("Override the saved instruction text")),
		mcp.WithString("context", mcp.Description("Override the saved context text")),
		mcp.WithBoolean("as_json", mcp.Description("Format the Data section as a JSON array")),
	), h.HandleGenerate)

	s.AddTool(mcp.NewTool("notify_send",
		mcp.WithDescription("Send an immediate system notification"),
		mcp.WithString("message", mcp.Required(), mcp.Description("Notification body")),
		mcp.WithString("title", mcp.Description("Notification title")),
	), h.HandleNotifySend)

	return s
}

// Run starts the MCP server using stdio transport.
func Run(deps Deps) error {
	return server.ServeStdio(NewServer(deps))
}
