package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kayz/motion/internal/prompt"
	"github.com/kayz/motion/internal/settings"
	"github.com/kayz/motion/internal/spark"
)

// Handlers holds dependencies for the MCP tool handlers.
type Handlers struct {
	deps Deps
}

// sparkListItem is the per-record shape returned by spark_list.
type sparkListItem struct {
	ID            string `json:"id"`
	Title         string `json:"title,omitempty"`
	Category      string `json:"category"`
	CreatedDate   string `json:"created_date"`
	TokenEstimate int    `json:"token_estimate"`
}

// HandleSparkList returns the current record list and count.
func (h *Handlers) HandleSparkList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snapshot := spark.LoadOnce(h.deps.SparksDir, h.deps.Extensions)

	items := make([]sparkListItem, 0, len(snapshot.Records))
	for _, record := range snapshot.Records {
		items = append(items, sparkListItem{
			ID:            record.ID,
			Title:         record.Title,
			Category:      record.Category,
			CreatedDate:   record.CreatedDate.Format(time.RFC3339),
			TokenEstimate: record.TokenEstimate,
		})
	}

	payload := struct {
		Count   int             `json:"count"`
		Records []sparkListItem `json:"records"`
	}{Count: snapshot.Count, Records: items}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode records: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// HandlePromptCompile compiles the prompt without calling the model.
func (h *Handlers) HandlePromptCompile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in := h.buildInputs(req)
	compiled := prompt.Compile(in, time.Now(), prompt.Region())
	return mcp.NewToolResultText(compiled), nil
}

// HandleGenerate compiles the prompt and calls the model endpoint.
func (h *Handlers) HandleGenerate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in := h.buildInputs(req)
	compiled := prompt.Compile(in, time.Now(), prompt.Region())

	text, err := h.deps.Client.Generate(ctx, compiled)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

// HandleNotifySend fires an immediate system notification.
func (h *Handlers) HandleNotifySend(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	message, ok := req.Params.Arguments["message"].(string)
	if !ok || message == "" {
		return mcp.NewToolResultError("message is required"), nil
	}

	title := ""
	if t, ok := req.Params.Arguments["title"].(string); ok {
		title = t
	}

	id := h.deps.Notifier.SendImmediate(message, title)
	return mcp.NewToolResultText("Notification queued: " + id), nil
}

// buildInputs assembles the compiler inputs from the saved settings,
// the current spark set and any per-call overrides.
func (h *Handlers) buildInputs(req mcp.CallToolRequest) prompt.Inputs {
	instruction := h.deps.Settings.Get(settings.KeyInstruction)
	if v, ok := req.Params.Arguments["instruction"].(string); ok && v != "" {
		instruction = v
	}
	contextText := h.deps.Settings.Get(settings.KeyContext)
	if v, ok := req.Params.Arguments["context"].(string); ok && v != "" {
		contextText = v
	}
	asJSON := h.deps.Settings.GetBool(settings.KeyFormatJSON)
	if v, ok := req.Params.Arguments["as_json"].(bool); ok {
		asJSON = v
	}

	snapshot := spark.LoadOnce(h.deps.SparksDir, h.deps.Extensions)
	data := spark.Aggregate(snapshot.Records, spark.SelectAll(snapshot.Records), asJSON)

	return prompt.Inputs{
		Instruction:      instruction,
		ExtraInstruction: h.deps.Settings.Get(settings.KeyExtraInstruction),
		Context:          contextText,
		Data:             data,
	}
}
