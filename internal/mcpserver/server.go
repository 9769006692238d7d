// Package mcpserver exposes the calculator panels as Model Context Protocol
// tools.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"nickandperla.net/calcpad/internal/panel"
	"nickandperla.net/calcpad/internal/settings"
	"nickandperla.net/calcpad/pkg/calcpad"
)

const (
	serverName    = "calcpad"
	serverVersion = "0.1.0"
	historyURI    = "calcpad://history"
)

// New creates an MCP server with every calculator tool registered.
func New(app *calcpad.App) *server.MCPServer {
	s := server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, true),
		server.WithRecovery(),
	)

	s.AddTools(Tools(app)...)
	addHistoryResource(s, app)
	return s
}

// Tools returns the calculator tools bound to app.
func Tools(app *calcpad.App) []server.ServerTool {
	return []server.ServerTool{
		evaluateTool(app),
		scientificTool(app),
		areaTool(app),
		historyListTool(app),
		historyClearTool(app),
		settingsGetTool(app),
		setPrecisionTool(app),
	}
}

// Serve runs the server over stdio until the input closes.
func Serve(app *calcpad.App) error {
	return server.ServeStdio(New(app))
}

func evaluateTool(app *calcpad.App) server.ServerTool {
	tool := mcp.NewTool("evaluate",
		mcp.WithDescription("Evaluate a calculator expression and record it in history"),
		mcp.WithString("expression",
			mcp.Required(),
			mcp.Description("Expression or definition, e.g. '2^10' or 'def square(x): return x*x'"),
		),
		mcp.WithString("panel",
			mcp.Description("Panel to evaluate on: scientific (default), programmable or standard"),
		),
	)

	return server.ServerTool{Tool: tool, Handler: func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		expression, ok := args["expression"].(string)
		if !ok || strings.TrimSpace(expression) == "" {
			return mcp.NewToolResultError("expression is required"), nil
		}

		name := calcpad.PanelScientific
		if p, ok := args["panel"].(string); ok && p != "" {
			parsed, err := calcpad.ParsePanel(p)
			if err != nil || parsed == calcpad.PanelArea {
				return mcp.NewToolResultError(fmt.Sprintf("panel %q cannot evaluate expressions", p)), nil
			}
			name = parsed
		}

		out, err := app.Eval(name, expression)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(out), nil
	}}
}

func scientificTool(app *calcpad.App) server.ServerTool {
	tool := mcp.NewTool("scientific_function",
		mcp.WithDescription("Apply a scientific function to an input (angles in degrees)"),
		mcp.WithString("function",
			mcp.Required(),
			mcp.Description("One of: "+strings.Join(panel.Functions, ", ")),
		),
		mcp.WithString("input",
			mcp.Required(),
			mcp.Description("Input expression; for x^y use 'base,exponent'"),
		),
	)

	return server.ServerTool{Tool: tool, Handler: func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		fn, ok := args["function"].(string)
		if !ok || fn == "" {
			return mcp.NewToolResultError("function is required"), nil
		}
		input, ok := args["input"].(string)
		if !ok || strings.TrimSpace(input) == "" {
			return mcp.NewToolResultError("input is required"), nil
		}

		return mcp.NewToolResultText(app.Scientific().Apply(fn, input)), nil
	}}
}

func areaTool(app *calcpad.App) server.ServerTool {
	tool := mcp.NewTool("area",
		mcp.WithDescription("Compute the area of a shape; optionally save it to history"),
		mcp.WithString("shape",
			mcp.Required(),
			mcp.Description("circle (radius), triangle (base, height), square (side) or rectangle (length, width)"),
		),
		mcp.WithString("dimensions",
			mcp.Required(),
			mcp.Description("Space or comma separated dimensions, e.g. '3' or '4, 5'"),
		),
		mcp.WithBoolean("save",
			mcp.Description("Append the result to history"),
		),
	)

	return server.ServerTool{Tool: tool, Handler: func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		name, _ := args["shape"].(string)
		shape, ok := panel.ParseShape(name)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("unknown shape %q", name)), nil
		}
		dims, _ := args["dimensions"].(string)
		inputs := strings.FieldsFunc(dims, func(r rune) bool { return r == ',' || r == ' ' })

		if save, _ := args["save"].(bool); save {
			return mcp.NewToolResultText(app.Area().CalculateAndSave(shape, inputs...)), nil
		}
		return mcp.NewToolResultText(app.Area().Calculate(shape, inputs...)), nil
	}}
}

func historyListTool(app *calcpad.App) server.ServerTool {
	tool := mcp.NewTool("history_list",
		mcp.WithDescription("List the calculation history, oldest first"),
		mcp.WithNumber("limit",
			mcp.Description("Return only the newest N entries"),
		),
	)

	return server.ServerTool{Tool: tool, Handler: func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		entries := app.History().Entries()
		if limit, ok := request.GetArguments()["limit"].(float64); ok && limit > 0 && int(limit) < len(entries) {
			entries = entries[len(entries)-int(limit):]
		}
		if len(entries) == 0 {
			return mcp.NewToolResultText("(no history)"), nil
		}
		return mcp.NewToolResultText(strings.Join(entries, "\n")), nil
	}}
}

func historyClearTool(app *calcpad.App) server.ServerTool {
	tool := mcp.NewTool("history_clear",
		mcp.WithDescription("Clear the calculation history"),
	)

	return server.ServerTool{Tool: tool, Handler: func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		n := app.History().Len()
		app.History().Clear()
		return mcp.NewToolResultText(fmt.Sprintf("Cleared %d entries", n)), nil
	}}
}

func settingsGetTool(app *calcpad.App) server.ServerTool {
	tool := mcp.NewTool("settings_get",
		mcp.WithDescription("Show the current settings as JSON"),
	)

	return server.ServerTool{Tool: tool, Handler: func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		data, err := json.MarshalIndent(app.Settings().Current(), "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error encoding settings: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}}
}

func setPrecisionTool(app *calcpad.App) server.ServerTool {
	tool := mcp.NewTool("set_precision",
		mcp.WithDescription("Set the number of decimal places in results and save the settings"),
		mcp.WithNumber("precision",
			mcp.Required(),
			mcp.Description("Digits after the decimal point"),
		),
	)

	return server.ServerTool{Tool: tool, Handler: func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		p, ok := request.GetArguments()["precision"].(float64)
		if !ok || p < 0 || p != math.Trunc(p) {
			return mcp.NewToolResultError("precision must be a whole number >= 0"), nil
		}
		cur, err := app.UpdateSettings(func(st *settings.Settings) {
			st.DecimalPrecision = settings.ClampPrecision(int(math.Min(p, settings.MaxPrecision)))
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error saving settings: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("decimal_precision = %d", cur.DecimalPrecision)), nil
	}}
}

func addHistoryResource(s *server.MCPServer, app *calcpad.App) {
	resource := mcp.NewResource(historyURI,
		"Calculation History",
		mcp.WithResourceDescription("The calculation history as a JSON array, oldest first"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		entries := app.History().Entries()
		if entries == nil {
			entries = []string{}
		}
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      historyURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}
