package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// splitTemplateTool returns the tool definition for split_template
func splitTemplateTool() mcp.Tool {
	return mcp.Tool{
		Name:        "split_template",
		Description: "Split a large infrastructure template into one self-contained template per configured section",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"source": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to the source template",
				},
				"out_dir": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path of the directory for split templates (default: configured out_dir)",
				},
				"dry_run": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, compute and report without writing files",
					"default":     false,
				},
			},
			Required: []string{"source"},
		},
	}
}

// optimizeTemplateTool returns the tool definition for optimize_template
func optimizeTemplateTool() mcp.Tool {
	return mcp.Tool{
		Name:        "optimize_template",
		Description: "Write a reduced copy of a template with comments and excess blank lines removed",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"source": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to the source template",
				},
				"optimized": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path of the optimized output (default: configured optimized path)",
				},
				"dry_run": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, compute and report without writing files",
					"default":     false,
				},
			},
			Required: []string{"source"},
		},
	}
}

// templateMetricsTool returns the tool definition for template_metrics
func templateMetricsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "template_metrics",
		Description: "Report line and byte reduction for splitting and optimizing a template without writing anything",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"source": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to the source template",
				},
				"mode": map[string]interface{}{
					"type":        "string",
					"description": "Which transformations to measure",
					"enum":        []string{"split", "optimize", "all"},
					"default":     "all",
				},
			},
			Required: []string{"source"},
		},
	}
}
