// Package mcp implements the Model Context Protocol (MCP) server for cfnslim.
//
// The MCP server exposes three tools so an agent's tool-calling layer can
// drive the engine:
//   - split_template: Split a template into one document per section
//   - optimize_template: Write the comment- and blank-reduced template
//   - template_metrics: Measure both transformations without writing
//
// # Protocol Overview
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport:
//
//	Client → Server: {"method": "tools/call", "params": {...}}
//	Server → Client: {"result": {...}}
//
// The server is started with:
//
//	cfnslim serve
//
// # Tool: split_template
//
//	Request:
//	{
//	  "name": "split_template",
//	  "arguments": {
//	    "source": "/work/infra/template.yaml",
//	    "out_dir": "/work/infra/split",
//	    "dry_run": false
//	  }
//	}
//
//	Response:
//	{
//	  "documents": [
//	    {"name": "api-gateway", "filename": "api-gateway.yaml", "start": 10233, "end": 48120, ...}
//	  ],
//	  "skipped": [{"name": "monitoring", "reason": "section start marker not found: monitoring"}],
//	  "metrics": {"original_lines": 6012, "result_lines": 6240, ...}
//	}
//
// # Tool: optimize_template
//
//	Request:
//	{
//	  "name": "optimize_template",
//	  "arguments": {"source": "/work/infra/template.yaml"}
//	}
//
//	Response:
//	{
//	  "path": "template-optimized.yaml",
//	  "feasible": true,
//	  "line_threshold": 5500,
//	  "metrics": {"original_lines": 6012, "result_lines": 4110, ...}
//	}
//
// # Tool: template_metrics
//
// Runs the engine in dry-run mode and returns only the reduction metrics.
//
// # Error Handling
//
// Errors are returned as MCPError values with JSON-RPC codes:
//   - -32602: Invalid params (missing/relative paths, unknown mode)
//   - -32603: Internal error (split or write failure)
//   - -32001: Source template not found
//   - -32002: Another run is in progress
//
// # Logging
//
// The server logs to stderr through zap; stdout is reserved for the
// protocol.
package mcp
