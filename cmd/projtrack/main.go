// projtrack: project activity tracker MCP server
//
// An MCP server that lets an AI agent record a piece of work as a project
// session made of steps, metrics, insights and timeline events, and
// computes a summary report from them.
//
// Usage:
//
//	projtrack serve                 # Start MCP server (stdio transport)
//	projtrack sessions              # List recent sessions
//	projtrack report <session-id>   # Render a session report
//	projtrack call <tool> [json]    # Invoke a tool without an MCP client
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
