package cmd

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/sjzsdu/arbor/lang"
	"github.com/sjzsdu/arbor/mcpserver"
	"github.com/sjzsdu/arbor/workspace"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: lang.T("MCP Server"),
	Long: lang.T("MCP Server for managing project files") + `

  arbor mcp                    # STDIO
  arbor mcp --transport http   # streamable HTTP
  arbor mcp --transport sse --port 9000`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().StringVar(&mcpTransport, "transport", "", lang.T("Transport (stdio, http, sse), stdio by default"))
	mcpCmd.Flags().StringVar(&mcpPort, "port", "8080", lang.T("HTTP/SSE server port"))
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := openSession(ctx, workspace.Options{})
	if err != nil {
		return err
	}
	defer s.Close()

	srv, err := mcpserver.New(s.ws, s.category, s.project)
	if err != nil {
		return err
	}

	transport := mcpTransport
	if transport == "" {
		transport = os.Getenv("MCP_TRANSPORT")
	}
	port := mcpPort
	if envPort := os.Getenv("MCP_PORT"); envPort != "" {
		port = envPort
	}

	stderr := cmd.ErrOrStderr()
	fmt.Fprintf(stderr, "%s: %s\n", lang.T("Project path"), s.root.AbsolutePath())
	switch transport {
	case "http":
		fmt.Fprintf(stderr, "http://localhost:%s\n", port)
		return server.NewStreamableHTTPServer(srv.MCP()).Start(":" + port)
	case "sse":
		fmt.Fprintf(stderr, "http://localhost:%s\n", port)
		return server.NewSSEServer(srv.MCP()).Start(":" + port)
	case "", "stdio":
		return server.ServeStdio(srv.MCP())
	default:
		return fmt.Errorf("%s: %s", lang.T("Unknown transport"), transport)
	}
}
