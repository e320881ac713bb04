package main

import (
	"context"
	"flag"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	mcpadapter "renextract/internal/adapters/mcp"
	"renextract/internal/app"
	"renextract/internal/config"
	"renextract/internal/pkg/logger"
)

func main() {
	v := config.New()
	apiFlag := flag.String("api", "", "backend base URL")
	flag.Parse()
	if *apiFlag != "" {
		v.Set("api.base_url", *apiFlag)
	}

	cfg, err := config.Load(v)
	if err != nil {
		log.Fatalf("renextract-mcp: %v", err)
	}

	// stdout carries the protocol; logs stay on stderr unless a file is set
	if err := logger.Init(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, File: cfg.Log.File}); err != nil {
		log.Fatalf("renextract-mcp: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// stdin is the protocol stream, so manual path entry is not possible
	application, err := app.Bootstrap(ctx, cfg, nil)
	if err != nil {
		log.Fatalf("renextract-mcp: %v", err)
	}
	defer application.Shutdown()

	application.Stores.Start(ctx)

	mcpServer := server.NewMCPServer(
		"renextract-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("health",
			mcp.WithDescription("Check that the RenExtract backend answers"),
		),
		func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			h, err := application.Backend.Health(ctx)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return mcp.NewToolResultText(h.Status + ": " + h.Message), nil
		},
	)

	mcpadapter.RegisterReadTools(mcpServer, application.Stores)
	mcpadapter.RegisterWriteTools(mcpServer, application.Stores)

	logger.Info("serving MCP on stdio", zap.String("base_url", cfg.API.BaseURL))
	if err := server.ServeStdio(mcpServer); err != nil {
		logger.Error("mcp server stopped", zap.Error(err))
	}
}
