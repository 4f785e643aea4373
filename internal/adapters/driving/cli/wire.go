package cli

import (
	"context"
	"os"

	"github.com/custodia-labs/sharepoint-mcp/internal/adapters/driven/auth"
	"github.com/custodia-labs/sharepoint-mcp/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/sharepoint-mcp/internal/adapters/driving/mcp"
	"github.com/custodia-labs/sharepoint-mcp/internal/connectors/graph"
	"github.com/custodia-labs/sharepoint-mcp/internal/core/domain"
	"github.com/custodia-labs/sharepoint-mcp/internal/core/ports/driven"
	"github.com/custodia-labs/sharepoint-mcp/internal/core/services"
	"github.com/custodia-labs/sharepoint-mcp/internal/logger"
)

// Sandbox tenant contents.
const (
	sandboxUser     = "Sandbox User"
	sandboxSitePath = "/sites/sandbox"
	sandboxSiteName = "Sandbox"
)

// app holds the wired services behind the commands.
type app struct {
	tokens     driven.TokenProvider
	graph      driven.GraphClient
	processor  *services.DocumentProcessor
	generator  *services.ContentGenerator
	sharepoint *services.SharePointService
}

// newApp wires the services for settings. In sandbox mode Graph is replaced
// by an in-memory tenant holding one site.
func newApp(settings *domain.AppSettings, sandbox bool) (*app, error) {
	a := &app{
		processor: services.NewDocumentProcessor(settings.Processing),
		generator: services.NewContentGenerator(settings.Generation),
	}

	if sandbox {
		tenant := memory.NewTenant("", sandboxUser)
		site := tenant.AddSite(sandboxSitePath, sandboxSiteName)
		logger.Info("sandbox tenant: https://%s%s (site %s)", tenant.Host(), sandboxSitePath, site.ID)
		a.tokens = auth.NewSandboxProvider()
		a.graph = tenant
	} else {
		tokens, err := auth.NewProvider(settings.Auth, os.Getenv(auth.EnvAccessToken))
		if err != nil {
			return nil, err
		}
		if !tokens.IsTokenValid() {
			logger.Warn("no valid access token; set %s or %s", auth.EnvAccessToken, services.EnvTokenFile)
		}
		a.tokens = tokens
		a.graph = graph.NewClient(settings.Graph, tokens)
	}

	a.sharepoint = services.NewSharePointService(a.graph, a.processor, a.generator)
	return a, nil
}

// ports returns the MCP server dependencies.
func (a *app) ports() *mcp.Ports {
	return &mcp.Ports{
		SharePoint: a.sharepoint,
		Processor:  a.processor,
		Generator:  a.generator,
		Tokens:     a.tokens,
	}
}

// watchTokens reloads a file-backed token whenever the host rewrites it.
// It is a no-op for other providers.
func (a *app) watchTokens(ctx context.Context) error {
	fp, ok := a.tokens.(*auth.FileProvider)
	if !ok {
		return nil
	}
	// Reload outcomes are logged by the watcher; nobody waits on them here.
	if _, err := fp.Watch(ctx); err != nil {
		return err
	}
	logger.Debug("watching token file %s", fp.Path())
	return nil
}
