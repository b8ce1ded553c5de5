// toolsrv exposes the vendor wrapper tools over line-delimited JSON-RPC 2.0
// on stdio. Toolsets register only when their credentials are configured, so
// a partially configured environment still serves the rest.
package main

import (
	"bufio"
	"log"
	"os"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"

	"github.com/nimbleshop/nimbleshop/internal/logging"
	"github.com/nimbleshop/nimbleshop/internal/tools"
	"github.com/nimbleshop/nimbleshop/internal/tools/issues"
	"github.com/nimbleshop/nimbleshop/internal/tools/repos"
	"github.com/nimbleshop/nimbleshop/internal/tools/wiki"
)

type toolsrvConfig struct {
	Env      string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	JiraBaseURL  string `env:"JIRA_BASE_URL"`
	JiraEmail    string `env:"JIRA_EMAIL"`
	JiraAPIToken string `env:"JIRA_API_TOKEN"`

	ConfluenceBaseURL string `env:"CONFLUENCE_BASE_URL"`
	ConfluenceEmail   string `env:"CONFLUENCE_EMAIL"`
	ConfluenceToken   string `env:"CONFLUENCE_API_TOKEN"`

	GitHubToken string `env:"GITHUB_TOKEN"`
}

func main() {
	var cfg toolsrvConfig
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("parse environment: %v", err)
	}

	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	reg := tools.NewRegistry()

	if cfg.JiraBaseURL != "" && cfg.JiraAPIToken != "" {
		ts, err := issues.New(cfg.JiraBaseURL, cfg.JiraEmail, cfg.JiraAPIToken)
		if err != nil {
			logger.Fatal("init issue tools", zap.Error(err))
		}
		ts.Register(reg)
	}
	if cfg.ConfluenceBaseURL != "" && cfg.ConfluenceToken != "" {
		ts, err := wiki.New(cfg.ConfluenceBaseURL, cfg.ConfluenceEmail, cfg.ConfluenceToken)
		if err != nil {
			logger.Fatal("init wiki tools", zap.Error(err))
		}
		ts.Register(reg)
	}
	if cfg.GitHubToken != "" {
		repos.New(cfg.GitHubToken).Register(reg)
	}

	logger.Info("toolsrv ready",
		zap.Strings("tools", reg.Names()),
		logging.Redacted("jira_api_token", cfg.JiraAPIToken),
		logging.Redacted("confluence_api_token", cfg.ConfluenceToken),
		logging.Redacted("github_token", cfg.GitHubToken),
	)

	srv := &Server{Registry: reg, Log: logger}
	if err := srv.Serve(bufio.NewReader(os.Stdin), os.Stdout); err != nil {
		logger.Fatal("serve", zap.Error(err))
	}
}
