package app

import (
	"context"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/healthcase/symptom-checker/internal/analyzer"
	"github.com/healthcase/symptom-checker/internal/api"
	"github.com/healthcase/symptom-checker/internal/config"
	"github.com/healthcase/symptom-checker/internal/llm"
	"github.com/healthcase/symptom-checker/internal/logx"
	"github.com/healthcase/symptom-checker/internal/runtime"
)

type App struct {
	env      *config.EnvVars
	defs     *config.Definitions
	llm      llm.Client
	analyzer *analyzer.Analyzer
	http     *HTTPServer
}

func New() (*App, error) {
	env, err := config.LoadEnv()
	if err != nil {
		return nil, err
	}
	return NewWithEnv(env)
}

// NewWithEnv wires the app from an already-loaded configuration, which
// lets tests inject settings without touching the process environment.
func NewWithEnv(env *config.EnvVars) (*App, error) {
	logx.SetLevel(env.LogLevel)
	if env.Debug {
		logx.SetLevel("debug")
	}

	defs, err := config.LoadFromDir("definitions")
	if err != nil {
		return nil, err
	}

	llmClient, err := llm.New(env)
	if err != nil {
		return nil, err
	}

	an := analyzer.New(llmClient, defs)

	rt := &runtime.Runtime{
		DefsLoaded: true,
		LLMClient:  llmClient,
	}

	httpServer := NewHTTPServer(env, api.New(an, env), defs, rt)

	return &App{
		env:      env,
		defs:     defs,
		llm:      llmClient,
		analyzer: an,
		http:     httpServer,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.http.Start(gctx)
	})

	logx.Info("App", "%s v%s started (provider=%s)", config.AppName, config.Version, a.env.LLMProvider)

	return g.Wait()
}

// Handler exposes the fully wired HTTP handler for in-process tests.
func (a *App) Handler() http.Handler {
	return a.http.Handler()
}
