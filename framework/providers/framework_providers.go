package providers

import (
	"go.uber.org/zap"

	"github.com/km-arc/simpledi/framework/config"
	"github.com/km-arc/simpledi/framework/container"
	gohttp "github.com/km-arc/simpledi/framework/http"
	"github.com/km-arc/simpledi/framework/routing"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider loads the application configuration from .env,
// simpledi.yaml and the environment.
//
// Bound names:
//   - "config"  → *config.Config (once)
//
// Boot applies config.DI.IgnoreRedundantArgs to the container.
type ConfigServiceProvider struct {
	container.BaseProvider
	EnvFiles []string
}

func (p *ConfigServiceProvider) Register(c *container.Container) error {
	envFiles := p.EnvFiles
	return c.RegisterFactoryOnce("config", func() (*config.Config, error) {
		return config.Load(envFiles...)
	})
}

func (p *ConfigServiceProvider) Boot(c *container.Container) error {
	cfg, err := container.Resolve[*config.Config](c, "config")
	if err != nil {
		return err
	}
	c.SetIgnoreRedundantArgs(cfg.DI.IgnoreRedundantArgs)
	return nil
}

// ── LoggingServiceProvider ────────────────────────────────────────────────────

// LoggingServiceProvider registers the application logger.
//
// Bound names:
//   - "logger" → *zap.Logger (once), development encoder when
//     config.App.Debug is set, production otherwise.
//
// Boot hands a "container"-named child of the logger to the container.
type LoggingServiceProvider struct {
	container.BaseProvider
}

func (p *LoggingServiceProvider) Register(c *container.Container) error {
	return c.RegisterFactoryOnce("logger", NewLogger, "config")
}

func (p *LoggingServiceProvider) Boot(c *container.Container) error {
	log, err := container.Resolve[*zap.Logger](c, "logger")
	if err != nil {
		return err
	}
	c.SetLogger(log.Named("container"))
	return nil
}

// NewLogger builds a zap logger suited to cfg.
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	var (
		log *zap.Logger
		err error
	)
	if cfg.App.Debug {
		log, err = zap.NewDevelopment()
	} else {
		log, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	return log.With(zap.String("app", cfg.App.Name), zap.String("env", cfg.App.Env)), nil
}

// ── InspectServiceProvider ────────────────────────────────────────────────────

// InspectServiceProvider registers the HTTP inspector and the router serving
// it.
//
// Bound names:
//   - "inspector" → *gohttp.Inspector (once), built from "container"
//   - "router"    → *routing.Router (once), with the inspector mounted at
//     Prefix (default "/di")
type InspectServiceProvider struct {
	container.BaseProvider
	Prefix string
}

func (p *InspectServiceProvider) Register(c *container.Container) error {
	prefix := p.Prefix
	if prefix == "" {
		prefix = "/di"
	}

	return c.RegisterBulk([]container.Definition{
		{
			Name:         "inspector",
			Kind:         container.Constructor,
			Producer:     (*gohttp.Inspector)(nil),
			Dependencies: []string{"container"},
			Once:         true,
		},
		{
			Name: "router",
			Kind: container.Factory,
			Producer: func(in *gohttp.Inspector, log *zap.Logger) *routing.Router {
				r := routing.New(log)
				in.Mount(r, prefix)
				return r
			},
			Dependencies: []string{"inspector", "logger"},
			Once:         true,
		},
	})
}
