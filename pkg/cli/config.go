package cli

import (
	"context"
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/ofrenda/pkg/adapter"
	"github.com/m-mizutani/ofrenda/pkg/repository"
	"github.com/m-mizutani/ofrenda/pkg/usecase/chat"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// config holds configuration values
type config struct {
	// Repository
	project  string
	database string

	// Adapters
	geminiProject  string
	geminiLocation string
	geminiModel    string
	bucket         string

	// Site behavior
	siteConfigPath string
	logLevel       string
	logFormat      string
}

// globalFlags returns common flags used across commands with destination config
func globalFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "project",
			Aliases:     []string{"p"},
			Usage:       "Google Cloud project ID",
			Sources:     cli.EnvVars("GOOGLE_CLOUD_PROJECT"),
			Destination: &cfg.project,
		},
		&cli.StringFlag{
			Name:        "database",
			Aliases:     []string{"d"},
			Usage:       "Firestore database ID",
			Value:       "(default)",
			Sources:     cli.EnvVars("FIRESTORE_DATABASE_ID"),
			Destination: &cfg.database,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "info",
			Sources:     cli.EnvVars("OFRENDA_LOG_LEVEL"),
			Destination: &cfg.logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "Log format (console, json)",
			Value:       "console",
			Sources:     cli.EnvVars("OFRENDA_LOG_FORMAT"),
			Destination: &cfg.logFormat,
		},
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to site config YAML",
			Sources:     cli.EnvVars("OFRENDA_CONFIG"),
			Destination: &cfg.siteConfigPath,
		},
	}
}

// llmFlags returns flags for LLM-related configuration with destination config
func llmFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID for Gemini",
			Sources:     cli.EnvVars("GEMINI_PROJECT_ID"),
			Destination: &cfg.geminiProject,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Gemini",
			Value:       "us-central1",
			Sources:     cli.EnvVars("GEMINI_LOCATION"),
			Destination: &cfg.geminiLocation,
		},
		&cli.StringFlag{
			Name:        "gemini-model",
			Usage:       "Gemini model for welcome and reply generation",
			Sources:     cli.EnvVars("GEMINI_MODEL"),
			Destination: &cfg.geminiModel,
		},
	}
}

// storageFlags returns flags for media storage
func storageFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "bucket",
			Usage:       "Cloud Storage bucket for memorial media",
			Sources:     cli.EnvVars("OFRENDA_BUCKET"),
			Destination: &cfg.bucket,
		},
	}
}

// newRepository creates a new repository instance
func (cfg *config) newRepository(ctx context.Context) (repository.Repository, error) {
	if cfg.project == "" {
		return nil, goerr.New("project is required")
	}
	if cfg.database == "" {
		return nil, goerr.New("database is required")
	}

	repo, err := repository.New(ctx, cfg.project, cfg.database)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create repository")
	}
	return repo, nil
}

// newGateway creates a new Gemini gateway instance
func (cfg *config) newGateway(ctx context.Context) (adapter.Gateway, error) {
	if cfg.geminiProject == "" {
		return nil, goerr.New("gemini-project is required")
	}
	if cfg.geminiLocation == "" {
		return nil, goerr.New("gemini-location is required")
	}

	var opts []adapter.GeminiOption
	if cfg.geminiModel != "" {
		opts = append(opts, adapter.WithGenerativeModel(cfg.geminiModel))
	}

	return adapter.NewGemini(ctx, cfg.geminiProject, cfg.geminiLocation, opts...)
}

// newStorage creates a new media storage instance; nil when no bucket is set
func (cfg *config) newStorage(ctx context.Context) (adapter.Storage, error) {
	if cfg.bucket == "" {
		return nil, nil
	}

	storage, err := adapter.NewStorage(ctx, cfg.bucket)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage")
	}
	return storage, nil
}

// siteConfig is the YAML file tuning conversation behavior
type siteConfig struct {
	// ReplyDelay is a cosmetic typing pause before canned replies, e.g. "1500ms"
	ReplyDelay string `yaml:"reply_delay"`
	// WelcomeFallback replaces the generated welcome when the backend fails
	WelcomeFallback string `yaml:"welcome_fallback"`
	// Apology replaces a generated reply when the backend fails
	Apology string `yaml:"apology"`
}

// chatOptions loads the site config file and converts it to session options
func (cfg *config) chatOptions() ([]chat.Option, error) {
	if cfg.siteConfigPath == "" {
		return nil, nil
	}

	data, err := os.ReadFile(cfg.siteConfigPath)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read site config", goerr.V("path", cfg.siteConfigPath))
	}

	var site siteConfig
	if err := yaml.Unmarshal(data, &site); err != nil {
		return nil, goerr.Wrap(err, "failed to parse site config", goerr.V("path", cfg.siteConfigPath))
	}

	var opts []chat.Option
	if site.ReplyDelay != "" {
		delay, err := time.ParseDuration(site.ReplyDelay)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid reply_delay", goerr.V("value", site.ReplyDelay))
		}
		opts = append(opts, chat.WithReplyDelay(delay))
	}
	if site.WelcomeFallback != "" {
		opts = append(opts, chat.WithWelcomeFallback(site.WelcomeFallback))
	}
	if site.Apology != "" {
		opts = append(opts, chat.WithApology(site.Apology))
	}

	return opts, nil
}
