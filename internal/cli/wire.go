package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/spf13/viper"

	gamestrategy "github.com/meghna-1234/game-strategy-ai"
	"github.com/meghna-1234/game-strategy-ai/advisor"
	"github.com/meghna-1234/game-strategy-ai/config"
	"github.com/meghna-1234/game-strategy-ai/logging"
	"github.com/meghna-1234/game-strategy-ai/memory"
	"github.com/meghna-1234/game-strategy-ai/model"
	"github.com/meghna-1234/game-strategy-ai/model/anthropic"
	"github.com/meghna-1234/game-strategy-ai/model/gemini"
	"github.com/meghna-1234/game-strategy-ai/model/openai"
	"github.com/meghna-1234/game-strategy-ai/session"
	"github.com/meghna-1234/game-strategy-ai/snapshot"
)

type app struct {
	cfg     *config.Config
	logger  *logging.StrategyLogger
	sweeper *session.Sweeper
	backend snapshot.Backend
	coach   *gamestrategy.Coach
}

func wireApp(ctx context.Context, flags *globalFlags, logOut io.Writer) (*app, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	v := viper.New()
	if flags.logLevel != "" {
		v.Set("log.level", flags.logLevel)
	}
	cfg, err := config.Load(v, flags.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:  cfg.LogLevel(),
		Format: cfg.Log.Format,
		Output: logOut,
	})

	backend, err := newBackend(cfg.Memory)
	if err != nil {
		return nil, fmt.Errorf("wire memory backend: %w", err)
	}

	store := memory.New(func(o *memory.Options) {
		o.Backend = backend
		o.Logger = logger.WithComponent("memory")
	})
	if err := store.Load(ctx); err != nil {
		// the store is empty but usable; the next save overwrites the snapshot
		logger.Warn("could not load memory snapshot", "path", cfg.Memory.Path, "error", err)
	}

	registry := session.NewInMemoryRegistry(func(o *session.Options) {
		o.Timeout = cfg.Session.Timeout
		o.Logger = logger.WithComponent("session")
	})
	sweeper := session.NewSweeper(registry, cfg.Session.SweepInterval, logger.WithComponent("sweeper"))

	generator, err := newGenerator(ctx, cfg.Advisor, logger.WithComponent("advisor"))
	if err != nil {
		_ = backend.Close()
		return nil, fmt.Errorf("wire advisor: %w", err)
	}

	coach, err := gamestrategy.New(func(o *gamestrategy.Options) {
		o.Registry = registry
		o.Memory = store
		o.Generator = generator
		o.Logger = logger.WithComponent("coach")
	})
	if err != nil {
		_ = backend.Close()
		return nil, err
	}

	sweeper.Start()
	return &app{cfg: cfg, logger: logger, sweeper: sweeper, backend: backend, coach: coach}, nil
}

// Close stops background work and releases the snapshot backend.
func (a *app) Close() error {
	a.sweeper.Stop()
	return a.backend.Close()
}

func newBackend(cfg config.MemoryConfig) (snapshot.Backend, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		return snapshot.NewSQLiteBackend(cfg.Path)
	case config.BackendFile:
		return snapshot.NewFileBackend(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown memory backend %q", cfg.Backend)
	}
}

func newGenerator(ctx context.Context, cfg config.AdvisorConfig, logger *logging.StrategyLogger) (advisor.Generator, error) {
	catalog, err := advisor.LoadCatalog(cfg.TipsPath)
	if err != nil {
		return nil, err
	}
	rules, err := advisor.NewRuleBased(func(o *advisor.RuleBasedOptions) { o.Catalog = catalog })
	if err != nil {
		return nil, err
	}

	budget := advisor.NewCallBudget(cfg.MaxModelCalls)
	var tiers []advisor.Tier
	for _, slot := range []struct {
		provider string
		source   advisor.Source
	}{
		{cfg.Primary, advisor.SourcePrimary},
		{cfg.Secondary, advisor.SourceSecondary},
	} {
		m, err := newModel(ctx, cfg, slot.provider)
		if errors.Is(err, errTierDisabled) {
			logger.Info("generation tier disabled", "tier", slot.source, "provider", slot.provider)
			continue
		}
		if err != nil {
			return nil, err
		}
		tiers = append(tiers, advisor.Tier{
			Name:      string(slot.source),
			Generator: advisor.NewLimited(advisor.NewModelGenerator(m, slot.source), budget),
			Timeout:   cfg.Timeout,
		})
	}

	tiered := advisor.NewTiered(rules, tiers, func(o *advisor.TieredOptions) { o.Logger = logger })
	return advisor.NewCached(tiered, cfg.CacheSize, cfg.CacheTTL), nil
}

var errTierDisabled = errors.New("tier disabled")

func newModel(ctx context.Context, cfg config.AdvisorConfig, provider string) (model.Model, error) {
	pc, ok := cfg.Provider(provider)
	if !ok || pc.APIKey == "" {
		return nil, errTierDisabled
	}

	switch provider {
	case config.ProviderGemini:
		m, err := gemini.NewModel(ctx, func(o *gemini.Options) {
			o.APIKey = pc.APIKey
			o.BaseURL = pc.BaseURL
			if pc.Model != "" {
				o.Model = pc.Model
			}
		})
		if err != nil {
			return nil, err
		}
		return m, nil
	case config.ProviderAnthropic:
		return anthropic.NewModel(func(o *anthropic.Options) {
			o.APIKey = pc.APIKey
			o.BaseURL = pc.BaseURL
			if pc.Model != "" {
				o.Model = anthropicsdk.Model(pc.Model)
			}
		}), nil
	case config.ProviderOpenAI, config.ProviderOpenRouter:
		return openai.NewModel(func(o *openai.Options) {
			o.APIKey = pc.APIKey
			o.BaseURL = pc.BaseURL
			o.Provider = provider
			if pc.Model != "" {
				o.Model = pc.Model
			}
		}), nil
	default:
		return nil, errTierDisabled
	}
}
