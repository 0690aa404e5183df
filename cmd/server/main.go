package main

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-hook-gate/internal/adapter"
	"github.com/MKhiriev/go-hook-gate/internal/config"
	handlerhttp "github.com/MKhiriev/go-hook-gate/internal/handler/http"
	"github.com/MKhiriev/go-hook-gate/internal/handlers/events"
	"github.com/MKhiriev/go-hook-gate/internal/handlers/ops"
	"github.com/MKhiriev/go-hook-gate/internal/idempotency"
	"github.com/MKhiriev/go-hook-gate/internal/logger"
	"github.com/MKhiriev/go-hook-gate/internal/observability"
	"github.com/MKhiriev/go-hook-gate/internal/pipeline"
	"github.com/MKhiriev/go-hook-gate/internal/registry"
	"github.com/MKhiriev/go-hook-gate/internal/server"
	"github.com/MKhiriev/go-hook-gate/internal/spam"
	"github.com/MKhiriev/go-hook-gate/internal/store"
	"github.com/MKhiriev/go-hook-gate/internal/workers"
	"github.com/MKhiriev/go-hook-gate/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

const spamStatsPeriod = 5 * time.Minute

func main() {
	printBuildInfo()

	log := logger.NewLogger("go-hook-gate")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	var metrics *observability.Metrics
	if cfg.Metrics.IsEnabled() {
		metrics = observability.NewMetrics()
	}

	detector, guard := buildSpamPipeline(cfg, metrics, log)

	loader := registry.NewLoader(log)
	build := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)

	// spam.guard is always registered so the default specifier list
	// resolves even with detection disabled; a nil guard makes its
	// hooks no-ops.
	modules := events.All(guard)
	modules = append(modules, ops.NewHealth(build, detector))
	modules = append(modules, spam.NewGuardModule(guard))
	for _, m := range modules {
		if err := loader.Register(m); err != nil {
			log.Fatal().Err(err).Msg("error registering handler module")
		}
	}

	loaded, err := loader.Load(cfg.Webhook.Handlers)
	if err != nil {
		log.Fatal().Err(err).Msg("error loading handler modules")
	}

	enablement, err := registry.LoadEnablement(cfg.Webhook.RoutesConfig, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error loading route enablement")
	}
	table := registry.BuildTable(loaded.Routes, enablement, log)

	stages := []pipeline.Stage{pipeline.NewContextStage(log)}

	if cfg.Webhook.Secret != "" {
		signature, err := pipeline.NewSignatureStage(cfg.Webhook.Secret, cfg.Webhook.SignatureHeader, cfg.Webhook.SignatureAlgo)
		if err != nil {
			log.Fatal().Err(err).Msg("error creating signature stage")
		}
		if metrics != nil {
			signature.OnReject(metrics.ObserveSignatureRejection)
		}
		stages = append(stages, signature)
	} else {
		log.Warn().Msg("no webhook secret configured, signature verification is off")
	}

	var cache *idempotency.Cache
	if cfg.Idempotency.IsEnabled() {
		cache = idempotency.NewCache(cfg.Idempotency.TTL(), log)
		stages = append(stages, pipeline.NewIdempotencyStage(cache, cfg.Idempotency.Headers))
	}

	stages = append(stages, loaded.Stages...)
	chain := pipeline.NewChain(log, stages...)

	journalStore, err := store.NewJournalStore(context.Background(), cfg.Journal.Driver, cfg.Journal.DSN, cfg.Journal.SQLitePath, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating delivery journal")
	}

	var pool []workers.Worker
	var journal handlerhttp.DeliveryJournal
	if journalStore != nil {
		writer := workers.NewJournalWriter(journalStore, log, metrics)
		journal = writer
		pool = append(pool, writer)
	}
	if sweeper := workers.NewSweeper(cache, cfg.Idempotency.SweepPeriod(), log); sweeper != nil {
		pool = append(pool, sweeper)
	}
	if stats := workers.NewSpamStats(detector, spamStatsPeriod, log); stats != nil {
		pool = append(pool, stats)
	}

	handler := handlerhttp.NewHandler(chain, table, metrics, journal, log)

	srv, err := server.NewServer(handler.Init(), cfg.Server, loaded, workers.NewWorkers(pool...), log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

// buildSpamPipeline assembles the detector and guard from configuration.
// Both are nil when the pipeline is disabled; the guard degrades gracefully
// when the model pass or contact deletion is unconfigured.
func buildSpamPipeline(cfg *config.StructuredConfig, metrics *observability.Metrics, log *logger.Logger) (*spam.Detector, *spam.Guard) {
	if !cfg.Spam.IsEnabled() {
		log.Info().Msg("spam detection disabled")
		return nil, nil
	}

	var chat adapter.ChatCompleter
	if cfg.Spam.OpenAIAPIKey != "" {
		openAI, err := adapter.NewOpenAIClient(adapter.OpenAIConfig{
			APIKey:  cfg.Spam.OpenAIAPIKey,
			Model:   cfg.Spam.OpenAIModel,
			BaseURL: cfg.Spam.OpenAIBaseURL,
		}, log)
		if err != nil {
			log.Fatal().Err(err).Msg("error creating chat client")
		}
		chat = openAI
	}

	detector := spam.NewDetector(chat, log, metrics)

	var contacts spam.ContactDeleter
	if cfg.GHL.PITToken != "" {
		ghl, err := adapter.NewGHLClient(adapter.GHLConfig{
			BaseURL:  cfg.GHL.BaseURL,
			PITToken: cfg.GHL.PITToken,
		}, log)
		if err != nil {
			log.Fatal().Err(err).Msg("error creating platform client")
		}
		contacts = ghl
	}

	archive := store.NewSpamArchive(cfg.Spam.DataDir, log)
	guard := spam.NewGuard(detector, archive, contacts, cfg.GHL.LocationID, log)

	return detector, guard
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
