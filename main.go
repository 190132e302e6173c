package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/homelocar/sofia/agent/agents/orchestrator"
	contractx "github.com/homelocar/sofia/agent/contract"
	"github.com/homelocar/sofia/agent/crm"
	"github.com/homelocar/sofia/agent/domain"
	"github.com/homelocar/sofia/agent/funcs"
	guardx "github.com/homelocar/sofia/agent/guard"
	"github.com/homelocar/sofia/agent/llm"
	"github.com/homelocar/sofia/agent/outbound"
	"github.com/homelocar/sofia/agent/prompt"
	statex "github.com/homelocar/sofia/agent/state"
	configx "github.com/homelocar/sofia/pkg/config"
	_ "github.com/homelocar/sofia/pkg/logger/autoload"
	qstashx "github.com/homelocar/sofia/pkg/qstash"
)

type AppConfig struct {
	Addr        string `envconfig:"ADDR" default:":8080"`
	PostgresDSN string `envconfig:"POSTGRES_DSN"`

	RedisURL   string `envconfig:"UPSTASH_REDIS_URL"`
	RedisToken string `envconfig:"UPSTASH_REDIS_TOKEN"`

	QStashToken     string        `envconfig:"QSTASH_TOKEN"`
	HotLeadEndpoint string        `envconfig:"HOT_LEAD_ENDPOINT"`
	MediaEndpoint   string        `envconfig:"MEDIA_ENDPOINT"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"15s"`
}

func main() {
	appCfg := configx.MustNew[AppConfig]("")
	ctx := context.Background()

	store := buildStore(appCfg)
	repos := buildRepositories(appCfg)

	qstashClient := buildQStash(appCfg)
	notifier := buildNotifier(qstashClient, appCfg)
	media := buildMediaSender(qstashClient, appCfg, repos)

	registry, err := funcs.NewCatalogRegistry(funcs.Deps{
		Catalog:      repos.catalog,
		Clients:      repos.clients,
		Reservations: repos.reservations,
		Payments:     repos.payments,
		Visits:       repos.visits,
		Media:        media,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("build function registry")
	}

	llmCfg := configx.MustNew[llm.Config]("OPENROUTER")
	if err := llmCfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid llm config")
	}
	openRouterCfg := llmCfg.OpenRouter()
	chatModel, err := openRouterCfg.New(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("build chat model")
	}
	proposer, err := llm.NewProposer(ctx, chatModel, registry.ToolInfos(), prompt.Sofia())
	if err != nil {
		log.Fatal().Err(err).Msg("build proposer")
	}

	guardCfg := configx.MustNew[guardx.Config]("LOOP_GUARD")
	orchCfg := configx.MustNew[orchestrator.Config]("ORCHESTRATOR")

	orch, err := orchestrator.New(store, registry, proposer, guardx.New(*guardCfg), notifier, *orchCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("build orchestrator")
	}

	srv := &http.Server{
		Addr:    appCfg.Addr,
		Handler: buildRouter(orch),
	}

	go func() {
		log.Info().Str("addr", appCfg.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(ctx, appCfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}

type repoSet struct {
	catalog      domain.PropertyCatalog
	clients      domain.ClientRepository
	reservations domain.ReservationRepository
	payments     domain.PaymentRepository
	visits       domain.VisitRepository
	memory       *domain.MemoryRepositories
}

func buildRepositories(cfg *AppConfig) repoSet {
	if dsn := strings.TrimSpace(cfg.PostgresDSN); dsn != "" {
		repos, err := domain.NewRepositories(dsn)
		if err != nil {
			log.Fatal().Err(err).Msg("connect postgres")
		}
		return repoSet{
			catalog:      repos.Properties(),
			clients:      repos.Clients(),
			reservations: repos.Reservations(),
			payments:     repos.Payments(),
			visits:       repos.Visits(),
		}
	}

	log.Warn().Msg("POSTGRES_DSN not set, using in-memory repositories")
	mem := domain.NewMemoryRepositories()
	return repoSet{
		catalog:      mem.Properties(),
		clients:      mem.Clients(),
		reservations: mem.Reservations(),
		payments:     mem.Payments(),
		visits:       mem.Visits(),
		memory:       mem,
	}
}

func buildStore(cfg *AppConfig) statex.Store {
	if strings.TrimSpace(cfg.RedisURL) == "" {
		log.Warn().Msg("UPSTASH_REDIS_URL not set, conversation context is in-memory only")
		return statex.NewMemoryStore()
	}
	store, err := statex.NewUpstashRedisStore(statex.UpstashRedisConfig{
		URL:   cfg.RedisURL,
		Token: cfg.RedisToken,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect upstash redis")
	}
	return store
}

func buildQStash(cfg *AppConfig) *qstashx.Client {
	if strings.TrimSpace(cfg.QStashToken) == "" {
		return nil
	}
	return qstashx.MustNew(qstashx.Config{Token: cfg.QStashToken})
}

func buildNotifier(client *qstashx.Client, cfg *AppConfig) contractx.Notifier {
	if client == nil || strings.TrimSpace(cfg.HotLeadEndpoint) == "" {
		return nil
	}
	notifier, err := crm.NewNotifier(client, crm.Config{HotLeadDestination: cfg.HotLeadEndpoint})
	if err != nil {
		log.Fatal().Err(err).Msg("build crm notifier")
	}
	return notifier
}

func buildMediaSender(client *qstashx.Client, cfg *AppConfig, repos repoSet) domain.MediaSender {
	if client != nil && strings.TrimSpace(cfg.MediaEndpoint) != "" {
		sender, err := outbound.NewMediaPublisher(client, cfg.MediaEndpoint)
		if err != nil {
			log.Fatal().Err(err).Msg("build media publisher")
		}
		return sender
	}
	if repos.memory != nil {
		return repos.memory.Media()
	}
	return outbound.LogSender{}
}

type webhookRequest struct {
	Phone    string            `json:"phone"`
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

func buildRouter(orch *orchestrator.Orchestrator) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/webhook/{tenant}", func(w http.ResponseWriter, req *http.Request) {
		tenantID := chi.URLParam(req, "tenant")

		var body webhookRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		result, err := orch.HandleMessage(req.Context(), tenantID, body.Phone, body.Text, body.Metadata)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(result)
	})

	r.Delete("/context/{tenant}/{phone}", func(w http.ResponseWriter, req *http.Request) {
		tenantID := chi.URLParam(req, "tenant")
		phone := chi.URLParam(req, "phone")

		if err := orch.ClearContext(req.Context(), tenantID, phone); err != nil {
			if errors.Is(err, orchestrator.ErrInvalidTenant) || errors.Is(err, orchestrator.ErrInvalidPhone) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "failed to clear context", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	return r
}
