package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/twmb/franz-go/pkg/kgo"

	"payoutkyc/internal/audit"
	audithandler "payoutkyc/internal/audit/handler"
	auditkafka "payoutkyc/internal/audit/kafka"
	auditmemory "payoutkyc/internal/audit/store/memory"
	auditpostgres "payoutkyc/internal/audit/store/postgres"
	"payoutkyc/internal/compliance/handler"
	"payoutkyc/internal/compliance/labels"
	compliancemetrics "payoutkyc/internal/compliance/metrics"
	"payoutkyc/internal/compliance/options"
	"payoutkyc/internal/compliance/sealer"
	"payoutkyc/internal/compliance/service"
	"payoutkyc/internal/compliance/store/profile"
	"payoutkyc/internal/compliance/store/record"
	"payoutkyc/internal/device"
	jwttoken "payoutkyc/internal/jwt_token"
	"payoutkyc/internal/platform/config"
	platformkafka "payoutkyc/internal/platform/kafka"
	"payoutkyc/internal/platform/metrics"
	"payoutkyc/internal/platform/postgres"
	platformredis "payoutkyc/internal/platform/redis"
	"payoutkyc/pkg/platform/circuit"
	"payoutkyc/pkg/platform/httputil"
	"payoutkyc/pkg/platform/middleware/admin"
	"payoutkyc/pkg/platform/middleware/auth"
	"payoutkyc/pkg/platform/middleware/metadata"
	"payoutkyc/pkg/platform/middleware/request"
	"payoutkyc/pkg/platform/middleware/requesttime"
)

// app owns every long-lived resource the server needs.
type app struct {
	router    http.Handler
	db        *sql.DB
	redis     *platformredis.Client
	kafka     *kgo.Client
	publisher *audit.Publisher
	log       *slog.Logger
}

func buildApp(ctx context.Context, cfg config.Config, log *slog.Logger) (_ *app, err error) {
	a := &app{log: log}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	if cfg.Postgres.URL != "" {
		if a.db, err = postgres.Open(ctx, cfg.Postgres); err != nil {
			return nil, err
		}
		if cfg.Postgres.Migrate {
			if err = postgres.Migrate(ctx, cfg.Postgres.URL); err != nil {
				return nil, err
			}
		}
	}
	if a.redis, err = platformredis.New(ctx, cfg.Redis); err != nil {
		return nil, err
	}
	if a.kafka, err = platformkafka.New(ctx, cfg.Kafka, log); err != nil {
		return nil, err
	}

	var seal *sealer.Sealer
	if cfg.Compliance.SealingKey != "" {
		if seal, err = sealer.New(cfg.Compliance.SealingKey); err != nil {
			return nil, fmt.Errorf("compliance sealing key: %w", err)
		}
	} else {
		log.Warn("COMPLIANCE_SEALING_KEY not set, tax IDs are stored unsealed")
	}

	records, err := a.recordStore(cfg, seal)
	if err != nil {
		return nil, err
	}
	var profiles service.ProfileStore = profile.NewInMemory()
	if a.db != nil {
		profiles = profile.NewPostgres(a.db)
	}

	var auditStore audit.Store = auditmemory.NewInMemoryStore()
	if a.db != nil {
		auditStore = auditpostgres.New(a.db)
	}
	auditOpts := []audit.Option{audit.WithAsyncBuffer(cfg.Compliance.AuditBuffer), audit.WithLogger(log)}
	if a.kafka != nil {
		auditOpts = append(auditOpts, audit.WithSink(auditkafka.NewSink(a.kafka, cfg.Kafka.AuditTopic,
			auditkafka.WithBreaker(circuit.New("audit-kafka", circuit.WithCooldown(30*time.Second))))))
	}
	a.publisher = audit.NewPublisher(auditStore, auditOpts...)

	catalog, err := loadCatalog(cfg.Compliance.CatalogPath)
	if err != nil {
		return nil, err
	}
	localizer, err := labels.New(log)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	svc, err := service.New(records, profiles, catalog,
		service.WithLocalizer(localizer),
		service.WithAuditor(a.publisher),
		service.WithDeviceService(device.NewService(true)),
		service.WithMetrics(compliancemetrics.New(reg)),
		service.WithLogger(log),
		service.WithDefaultProfile(cfg.Compliance.DefaultProfile, cfg.Compliance.DefaultPayout),
		service.WithMinAge(cfg.Compliance.MinAge),
	)
	if err != nil {
		return nil, err
	}

	jwtService := jwttoken.NewJWTService(cfg.Server.JWTSigningKey, cfg.Server.JWTIssuer)
	a.router = a.buildRouter(cfg.Server, reg, handler.New(svc, log), audithandler.New(a.publisher, log),
		jwttoken.NewJWTServiceAdapter(jwtService))
	return a, nil
}

func (a *app) recordStore(cfg config.Config, seal *sealer.Sealer) (service.RecordStore, error) {
	switch cfg.Compliance.RecordStore {
	case config.RecordStorePostgres:
		return record.NewPostgres(a.db, record.WithPostgresSealer(seal)), nil
	case config.RecordStoreRedis:
		return record.NewRedis(a.redis.Client, record.WithTTL(cfg.Redis.DraftTTL), record.WithRedisSealer(seal)), nil
	case config.RecordStoreMemory:
		return record.NewInMemory(), nil
	}
	return nil, fmt.Errorf("unknown record store %q", cfg.Compliance.RecordStore)
}

func loadCatalog(path string) (*options.Catalog, error) {
	if path == "" {
		return options.Load()
	}
	return options.LoadFile(path)
}

func (a *app) buildRouter(cfg config.Server, reg *prometheus.Registry, h *handler.Handler, ah *audithandler.Handler, validator auth.JWTValidator) http.Handler {
	httpMetrics := metrics.New(reg)

	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(request.Recover(a.log))
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(request.Language)
	r.Use(request.AccessLog(a.log))
	r.Use(httpMetrics.Middleware)

	r.Get("/health", a.handleHealth)
	r.Handle("/metrics", metrics.Handler(reg))

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(validator, a.log))
		h.Register(r)
	})
	if cfg.AdminToken != "" {
		r.Group(func(r chi.Router) {
			r.Use(admin.RequireAdminToken(cfg.AdminToken, a.log))
			ah.Register(r)
		})
	}
	return r
}

func (a *app) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := map[string]string{"status": "ok"}
	code := http.StatusOK
	if a.db != nil {
		status["postgres"] = "ok"
		if err := a.db.PingContext(ctx); err != nil {
			status["postgres"], status["status"], code = "down", "degraded", http.StatusServiceUnavailable
		}
	}
	if a.redis != nil {
		status["redis"] = "ok"
		if err := a.redis.Health(ctx); err != nil {
			status["redis"], status["status"], code = "down", "degraded", http.StatusServiceUnavailable
		}
	}
	httputil.WriteJSON(w, code, status)
}

// Close drains the audit publisher before closing the clients it writes to.
func (a *app) Close() {
	if a.publisher != nil {
		a.publisher.Close()
	}
	if a.kafka != nil {
		a.kafka.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Warn("closing redis", "error", err)
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Warn("closing postgres", "error", err)
		}
	}
}
