package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lawfirm-cms/internal/assignment"
	"lawfirm-cms/internal/audit"
	"lawfirm-cms/internal/auth"
	"lawfirm-cms/internal/cases"
	"lawfirm-cms/internal/config"
	"lawfirm-cms/internal/documents"
	"lawfirm-cms/internal/editors"
	"lawfirm-cms/internal/httpapi"
	"lawfirm-cms/internal/lawyers"
	"lawfirm-cms/internal/metrics"
	"lawfirm-cms/internal/migrations"
	"lawfirm-cms/internal/notify"
	"lawfirm-cms/internal/ratelimit"
	"lawfirm-cms/internal/reporting"
	"lawfirm-cms/internal/session"
	"lawfirm-cms/internal/todos"
	"lawfirm-cms/pkg/logger"
	"lawfirm-cms/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	tokens, err := auth.NewManager(cfg.Auth)
	if err != nil {
		log.Error("auth init failed", "err", err)
		os.Exit(1)
	}

	db, err := utils.OpenDatabase(rootCtx, utils.Dialect(cfg.DB.Driver), cfg.DSN(), utils.PoolConfig{})
	if err != nil {
		log.Error("database init failed", "driver", cfg.DB.Driver, "err", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := migrations.Up(rootCtx, db); err != nil {
		log.Error("migrations failed", "err", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	policy := ratelimit.Policy{Max: cfg.Login.MaxAttempts, Window: cfg.Login.Window}
	var limiter ratelimit.Limiter = ratelimit.NewMemoryLimiter(policy, nil)
	if cfg.RedisEnabled() {
		rdb, err := utils.OpenRedis(rootCtx, utils.RedisConfig{Addr: cfg.RedisAddr()})
		if err != nil {
			log.Error("redis init failed", "err", err)
			os.Exit(1)
		}
		defer rdb.Close()
		limiter = ratelimit.NewRedisLimiter(rdb, "", policy, nil)
	}

	var notifier notify.Notifier = notify.Nop{}
	if cfg.MailEnabled() {
		notifier = notify.NewSMTPNotifier(notify.Credentials{
			Host:     cfg.Mail.Host,
			Port:     cfg.Mail.Port,
			Username: cfg.Mail.Username,
			Password: cfg.Mail.Password,
			From:     cfg.Mail.From,
		})
	} else {
		log.Info("smtp not configured; assignment emails disabled")
	}
	notifier = m.WrapNotifier(notifier)

	store, err := openDocumentStore(rootCtx, cfg.Uploads)
	if err != nil {
		log.Error("document store init failed", "backend", cfg.Uploads.Backend, "err", err)
		os.Exit(1)
	}

	auditSvc := audit.NewService(audit.NewSQLRepo(db), log)
	editorSvc := editors.NewService(editors.NewSQLRepo(db)).ReserveUsernames(cfg.Auth.AdminUsername)
	lawyerSvc := lawyers.NewService(db, auditSvc)
	caseSvc := cases.NewService(db, auditSvc)

	h := &httpapi.Handlers{
		Tokens: tokens,
		Sessions: session.NewIssuer(
			session.Config{AdminUsername: cfg.Auth.AdminUsername, AdminPassword: cfg.Auth.AdminPassword},
			editorSvc, tokens, limiter, auditSvc, log,
		).WithMetrics(m),
		Editors:       editorSvc,
		Lawyers:       lawyerSvc,
		Cases:         caseSvc,
		Assignments:   assignment.NewService(assignment.NewSQLStore(db), lawyerSvc, caseSvc, notifier, auditSvc, log),
		Todos:         todos.NewService(db, auditSvc),
		Documents:     documents.NewService(db, store, auditSvc, cfg.Uploads.MaxBytes, log),
		Reports:       reporting.NewService(reporting.NewSQLRepo(db), caseSvc),
		Audit:         auditSvc,
		SecureCookies: cfg.IsProduction(),
		Log:           log,
	}

	// Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))
	r.Use(m.Middleware())
	r.Use(httpapi.CORS(cfg.HTTP.FrontendOrigin))

	registerRoutes(r, h, db, m, cfg.HTTP)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env, "db", cfg.DB.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
}

func openDocumentStore(ctx context.Context, cfg config.UploadConfig) (documents.Store, error) {
	if cfg.Backend == "s3" {
		return documents.NewS3Store(ctx, documents.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
	}
	return documents.NewLocalStore(cfg.Dir)
}
