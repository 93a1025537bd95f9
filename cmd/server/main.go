package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"studyvault/internal/config"
	apphttp "studyvault/internal/http"
	"studyvault/internal/mail"
	"studyvault/internal/repository"
	"studyvault/internal/repository/memory"
	"studyvault/internal/repository/sqlite"
	"studyvault/internal/service"
	"studyvault/internal/session"
)

type repositories struct {
	accounts    repository.AccountRepository
	colleges    repository.CollegeRepository
	departments repository.DepartmentRepository
	courses     repository.CourseRepository
	files       repository.FileRepository
	downloads   repository.DownloadRepository
}

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	if strings.TrimSpace(cfg.Session.Secret) == "" {
		logger.Fatalf("session secret is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, cleanup, err := buildRepositories(cfg, logger)
	if err != nil {
		logger.Fatalf("setup storage: %v", err)
	}
	defer cleanup()

	for name, repo := range map[string]interface {
		Init(context.Context) error
	}{
		"accounts":    repos.accounts,
		"colleges":    repos.colleges,
		"departments": repos.departments,
		"courses":     repos.courses,
		"files":       repos.files,
		"downloads":   repos.downloads,
	} {
		if err := repo.Init(ctx); err != nil {
			logger.Fatalf("init %s repository: %v", name, err)
		}
	}

	mailer := buildMailer(cfg, logger)

	accountService := service.NewAccountService(repos.accounts, mailer, cfg.App.BaseURL)
	catalogService := service.NewCatalogService(repos.colleges, repos.departments, repos.courses)
	fileService := service.NewFileService(repos.files, repos.downloads, catalogService)
	statsService := service.NewStatsService(repos.accounts, repos.colleges, repos.departments, repos.files)

	sessionTTL := time.Duration(cfg.Session.TTLHours) * time.Hour
	sessions := session.NewManager(sessionTTL)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(
		accountService,
		catalogService,
		fileService,
		statsService,
		sessions,
		cfg.Session.Secret,
		sessionTTL,
		cfg.Session.Secure,
	)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}

func buildRepositories(cfg config.Config, logger *logrus.Logger) (repositories, func(), error) {
	if strings.EqualFold(cfg.Database.Driver, "memory") {
		logger.Warn("using in-memory store; data is lost on restart")
		return repositories{
			accounts:    memory.NewAccountRepository(),
			colleges:    memory.NewCollegeRepository(),
			departments: memory.NewDepartmentRepository(),
			courses:     memory.NewCourseRepository(),
			files:       memory.NewFileRepository(),
			downloads:   memory.NewDownloadRepository(),
		}, func() {}, nil
	}

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		return repositories{}, nil, err
	}
	logger.Infof("using sqlite database at %s", cfg.Database.Path)
	return repositories{
		accounts:    sqlite.NewAccountRepository(db),
		colleges:    sqlite.NewCollegeRepository(db),
		departments: sqlite.NewDepartmentRepository(db),
		courses:     sqlite.NewCourseRepository(db),
		files:       sqlite.NewFileRepository(db),
		downloads:   sqlite.NewDownloadRepository(db),
	}, func() { db.Close() }, nil
}

func buildMailer(cfg config.Config, logger *logrus.Logger) mail.Mailer {
	if strings.EqualFold(cfg.Mail.Mode, "smtp") {
		logger.Infof("delivering mail via smtp relay %s", cfg.Mail.SMTPAddr)
		return mail.NewSMTPMailer(cfg.Mail.SMTPAddr, cfg.Mail.From)
	}
	return mail.NewConsoleMailer(logger)
}
