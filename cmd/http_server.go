package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/genzspace/genzflow/internal"
	"github.com/genzspace/genzflow/internal/auth"
	authpg "github.com/genzspace/genzflow/internal/auth/postgres"
	"github.com/genzspace/genzflow/internal/dashboard"
	dashboardpg "github.com/genzspace/genzflow/internal/dashboard/postgres"
	"github.com/genzspace/genzflow/internal/database"
	"github.com/genzspace/genzflow/internal/department"
	departmentpg "github.com/genzspace/genzflow/internal/department/postgres"
	"github.com/genzspace/genzflow/internal/employee"
	employeepg "github.com/genzspace/genzflow/internal/employee/postgres"
	"github.com/genzspace/genzflow/internal/project"
	projectpg "github.com/genzspace/genzflow/internal/project/postgres"
	"github.com/genzspace/genzflow/internal/task"
	taskpg "github.com/genzspace/genzflow/internal/task/postgres"
	"github.com/genzspace/genzflow/internal/transport"
	"github.com/genzspace/genzflow/internal/transport/rest"
	"github.com/genzspace/genzflow/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *gorm.DB
	ReportDB *sqlx.DB
	Router   *chi.Mux
	Logger   *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr, "env", deps.Config.App.Env)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if err := deps.ReportDB.Close(); err != nil {
			deps.Logger.Error("report database close error", "error", err)
		}
		if err := database.Close(deps.DB); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.App.Env)
	lg := logger.LoggerWrapper()

	db, err := database.Open(config.Database, lg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	reportDB, err := initReportDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize report database: %w", err)
	}

	router := chi.NewRouter()
	handlers := buildHandlers(config, db, reportDB, lg)
	rest.RegisterAllRoutes(router, handlers, config.Server.Origins(), lg)

	return &Dependencies{
		Config:   config,
		DB:       db,
		ReportDB: reportDB,
		Router:   router,
		Logger:   lg,
	}, nil
}

// buildHandlers wires repositories, services and handlers. Everything is
// constructor-injected; nothing reaches for globals.
func buildHandlers(config *internal.Config, db *gorm.DB, reportDB *sqlx.DB, lg *slog.Logger) rest.Handlers {
	base := transport.NewBaseHandler(lg, !config.IsProduction())

	tokenGen := auth.NewJWTTokenGenerator(config.Security.JWTSecret, config.Security.TokenDuration)

	authRepo := authpg.NewRepository(db)
	authService := auth.NewService(authRepo, tokenGen, config.Security.BCryptCost, lg)
	authHandler := auth.NewHandler(base, authService)

	employeeRepo := employeepg.NewRepository(db)
	employeeService := employee.NewService(employeeRepo, config.Security.BCryptCost, lg)
	employeeHandler := employee.NewHandler(base, employeeService)

	departmentRepo := departmentpg.NewRepository(db)
	departmentService := department.NewService(departmentRepo)
	departmentHandler := department.NewHandler(base, departmentService)

	projectRepo := projectpg.NewRepository(db)
	taskRepo := taskpg.NewRepository(db)

	taskService := task.NewService(taskRepo, employeeRepo, projectRepo, lg)
	taskHandler := task.NewHandler(base, taskService)

	projectService := project.NewService(projectRepo, taskRepo, lg)
	projectHandler := project.NewHandler(base, projectService)

	dashboardRepo := dashboardpg.NewRepository(reportDB)
	dashboardService := dashboard.NewService(dashboardRepo, lg)
	dashboardHandler := dashboard.NewHandler(base, dashboardService)

	healthHandler := rest.NewHealthHandler(base, db, config.App.Env)

	return rest.Handlers{
		Auth:       authHandler,
		Employee:   employeeHandler,
		Department: departmentHandler,
		Task:       taskHandler,
		Project:    projectHandler,
		Dashboard:  dashboardHandler,
		Health:     healthHandler,
	}
}

// initReportDB opens the sqlx connection the dashboard aggregates run on.
// It shares the DSN with the gorm pool but is bounded separately so heavy
// reporting queries cannot starve the CRUD path.
func initReportDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	dbConn, err := sqlx.Connect("pgx", cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open report db connection: %w", err)
	}

	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping report database: %w", err)
	}

	return dbConn, nil
}
