package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/emrgen/shazam/internal/config"
	"github.com/emrgen/shazam/internal/host"
	"github.com/emrgen/shazam/internal/job"
	"github.com/emrgen/shazam/internal/jobs"
	"github.com/emrgen/shazam/internal/model"
	"github.com/emrgen/shazam/internal/queue"
	"github.com/emrgen/shazam/internal/service"
	"github.com/emrgen/shazam/internal/store"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

const shutdownTimeout = 10 * time.Second

// Server runs the config api and the background jobs of one deployment.
type Server struct {
	cfg *config.Config
}

func NewServer(cfg *config.Config) *Server {
	return &Server{cfg: cfg}
}

// Start runs the server until it is interrupted and exits on failure.
func (s *Server) Start() {
	if err := Start(s.cfg); err != nil {
		logrus.Fatalf("error starting server: %v", err)
	}
}

// NewHandler wraps the api routes with cors, auth and request logging.
func NewHandler(api *API, authToken string) http.Handler {
	mux := http.NewServeMux()
	api.Routes(mux)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders:   []string{authorization, HeaderUser, HeaderSuperUser, "Content-Type"},
		AllowCredentials: true,
	})

	return c.Handler(RequestTimeInterceptor(AuthTokenInterceptor(authToken, ActorInterceptor(mux))))
}

// backgroundJobs returns the cron jobs enabled by the config.
func backgroundJobs(cfg *config.Config, settings store.SettingStore, schemas host.SchemaProvider, opts []service.Option) []jobs.CronJob {
	var cronJobs []jobs.CronJob
	if cfg.SweepSchedule != "" {
		cronJobs = append(cronJobs, jobs.NewMigrationSweepTask(cfg.SweepSchedule, settings, schemas, opts...))
	}
	if cfg.TrimSchedule != "" {
		cronJobs = append(cronJobs, job.NewBackupTrimmer(cfg.TrimSchedule, settings, cfg.BackupCopies))
	}
	return cronJobs
}

// Start wires the stores from cfg, serves http until SIGINT, SIGTERM or
// SIGTSTP and then drains in flight requests.
func Start(cfg *config.Config) error {
	db, err := config.OpenDb(cfg)
	if err != nil {
		return err
	}
	if err := model.Migrate(db); err != nil {
		return fmt.Errorf("migrate settings table: %w", err)
	}

	settings, err := config.NewSettingStore(cfg, db)
	if err != nil {
		return err
	}

	publisher, err := config.NewPublisher(cfg)
	if err != nil {
		return err
	}
	defer func(p queue.Publisher) {
		if err := p.Close(); err != nil {
			logrus.Errorf("error closing event publisher: %v", err)
		}
	}(publisher)

	schemas := host.NewDictionaryProvider(cfg.DictionaryDir)
	opts := []service.Option{service.WithBackupCopies(cfg.BackupCopies)}

	executor := jobs.NewTaskExecutor(backgroundJobs(cfg, settings, schemas, opts)...)
	if err := executor.Run(); err != nil {
		return err
	}
	defer executor.Stop()

	if cfg.AuthToken == "" {
		logrus.Warn("SHAZAM_AUTH_TOKEN is not set, requests are not authenticated")
	}
	api := NewAPI(store.NewDefaultProvider(settings), schemas, publisher, cfg.JSEditorGrants, opts...)

	addr := ":" + cfg.HTTPPort
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           NewHandler(api, cfg.AuthToken),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logrus.Infof("shazam api listening on %s", addr)
		serveErr <- httpServer.Serve(listener)
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, unix.SIGTERM, unix.SIGINT, unix.SIGTSTP)
	defer signal.Stop(sigs)

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case sig := <-sigs:
		logrus.Infof("received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logrus.Errorf("error stopping http server: %v", err)
	}
	<-serveErr
	logrus.Info("http server stopped")

	return nil
}
