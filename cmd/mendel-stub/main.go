// Command mendel-stub runs an in-memory implementation of the Mendel API, for trying out the client
// and for tests of applications that use it.
//
// It is configured with SERVER_* environment variables (SERVER_HOST, SERVER_PORT and timeouts). If
// STUB_SEED_FILES is set to a comma-separated list of import files, their records are created at
// startup, and with STUB_WATCH_SEED_FILES=true whenever the files change.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mendelclient "github.com/mendelcore/go-admin-client"
	"github.com/mendelcore/go-admin-client/internal"
	"github.com/mendelcore/go-admin-client/mdcomponents"
	"github.com/mendelcore/go-admin-client/mdfiledata"
	"github.com/mendelcore/go-admin-client/mdfilewatch"
	"github.com/mendelcore/go-admin-client/testhelpers/mdservices"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	"github.com/kelseyhightower/envconfig"
)

type stubConfig struct {
	Server struct {
		Host            string        `envconfig:"HOST" default:"localhost"`       // SERVER_HOST
		Port            string        `envconfig:"PORT" default:"8080"`            // SERVER_PORT
		ReadTimeout     time.Duration `envconfig:"READ_TIMEOUT" default:"15s"`     // SERVER_READ_TIMEOUT
		WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT" default:"15s"`    // SERVER_WRITE_TIMEOUT
		IdleTimeout     time.Duration `envconfig:"IDLE_TIMEOUT" default:"60s"`     // SERVER_IDLE_TIMEOUT
		ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"` // SERVER_SHUTDOWN_TIMEOUT
	} `envconfig:"SERVER"`

	Stub struct {
		SeedFiles      []string `envconfig:"SEED_FILES"`                      // STUB_SEED_FILES
		WatchSeedFiles bool     `envconfig:"WATCH_SEED_FILES" default:"false"` // STUB_WATCH_SEED_FILES
		Debug          bool     `envconfig:"DEBUG" default:"false"`            // STUB_DEBUG
	} `envconfig:"STUB"`
}

func main() {
	var cfg stubConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("mendel-stub: %s", err)
	}
	loggers := internal.NewDefaultLoggers(os.Stderr)
	if cfg.Stub.Debug {
		loggers.SetMinLevel(ldlog.Debug)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := serve(ctx, cfg, loggers, nil); err != nil {
		loggers.Errorf("%s", err)
		os.Exit(1)
	}
}

// serve runs the stub until ctx is done. If ready is non-nil, the base URL is sent to it once the
// server is accepting requests and the seed files have been loaded.
func serve(ctx context.Context, cfg stubConfig, loggers ldlog.Loggers, ready chan<- string) error {
	listener, err := net.Listen("tcp", net.JoinHostPort(cfg.Server.Host, cfg.Server.Port))
	if err != nil {
		return fmt.Errorf("unable to listen: %w", err)
	}
	baseURL := "http://" + listener.Addr().String()

	server := &http.Server{
		Handler:      logRequests(mdservices.NewBackend(), loggers),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Serve(listener)
	}()
	loggers.Infof("Mendel stub listening on %s", baseURL)

	if len(cfg.Stub.SeedFiles) > 0 {
		closeSeeding, err := seed(ctx, cfg, baseURL, loggers)
		if err != nil {
			loggers.Warnf("Seeding failed: %s", err)
		}
		defer closeSeeding()
	}
	if ready != nil {
		ready <- baseURL
	}

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func seed(ctx context.Context, cfg stubConfig, baseURL string, loggers ldlog.Loggers) (func(), error) {
	client, err := mendelclient.MakeClient(mendelclient.Config{
		BaseURL: baseURL,
		Logging: mdcomponents.Logging().Loggers(loggers),
	})
	if err != nil {
		return func() {}, err
	}
	builder := mdfiledata.Importer().FilePaths(cfg.Stub.SeedFiles...)
	if cfg.Stub.WatchSeedFiles {
		builder.Reloader(mdfilewatch.WatchFiles)
	}
	importer, err := builder.Build(client, loggers)
	if err != nil {
		_ = client.Close()
		return func() {}, err
	}
	closeAll := func() {
		_ = importer.Close()
		_ = client.Close()
	}
	return closeAll, importer.Start(ctx)
}

func logRequests(handler http.Handler, loggers ldlog.Loggers) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		handler.ServeHTTP(w, r)
		if loggers.IsDebugEnabled() {
			loggers.Debugf("%s %s (%s)", r.Method, r.URL.Path, time.Since(started))
		}
	})
}
