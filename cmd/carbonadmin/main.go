package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/carbonadmin/internal/apiclient"
	"github.com/alexanderramin/carbonadmin/internal/cli"
	"github.com/alexanderramin/carbonadmin/internal/config"
	"github.com/alexanderramin/carbonadmin/internal/db"
	"github.com/alexanderramin/carbonadmin/internal/guard"
	"github.com/alexanderramin/carbonadmin/internal/logging"
	"github.com/alexanderramin/carbonadmin/internal/repository"
	"github.com/alexanderramin/carbonadmin/internal/service"
	"github.com/alexanderramin/carbonadmin/internal/session"
	"github.com/alexanderramin/carbonadmin/internal/telemetry"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		return err
	}

	shutdown := telemetry.Setup(ctx, telemetry.Config{
		ServiceName: "carbonadmin",
		Endpoint:    cfg.OTLPEndpoint,
		Insecure:    cfg.OTLPInsecure,
	}, log)
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log.Warn().Err(err).Msg("telemetry shutdown")
		}
	}()

	// Local state: the persisted session lives in client_storage.
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	storeOpts := []session.Option{session.WithLogger(log)}
	if !cfg.RequireAdmin {
		storeOpts = append(storeOpts, session.WithAuthorizer(session.AnyRole))
	}
	store := session.NewStore(repository.NewSQLiteKVStore(database), nil, storeOpts...)
	watcher := session.NewExpiryWatcher(store, cli.StderrNavigator(os.Stderr), log)

	// Wire the API client
	clientOpts := []apiclient.Option{apiclient.WithExpiryReporter(watcher)}
	if cfg.LogCalls {
		clientOpts = append(clientOpts, apiclient.WithObserver(apiclient.NewLogObserver(log)))
	}
	api := apiclient.New(apiclient.Config{BaseURL: cfg.APIBaseURL, Timeout: cfg.Timeout()}, store, clientOpts...)

	// Wire services
	observer := service.NewLogUseCaseObserver(log)
	store.SetAuthenticator(service.NewAuthService(api, observer))

	if _, err := store.Restore(ctx); err != nil {
		return err
	}

	app := &cli.App{
		Sessions:   store,
		Guard:      guard.New(store, cfg.RequireAdmin, guard.WithLogger(log)),
		Dashboard:  service.NewDashboardService(api, observer),
		Activities: service.NewActivityService(api, observer),
		Users:      service.NewUserService(api, observer),
		Blogs:      service.NewBlogService(api, observer),
		Rewards:    service.NewRewardService(api, observer),
		Watcher:    watcher,
		Log:        log,
	}

	// Detect interactive terminal for the console entrypoint.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
