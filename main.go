package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"go-mod.ewintr.nl/delicious-copy/config"
	"go-mod.ewintr.nl/delicious-copy/copier"
	"go-mod.ewintr.nl/delicious-copy/delicious"
	"go-mod.ewintr.nl/delicious-copy/domain"
	"go-mod.ewintr.nl/delicious-copy/inbox"
	"go-mod.ewintr.nl/delicious-copy/storage"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	verbose := flag.Bool("verbose", false, "write progress lines to the log file")
	flag.Parse()

	conf, err := config.Load(*configPath)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if *verbose {
		conf.Verbose = true
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	if err := run(conf, logger); err != nil {
		logger.Error("check failed", "error", err)
		os.Exit(1)
	}
}

func run(conf config.Config, logger *slog.Logger) error {
	svc, err := newService(conf)
	if err != nil {
		return err
	}

	opts := []copier.Option{copier.WithLogger(logger)}
	if conf.History.Driver != "" {
		db, err := storage.NewClient(&storage.Config{
			Driver:     conf.History.Driver,
			PGHostname: conf.History.PGHostname,
			PGPort:     conf.History.PGPort,
			PGDBName:   conf.History.PGDBName,
			PGUser:     conf.History.PGUser,
			PGPassword: conf.History.PGPassword,
			SQLitePath: conf.History.SQLitePath,
		})
		if err != nil {
			return fmt.Errorf("could not open history db: %w", err)
		}
		defer db.Close()
		opts = append(opts, copier.WithRecorder(storage.NewHistoryRepo(db)))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	jobConf := copier.Config{
		LogFile:    conf.LogFile,
		Verbose:    conf.Verbose,
		SkipLogged: conf.SkipLogged,
		Delay:      conf.Delay,
		CopyNotes:  conf.CopyNotes,
	}

	if conf.Schedule == "" {
		return check(ctx, svc, jobConf, logger, opts)
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(conf.Schedule, func() {
		if err := check(ctx, svc, jobConf, logger, opts); err != nil {
			logger.Error("check failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("could not schedule check: %w", err)
	}

	logger.Info("starting service", "schedule", conf.Schedule)
	c.Start()
	<-ctx.Done()
	logger.Info("stopping service")
	<-c.Stop().Done()
	logger.Info("service exited")

	return nil
}

func check(ctx context.Context, svc copier.Service, conf copier.Config, logger *slog.Logger, opts []copier.Option) error {
	logger.Info("checking inbox...")
	job, err := copier.New(ctx, svc, conf, opts...)
	if err != nil {
		return err
	}
	report, err := job.Check(ctx)
	if err != nil {
		return err
	}
	if report.Aborted {
		logger.Warn("check aborted, log file unavailable", "logfile", conf.LogFile)
		return nil
	}

	args := []any{"run", report.RunID}
	for _, s := range domain.AllStatuses {
		if n := report.Counts[s]; n > 0 {
			args = append(args, string(s), n)
		}
	}
	logger.Info("inbox checked", args...)

	return nil
}

// service reads the inbox from miniflux instead of delicious when one
// is configured.
type service struct {
	*delicious.Client
	inbox *inbox.Miniflux
}

func (s service) FetchInbox(ctx context.Context) ([]domain.InboxEntry, error) {
	if s.inbox != nil {
		return s.inbox.FetchInbox(ctx)
	}
	return s.Client.FetchInbox(ctx)
}

func newService(conf config.Config) (copier.Service, error) {
	client, err := delicious.NewClient(delicious.Config{
		Username: conf.Delicious.Username,
		Password: conf.Delicious.Password,
		Key:      conf.Delicious.Key,
		APIURL:   conf.Delicious.APIURL,
		FeedsURL: conf.Delicious.FeedsURL,
	})
	if err != nil {
		return nil, err
	}

	svc := service{Client: client}
	if conf.Miniflux.Hostname != "" {
		svc.inbox = inbox.NewMiniflux(conf.Miniflux.Hostname, conf.Miniflux.APIKey, conf.Miniflux.CategoryID)
	}

	return svc, nil
}
