package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/SscSPs/currency_watch_app/internal/app"
	"github.com/SscSPs/currency_watch_app/internal/core/domain"
	portssvc "github.com/SscSPs/currency_watch_app/internal/core/ports/services"
	"github.com/SscSPs/currency_watch_app/internal/platform/config"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const usage = `Usage: rates_cli [global flags] <command> [flags]

Commands:
  load-history   load the last --days days of rates (default 30)
  load-daily     load the latest published rates
  notify         send threshold notifications for today (--force to resend)
  create-user    register a notification recipient (--name, --email)

Global flags:
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	v := config.New()

	global := pflag.NewFlagSet("rates_cli", pflag.ContinueOnError)
	global.SetOutput(stderr)
	global.SetInterspersed(false)
	global.String("log-level", "", "log level (debug|info|warn|error)")
	global.String("database-url", "", "PostgreSQL connection URL")
	global.Usage = func() {
		fmt.Fprint(stderr, usage)
		global.PrintDefaults()
	}
	if err := global.Parse(args); err != nil {
		return 2
	}
	bindFlag(v, global, "LOG_LEVEL", "log-level")
	bindFlag(v, global, "PGSQL_URL", "database-url")

	rest := global.Args()
	if len(rest) == 0 {
		global.Usage()
		return 2
	}
	cmd, err := parseCommand(rest[0], rest[1:], stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	cfg, err := config.Load(v)
	if err != nil {
		fmt.Fprintln(stderr, "Failed to load config:", err)
		return 1
	}
	logger := app.NewLogger(cfg.SlogLevel())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, logger, nil)
	if err != nil {
		logger.Error("Failed to initialize application", slog.String("error", err.Error()))
		return 1
	}
	defer application.Close()

	if err := cmd.exec(ctx, application.Services, stdout); err != nil {
		logger.Error("Command failed", slog.String("command", cmd.name), slog.String("error", err.Error()))
		return 1
	}
	return 0
}

// bindFlag lets an explicitly set flag override the environment value of key.
func bindFlag(v *viper.Viper, fs *pflag.FlagSet, key, flag string) {
	if f := fs.Lookup(flag); f != nil && f.Changed {
		_ = v.BindPFlag(key, f)
	}
}

type command struct {
	name string
	exec func(ctx context.Context, svc *portssvc.ServiceContainer, out io.Writer) error
}

func parseCommand(name string, args []string, stderr io.Writer) (*command, error) {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(stderr)

	switch name {
	case "load-history":
		days := fs.Int("days", 30, "number of days to load, today included")
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		if *days <= 0 {
			return nil, fmt.Errorf("--days must be positive")
		}
		return &command{name: name, exec: func(ctx context.Context, svc *portssvc.ServiceContainer, out io.Writer) error {
			return loadHistory(ctx, svc.Ingestion, *days, out)
		}}, nil

	case "load-daily":
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		return &command{name: name, exec: func(ctx context.Context, svc *portssvc.ServiceContainer, out io.Writer) error {
			report, err := svc.Ingestion.LoadDaily(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Loaded %d prices, %d new currencies, %d failed\n",
				report.PricesUpserted, report.NewCurrencies, report.FailedDays)
			return nil
		}}, nil

	case "notify":
		force := fs.Bool("force", false, "send again even if today's batch was already sent")
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		return &command{name: name, exec: func(ctx context.Context, svc *portssvc.ServiceContainer, out io.Writer) error {
			result, err := svc.Notifier.Run(ctx, *force)
			if result != nil {
				printRunResult(out, result)
			}
			return err
		}}, nil

	case "create-user":
		userName := fs.String("name", "", "recipient name")
		email := fs.String("email", "", "recipient email")
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		return &command{name: name, exec: func(ctx context.Context, svc *portssvc.ServiceContainer, out io.Writer) error {
			user, err := svc.Users.CreateUser(ctx, *userName, *email)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, user.UserID)
			return nil
		}}, nil

	default:
		return nil, fmt.Errorf("unknown command %q", name)
	}
}

// loadHistory prints one line per day and a closing summary.
func loadHistory(ctx context.Context, ingestion portssvc.IngestionSvc, days int, out io.Writer) error {
	report, err := ingestion.LoadHistory(ctx, days, func(e domain.ProgressEvent) {
		fmt.Fprintln(out, formatProgress(e))
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(out, formatSummary(report))
	return nil
}

func formatProgress(e domain.ProgressEvent) string {
	if e.Failed() {
		return fmt.Sprintf("%s: error loading %s: %s", e.Date.Format(domain.DateLayout), e.URL, e.Error)
	}
	return fmt.Sprintf("%s: loaded %s", e.Date.Format(domain.DateLayout), e.URL)
}

func formatSummary(r *domain.IngestionReport) string {
	return fmt.Sprintf("Done. Days processed: %d, errors: %d, prices written: %d, new currencies: %d",
		len(r.Days), r.FailedDays, r.PricesUpserted, r.NewCurrencies)
}

func printRunResult(out io.Writer, r *domain.NotifierRunResult) {
	if r.Skipped {
		fmt.Fprintf(out, "Notifications for %s already sent, skipped\n", r.Date.Format(domain.DateLayout))
		return
	}
	fmt.Fprintf(out, "Sent %d notifications (%d failed) covering %d breaches for %s\n",
		r.Notifications, r.Failed, r.Breaches, r.Date.Format(domain.DateLayout))
}
