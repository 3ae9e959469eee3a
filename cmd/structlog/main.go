// Command structlog reads lines from stdin and writes each one as a JSON log record.
// Lines that are valid JSON keep their structure; anything else becomes a JSON string.
//
//	some-script 2>&1 | structlog --level warn --max-log-level info --metrics-addr :9102
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/GabrielNunesIT/structlog/configloader"
	"github.com/GabrielNunesIT/structlog/logger"
	"github.com/GabrielNunesIT/structlog/metrics"
	"github.com/GabrielNunesIT/structlog/webserver"
	"github.com/spf13/pflag"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// maxLineSize bounds a single input line.
const maxLineSize = 1 << 20

type options struct {
	configFile  string
	level       logger.Level
	metricsAddr string
	pprof       bool
	flags       *pflag.FlagSet
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func parseOptions(args []string, usage io.Writer) (options, error) {
	flags := pflag.NewFlagSet("structlog", pflag.ContinueOnError)
	flags.SetOutput(usage)

	configFile := flags.String("config", "", "JSON or YAML config file")
	level := flags.String("level", logger.LevelInfo.String(), "level each input line is logged at")
	metricsAddr := flags.String("metrics-addr", "", "serve Prometheus metrics on this address (disabled when empty)")
	withPprof := flags.Bool("pprof", false, "serve pprof on the metrics address")
	configloader.RegisterFlags(flags)

	if err := flags.Parse(args); err != nil {
		return options{}, err //nolint:wrapcheck // pflag errors are already descriptive
	}

	lineLevel, err := logger.ParseLevel(*level)
	if err != nil {
		return options{}, fmt.Errorf("--level: %w", err)
	}

	return options{
		configFile:  *configFile,
		level:       lineLevel,
		metricsAddr: *metricsAddr,
		pprof:       *withPprof,
		flags:       flags,
	}, nil
}

// run wires config, logger and the optional admin server, then pipes stdin until EOF.
// It installs the process-wide logger and so may only be called once per process.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	boot := logger.NewDispatcher(logger.LevelError, logger.WithStdout(stdout), logger.WithStderr(stderr))

	opts, err := parseOptions(args, stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		boot.ErrorValue(failure{Msg: "invalid arguments", Error: err.Error()})
		return exitUsage
	}

	cfg, err := configloader.NewConfigLoader(
		configloader.WithFile(opts.configFile),
		configloader.WithEnv(configloader.DefaultEnvPrefix),
		configloader.WithFlags(opts.flags),
	).Load()
	if err != nil {
		boot.ErrorValue(failure{Msg: "invalid configuration", Error: err.Error()})
		return exitUsage
	}

	dispatcherOpts := []logger.Option{logger.WithStdout(stdout), logger.WithStderr(stderr)}

	var reg *metrics.Registry
	if opts.metricsAddr != "" {
		reg = metrics.New(metrics.WithNamespace("structlog"), metrics.WithGoCollector())
		dispatcherOpts = append(dispatcherOpts, logger.WithObserver(metrics.NewRecordMetrics(reg)))
	}

	d := logger.Install(cfg, dispatcherOpts...)
	defer d.Flush()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	serverDone := make(chan error, 1)
	if reg != nil {
		serverOpts := []webserver.Option{
			webserver.WithAddress(opts.metricsAddr),
			webserver.WithRecovery(),
			webserver.WithLogger(d),
			webserver.WithMetrics(reg),
		}
		if opts.pprof {
			serverOpts = append(serverOpts, webserver.WithPprof())
		}
		server := webserver.New(serverOpts...)
		go func() { serverDone <- server.Run(ctx) }()
	} else {
		serverDone <- nil
	}

	code := exitOK
	if err := pipe(ctx, d, opts.level, stdin); err != nil {
		d.ErrorValue(failure{Msg: "read input", Error: err.Error()})
		code = exitError
	}

	cancel()
	if err := <-serverDone; err != nil {
		d.ErrorValue(failure{Msg: "metrics server", Error: err.Error()})
		code = exitError
	}
	return code
}

type failure struct {
	Msg   string `json:"msg"`
	Error string `json:"error"`
}

// pipe logs every non-blank line of r at level until EOF or ctx is done. Reading happens in
// its own goroutine so cancellation returns even while a read is blocked; that read is
// abandoned.
func pipe(ctx context.Context, l logger.ILogger, level logger.Level, r io.Reader) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					//nolint:wrapcheck // scanner errors are reported as-is
					return err
				default:
					return nil
				}
			}
			if ctx.Err() != nil {
				return nil
			}

			line = strings.TrimRight(line, "\r")
			if strings.TrimSpace(line) == "" {
				continue
			}
			l.Log(level, line)
		}
	}
}
