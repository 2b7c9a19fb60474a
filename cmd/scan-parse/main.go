package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"scanparse/internal/config"
	"scanparse/internal/logging"
	"scanparse/internal/resultparser"
	"scanparse/internal/resultparser/core"
	"scanparse/internal/resultparser/enrich"
	"scanparse/internal/resultparser/fetch"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run returns the process exit code so deferred cleanups run before exit.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "config error: %v\n", err)
		return 2
	}
	fs := flag.NewFlagSet("scan-parse", flag.ContinueOnError)
	fs.SetOutput(stderr)
	formatFlag := fs.String("format", "text", "output format: text|json")
	parsersFlag := fs.String("parsers", strings.Join(cfg.Parser.Order, ","), "comma-separated parser order")
	tzFlag := fs.String("tz", cfg.Parser.Timezone, "IANA timezone for calendar times (default: local)")
	resolveFlag := fs.Bool("resolve-title", false, "fetch the page title of URI results")
	timeoutFlag := fs.Duration("timeout", 10*time.Second, "title lookup timeout")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	logger, cleanup, err := logging.New(cfg.Logging, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "log error: %v\n", err)
		return 2
	}
	defer func() {
		_ = cleanup()
	}()

	cfg.Parser.Timezone = *tzFlag
	loc, err := cfg.Location()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	dispatcher, err := resultparser.NewDispatcher(logger, loc, strings.Split(*parsersFlag, ",")...)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	input, err := readInput(fs.Args(), stdin)
	if err != nil {
		fmt.Fprintf(stderr, "read error: %v\n", err)
		return 1
	}
	result := dispatcher.Parse(input)

	if uri, ok := result.(*core.URIParsedResult); ok && *resolveFlag {
		fetcher := fetch.NewHTTPFetcher(logger, fetch.Config{
			Timeout:      cfg.Fetch.Timeout,
			Retries:      cfg.Fetch.Retries,
			RateLimitRPS: cfg.Fetch.RPS,
			RateBurst:    cfg.Fetch.Burst,
			UserAgent:    cfg.Fetch.UserAgent,
		})
		ctx, cancel := context.WithTimeout(context.Background(), *timeoutFlag)
		titled, err := enrich.NewTitleResolver(fetcher, logger).Resolve(ctx, uri)
		cancel()
		if err != nil {
			logger.Warn("title_lookup_failed", "error", err)
		} else {
			result = titled
		}
	}

	switch strings.ToLower(strings.TrimSpace(*formatFlag)) {
	case "json":
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(core.NewEnvelope(result))
	case "text":
		fmt.Fprintln(stdout, result.DisplayResult())
	default:
		fmt.Fprintf(stderr, "invalid format: %s\n", *formatFlag)
		return 2
	}
	return 0
}

// readInput joins the arguments, or reads stdin when there are none. One
// trailing newline from stdin is dropped.
func readInput(args []string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", err
	}
	text := strings.TrimSuffix(string(data), "\n")
	return strings.TrimSuffix(text, "\r"), nil
}
