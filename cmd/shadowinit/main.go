// Command shadowinit locates elements across shadow-tree boundaries in an
// HTML document (or a live page) and runs component initializers on them.
//
// Usage:
//
//	shadowinit -html page.html -find my-id          # locate one element by id
//	shadowinit -html page.html -query ".accordion"  # locate all matches
//	shadowinit -url https://example.com -find my-id # same, against live Chrome
//	shadowinit -config shadowinit.yaml              # run an init plan
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hazyhaar/shadowinit/accordion"
	"github.com/hazyhaar/shadowinit/component"
	"github.com/hazyhaar/shadowinit/dom"
	"github.com/hazyhaar/shadowinit/htmldom"
	"github.com/hazyhaar/shadowinit/livedom"
)

func main() {
	configPath := flag.String("config", "", "path to shadowinit.yaml plan")
	htmlPath := flag.String("html", "", "HTML file to search")
	pageURL := flag.String("url", "", "live page URL to search (needs Chrome)")
	findID := flag.String("find", "", "locate a single element by id")
	query := flag.String("query", "", "locate all elements matching a selector")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	var level slog.Level
	switch *logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, *configPath, *htmlPath, *pageURL, *findID, *query); err != nil {
		logger.Error("shadowinit: fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, configPath, htmlPath, pageURL, findID, query string) error {
	if configPath != "" {
		return runPlan(ctx, logger, configPath)
	}

	if htmlPath == "" && pageURL == "" {
		fmt.Fprintln(os.Stderr, "usage: shadowinit -config <file> | (-html <file> | -url <url>) (-find <id> | -query <selector>)")
		os.Exit(1)
	}

	root, cleanup, err := openRoot(ctx, logger, htmlPath, pageURL)
	if err != nil {
		return err
	}
	defer cleanup()

	switch {
	case findID != "":
		return runFind(findID, root)
	case query != "":
		return runQuery(query, root)
	default:
		return fmt.Errorf("nothing to do: pass -find or -query")
	}
}

// openRoot loads the search root from a file or a live page.
func openRoot(ctx context.Context, logger *slog.Logger, htmlPath, pageURL string) (dom.Root, func(), error) {
	if pageURL != "" {
		page, cleanup, err := livedom.Open(ctx, pageURL, livedom.WithLogger(logger))
		if err != nil {
			return nil, nil, err
		}
		return page, cleanup, nil
	}

	f, err := os.Open(htmlPath)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	doc, err := htmldom.Parse(f)
	if err != nil {
		return nil, nil, err
	}
	return doc, func() {}, nil
}

type matchOut struct {
	Tag string `json:"tag"`
	ID  string `json:"id,omitempty"`
}

func runFind(id string, root dom.Root) error {
	m, ok := dom.FindByID(id, root)
	if !ok {
		return fmt.Errorf("no element with id %q", id)
	}
	return json.NewEncoder(os.Stdout).Encode(matchOut{Tag: m.Element.TagName(), ID: m.Element.ID()})
}

func runQuery(selector string, root dom.Root) error {
	matches, err := dom.FindAll(selector, root)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	for _, m := range matches {
		if err := enc.Encode(matchOut{Tag: m.Element.TagName(), ID: m.Element.ID()}); err != nil {
			return err
		}
	}
	return nil
}

// runPlan executes every component request of a YAML plan and reports each
// settled outcome.
func runPlan(ctx context.Context, logger *slog.Logger, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	root, cleanup, err := openRoot(ctx, logger, cfg.HTML, cfg.URL)
	if err != nil {
		return err
	}
	defer cleanup()

	d := component.New(root,
		component.Config{Debug: cfg.Debug, SearchDelay: &cfg.SearchDelay},
		component.WithLogger(logger),
		component.WithFallback(accordion.Probe(logger)),
	)

	settlements := make([]*component.Settlement, 0, len(cfg.Components))
	for _, c := range cfg.Components {
		settlements = append(settlements, d.Init(component.Request{
			ElementID: c.ElementID,
			Selector:  c.Selector,
			Type:      c.Type,
			Options:   c.Options,
		}))
	}

	var failed int
	for i, s := range settlements {
		c := cfg.Components[i]
		start := time.Now()
		if _, err := s.Await(ctx); err != nil {
			logger.Error("shadowinit: component failed",
				"type", c.Type, "element_id", c.ElementID, "selector", c.Selector, "error", err)
			failed++
			continue
		}
		logger.Info("shadowinit: component initialized",
			"type", c.Type, "element_id", c.ElementID, "selector", c.Selector,
			"waited", time.Since(start))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d components failed", failed, len(cfg.Components))
	}
	return nil
}
