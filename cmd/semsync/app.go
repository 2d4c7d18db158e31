package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/c360studio/semstreams/natsclient"
	"github.com/nats-io/nats.go"

	"github.com/c360studio/semsync/config"
	"github.com/c360studio/semsync/ontology"
	"github.com/c360studio/semsync/store"
	"github.com/c360studio/semsync/triple"
)

// loadConfig loads layered config, or a single file when --config is given.
func loadConfig(configPath string, logger *slog.Logger) (*config.Config, error) {
	if configPath != "" {
		cfg, err := config.LoadFromFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
		return cfg, nil
	}

	return config.NewLoader(logger).Load()
}

// openBackend opens the configured local store backend. The returned cleanup
// closes the backend and must be called even on error-free shutdown.
func openBackend(cfg *config.Config) (store.Client, func(), error) {
	switch cfg.Store.Kind {
	case config.StoreMemory:
		return store.NewMemoryStore(), func() {}, nil
	case config.StoreBadger:
		backend, err := store.OpenBadger(cfg.Store.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open badger store: %w", err)
		}
		return backend, func() {
			if err := backend.Close(); err != nil {
				slog.Error("Error closing badger store", "error", err)
			}
		}, nil
	default:
		return nil, nil, fmt.Errorf("no local backend for store kind %q", cfg.Store.Kind)
	}
}

// openClient opens a store client for the configured backend, remote or local.
func openClient(cfg *config.Config, logger *slog.Logger) (store.Client, func(), error) {
	if cfg.Store.Kind != config.StoreNATS {
		return openBackend(cfg)
	}

	conn, err := connectNATS(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	client := store.NewNATSStore(conn, store.WithRequestTimeout(cfg.Store.Timeout))
	return client, conn.Close, nil
}

// connectNATS connects to the configured NATS server. The NATS_URL
// environment variable overrides the config value.
func connectNATS(cfg *config.Config, logger *slog.Logger) (*nats.Conn, error) {
	url := cfg.Store.URL
	if envURL := os.Getenv("NATS_URL"); envURL != "" {
		url = envURL
	}
	if url == "" {
		url = nats.DefaultURL
	}

	logger.Info("Connecting to NATS", "url", url)

	conn, err := nats.Connect(url,
		nats.Name(appName),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, wrapNATSError(err, url)
	}

	logger.Info("Connected to NATS", "url", url)
	return conn, nil
}

// connectStream opens a semstreams client for ingest publication. The
// NATS_URL environment variable overrides the config value.
func connectStream(cfg *config.Config, logger *slog.Logger) (*natsclient.Client, error) {
	url := cfg.Store.URL
	if envURL := os.Getenv("NATS_URL"); envURL != "" {
		url = envURL
	}
	if url == "" {
		url = nats.DefaultURL
	}

	client, err := natsclient.NewClient(url,
		natsclient.WithName(appName+"-ingest"),
		natsclient.WithMaxReconnects(-1),
		natsclient.WithReconnectWait(time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("create stream client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.Connect(ctx); err != nil {
		return nil, wrapNATSError(err, url)
	}
	if err := client.WaitForConnection(ctx); err != nil {
		return nil, wrapNATSError(err, url)
	}

	logger.Info("Connected ingest stream", "url", url)
	return client, nil
}

// collectClosure gathers the outgoing edges of the seed identifiers and,
// level by level, of the IRI objects they reference, within the depth
// budget. Levels are visited in breadth-first order, so every node is
// reached along a shortest path and the visited set never cuts off a node
// the budget still covers.
func collectClosure(ctx context.Context, client store.Client, seeds []string, depth ontology.Depth) (map[string]map[string][]triple.Term, error) {
	out := make(map[string]map[string][]triple.Term)
	visited := make(map[string]struct{})
	frontier := seeds

	for budget := depth; len(frontier) > 0; budget = budget.Next() {
		batch := make([]string, 0, len(frontier))
		for _, id := range frontier {
			if _, seen := visited[id]; seen {
				continue
			}
			visited[id] = struct{}{}
			batch = append(batch, id)
		}
		if len(batch) == 0 {
			break
		}

		nodes, err := client.OutgoingEdges(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("query edges: %w", err)
		}

		var next []string
		for id, preds := range nodes {
			out[id] = preds
			if !budget.Recurse() {
				continue
			}
			for _, terms := range preds {
				for _, term := range terms {
					if term.IsIRI() {
						next = append(next, term.IRIValue())
					}
				}
			}
		}
		frontier = next
	}
	return out, nil
}

// wrapNATSError provides helpful guidance when NATS connection fails.
func wrapNATSError(err error, url string) error {
	errStr := err.Error()

	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no servers available") ||
		strings.Contains(errStr, "timeout") {
		return fmt.Errorf(`NATS connection failed: %w

NATS is not running at %s.

To start NATS:
  docker compose up -d nats

Or set NATS_URL environment variable to point to your NATS server.`, err, url)
	}

	return fmt.Errorf("NATS connection failed: %w", err)
}
