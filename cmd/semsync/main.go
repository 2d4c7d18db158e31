// Package main provides the semsync binary entry point.
// Semsync mirrors a triple-based knowledge store into typed in-memory
// instances and writes local changes back as minimal graph deltas.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/c360studio/semsync/config"
	"github.com/c360studio/semsync/export"
	"github.com/c360studio/semsync/graph"
	"github.com/c360studio/semsync/ontology"
	"github.com/c360studio/semsync/store"
	"github.com/c360studio/semsync/triple"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "semsync"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   "semsync",
		Short: "Typed mirror for triple-based knowledge stores",
		Long: `Semsync keeps typed in-memory instances in sync with a
triple-based knowledge store.

It provides:
- A store server exposing a local triple store over NATS request/reply
- Ad-hoc queries for the outgoing edges of an instance
- RDF export of instances by type

Remote stores are reached via NATS; local stores run on Badger or in memory.`,
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(serveCmd(&configPath, &logLevel))
	cmd.AddCommand(queryCmd(&configPath, &logLevel))
	cmd.AddCommand(exportCmd(&configPath, &logLevel))

	// Version command
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

func serveCmd(configPath, logLevel *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve a local triple store over NATS",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(*configPath, *logLevel)
		},
	}
}

func queryCmd(configPath, logLevel *string) *cobra.Command {
	return &cobra.Command{
		Use:   "query <instance-iri>",
		Short: "Print the outgoing edges of an instance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(*configPath, *logLevel, args[0])
		},
	}
}

func exportCmd(configPath, logLevel *string) *cobra.Command {
	var (
		typeTag string
		format  string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export instances of a type as RDF",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(*configPath, *logLevel, typeTag, format)
		},
	}

	cmd.Flags().StringVar(&typeTag, "type", "", "Type IRI to export (required)")
	cmd.Flags().StringVar(&format, "format", "turtle", "Output format (turtle, ntriples)")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func runServe(configPath, logLevel string) error {
	logger := setupLogging(logLevel)

	cfg, err := loadConfig(configPath, logger)
	if err != nil {
		return err
	}
	if cfg.Store.Kind == config.StoreNATS {
		return fmt.Errorf("serve requires a local store backend, got kind %q", cfg.Store.Kind)
	}

	backend, cleanup, err := openBackend(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	conn, err := connectNATS(cfg, logger)
	if err != nil {
		return err
	}
	defer conn.Close()

	var bridgeOpts []store.BridgeOption
	if cfg.Sync.PublishIngest {
		stream, err := connectStream(cfg, logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := stream.Close(context.Background()); err != nil {
				logger.Warn("Error closing ingest stream", "error", err)
			}
		}()
		bridgeOpts = append(bridgeOpts, store.WithDeltaPublisher(graph.NewNATSPublisher(stream)))
	}

	bridge := store.NewBridge(backend, logger, bridgeOpts...)
	if err := bridge.Serve(conn); err != nil {
		return fmt.Errorf("serve store: %w", err)
	}
	defer bridge.Drain()

	logger.Info("Semsync store serving",
		"version", Version,
		"backend", cfg.Store.Kind,
		"publish_ingest", cfg.Sync.PublishIngest)

	// Block until shutdown signal
	signalCtx, signalCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer signalCancel()
	<-signalCtx.Done()

	logger.Info("Received shutdown signal")
	return nil
}

func runQuery(configPath, logLevel, instanceID string) error {
	logger := setupLogging(logLevel)

	cfg, err := loadConfig(configPath, logger)
	if err != nil {
		return err
	}

	client, cleanup, err := openClient(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Store.Timeout)
	defer cancel()

	edges, err := client.OutgoingEdges(ctx, []string{instanceID})
	if err != nil {
		return fmt.Errorf("query edges: %w", err)
	}

	out, err := json.MarshalIndent(edges[instanceID], "", "  ")
	if err != nil {
		return fmt.Errorf("encode edges: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

func runExport(configPath, logLevel, typeTag, format string) error {
	logger := setupLogging(logLevel)

	cfg, err := loadConfig(configPath, logger)
	if err != nil {
		return err
	}

	client, cleanup, err := openClient(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Store.Timeout)
	defer cancel()

	ids, err := client.InstancesOfType(ctx, typeTag)
	if err != nil {
		return fmt.Errorf("query instances: %w", err)
	}
	logger.Debug("Resolved instances", "type", typeTag, "count", len(ids))

	// Follow references into the neighboring subgraph as deep as the
	// configured sync depth allows.
	edges, err := collectClosure(ctx, client, ids, ontology.Bounded(cfg.Sync.Depth))
	if err != nil {
		return err
	}

	graph := triple.NewGraph()
	for subject, preds := range edges {
		for predicate, terms := range preds {
			for _, term := range terms {
				graph.Add(triple.Triple{Subject: subject, Predicate: predicate, Object: term})
			}
		}
	}

	exporter := export.NewExporter(graph)
	exporter.AddPrefix("ont", cfg.Ontology.Namespace)
	output, err := exporter.Export(export.Format(strings.ToLower(format)))
	if err != nil {
		return err
	}

	fmt.Print(output)
	return nil
}

func setupLogging(logLevel string) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}
