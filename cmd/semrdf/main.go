// Package main provides the semrdf binary entry point.
// Semrdf retrieves RDF descriptions of repository resources and feeds them
// into the semstreams knowledge graph.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	cliconfig "github.com/c360studio/semrdf/config"
	rdfretriever "github.com/c360studio/semrdf/processor/rdf-retriever"
	"github.com/c360studio/semstreams/component"
	"github.com/c360studio/semstreams/componentregistry"
	"github.com/c360studio/semstreams/config"
	"github.com/c360studio/semstreams/metric"
	"github.com/c360studio/semstreams/natsclient"
	"github.com/c360studio/semstreams/payloadbuiltins"
	"github.com/c360studio/semstreams/payloadregistry"
	"github.com/c360studio/semstreams/service"
	"github.com/c360studio/semstreams/types"
	"github.com/spf13/cobra"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "semrdf"

	defaultNATSURL = "nats://localhost:4222"
)

func main() {
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
		natsURL    string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   "semrdf",
		Short: "RDF resource retriever for the knowledge graph",
		Long: `Semrdf retrieves RDF descriptions of repository resources and
publishes them to the semstreams knowledge graph.

Without a subcommand it runs the rdf-retriever service, consuming resource
change events from NATS JetStream. Use "semrdf fetch <uri>" to retrieve a
single description and print it as N-Triples.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath, natsURL, logLevel)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Service config file path (JSON)")
	cmd.Flags().StringVar(&natsURL, "nats-url", "", "NATS server URL (overrides NATS_URL and nats.url)")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides log.level")

	cmd.AddCommand(fetchCmd())
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

// newLogger builds a text logger on w at the named level.
func newLogger(w io.Writer, logLevel string) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// logLevelFor returns the --log-level value when given, otherwise the level
// from semrdf.yaml or SEMRDF_LOG_LEVEL.
func logLevelFor(flagValue string, local *cliconfig.Config) string {
	if flagValue != "" || local == nil {
		return flagValue
	}
	return local.Log.Level
}

func run(configPath, natsURL, logLevel string) error {
	local, err := cliconfig.NewLoader(newLogger(os.Stderr, logLevel)).Load("")
	if err != nil {
		return fmt.Errorf("load semrdf config: %w", err)
	}
	logger := newLogger(os.Stderr, logLevelFor(logLevel, local))
	slog.SetDefault(logger)

	cfg, err := loadConfig(configPath, natsURL)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx := context.Background()
	natsClient, err := connectToNATS(ctx, resolveNATSURL(natsURL, local, cfg), logger)
	if err != nil {
		return err
	}
	defer natsClient.Close(ctx)

	if err := ensureStreams(ctx, cfg, natsClient, logger); err != nil {
		return err
	}

	metricsRegistry := metric.NewMetricsRegistry()
	platform := extractPlatformMeta(cfg)

	configManager, err := config.NewConfigManager(cfg, natsClient, logger)
	if err != nil {
		return fmt.Errorf("create config manager: %w", err)
	}
	if err := configManager.Start(ctx); err != nil {
		return fmt.Errorf("start config manager: %w", err)
	}
	defer configManager.Stop(5 * time.Second)

	slog.Info("Platform identity configured",
		"org", platform.Org,
		"platform", platform.Platform)

	componentRegistry := component.NewRegistry()
	if err := componentregistry.Register(componentRegistry); err != nil {
		return fmt.Errorf("register semstreams components: %w", err)
	}
	if err := rdfretriever.Register(componentRegistry); err != nil {
		return fmt.Errorf("register rdf-retriever: %w", err)
	}
	slog.Info("Component factories registered", "count", len(componentRegistry.ListFactories()))

	payloadReg := payloadregistry.New()
	if err := payloadbuiltins.Register(payloadReg); err != nil {
		return fmt.Errorf("register builtin payloads: %w", err)
	}
	if err := rdfretriever.RegisterPayloads(payloadReg); err != nil {
		return fmt.Errorf("register rdf-retriever payloads: %w", err)
	}

	serviceRegistry := service.NewServiceRegistry()
	if err := service.RegisterAll(serviceRegistry); err != nil {
		return fmt.Errorf("register services: %w", err)
	}

	manager := service.NewServiceManager(serviceRegistry)
	ensureServiceManagerConfig(cfg)

	svcDeps := &service.Dependencies{
		NATSClient:        natsClient,
		MetricsRegistry:   metricsRegistry,
		Logger:            logger,
		Platform:          platform,
		Manager:           configManager,
		ComponentRegistry: componentRegistry,
		PayloadRegistry:   payloadReg,
	}

	if err := configureAndCreateServices(cfg, manager, svcDeps); err != nil {
		return err
	}

	signalCtx, signalCancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer signalCancel()

	slog.Info("Starting all services", "version", Version)
	if err := manager.StartAll(signalCtx); err != nil {
		return fmt.Errorf("start services: %w", err)
	}

	<-signalCtx.Done()
	slog.Info("Received shutdown signal")

	if err := manager.StopAll(30 * time.Second); err != nil {
		slog.Error("Error stopping services", "error", err)
	}

	slog.Info("Semrdf shutdown complete")
	return nil
}

func loadConfig(configPath, natsURL string) (*config.Config, error) {
	if configPath != "" {
		return loadConfigWithEnvSubstitution(configPath)
	}
	return buildDefaultConfig(natsURL)
}

// loadConfigWithEnvSubstitution reads a config file and expands environment
// variables before parsing. Supports ${VAR} and ${VAR:-default} syntax.
func loadConfigWithEnvSubstitution(configPath string) (*config.Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	expanded := config.ExpandEnvWithDefaults(string(data))

	loader := config.NewLoader()
	return loader.LoadFromBytes([]byte(expanded))
}

// buildDefaultConfig returns a single-node configuration running the
// rdf-retriever with its default ports.
func buildDefaultConfig(natsURL string) (*config.Config, error) {
	retrieverJSON, err := json.Marshal(rdfretriever.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("marshal rdf-retriever config: %w", err)
	}

	if natsURL == "" {
		natsURL = defaultNATSURL
	}

	return &config.Config{
		Version: "1.0.0",
		Platform: config.PlatformConfig{
			Org:         "c360",
			ID:          "semrdf",
			Environment: "dev",
		},
		NATS: config.NATSConfig{
			URLs:          []string{natsURL},
			MaxReconnects: -1,
			ReconnectWait: 2 * time.Second,
			JetStream: config.JetStreamConfig{
				Enabled: true,
			},
		},
		Services: types.ServiceConfigs{},
		Components: config.ComponentConfigs{
			"rdf-retriever": types.ComponentConfig{
				Name:    "rdf-retriever",
				Type:    types.ComponentTypeProcessor,
				Enabled: true,
				Config:  retrieverJSON,
			},
		},
		Streams: config.StreamConfigs{
			"RESOURCES": config.StreamConfig{
				Subjects: []string{"resource.event.>"},
				MaxAge:   "168h",
				Storage:  "file",
				Replicas: 1,
			},
			"GRAPH": config.StreamConfig{
				Subjects: []string{"graph.ingest.entity"},
				MaxAge:   "24h",
				Storage:  "file",
				Replicas: 1,
			},
		},
	}, nil
}

// resolveNATSURL picks the NATS URL: the --nats-url flag, then NATS_URL,
// then nats.url from semrdf.yaml or SEMRDF_NATS_URL, then the service config.
func resolveNATSURL(flagURL string, local *cliconfig.Config, cfg *config.Config) string {
	if flagURL != "" {
		return flagURL
	}
	if envURL := os.Getenv("NATS_URL"); envURL != "" {
		return envURL
	}
	if local != nil && local.NATS.URL != "" {
		return local.NATS.URL
	}
	if len(cfg.NATS.URLs) > 0 {
		return strings.Join(cfg.NATS.URLs, ",")
	}
	return defaultNATSURL
}

func connectToNATS(ctx context.Context, natsURLs string, logger *slog.Logger) (*natsclient.Client, error) {
	logger.Info("Connecting to NATS", "url", natsURLs)

	client, err := natsclient.NewClient(natsURLs,
		natsclient.WithName(appName),
		natsclient.WithMaxReconnects(-1),
		natsclient.WithReconnectWait(time.Second),
		natsclient.WithHealthInterval(30*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("create NATS client: %w", err)
	}

	if err := client.Connect(ctx); err != nil {
		return nil, wrapNATSError(err, natsURLs)
	}

	connCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := client.WaitForConnection(connCtx); err != nil {
		return nil, wrapNATSError(err, natsURLs)
	}

	logger.Info("Connected to NATS", "url", natsURLs)
	return client, nil
}

// wrapNATSError adds startup guidance to common connection failures.
func wrapNATSError(err error, url string) error {
	errStr := err.Error()
	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no servers available") ||
		strings.Contains(errStr, "timeout") {
		return fmt.Errorf(`NATS connection failed: %w

NATS is not running at %s.

Start a server with JetStream enabled (nats-server -js) or set NATS_URL
to point to your NATS server.`, err, url)
	}
	return fmt.Errorf("NATS connection failed: %w", err)
}

func ensureStreams(ctx context.Context, cfg *config.Config, natsClient *natsclient.Client, logger *slog.Logger) error {
	logger.Debug("Creating JetStream streams")
	streamsManager := config.NewStreamsManager(natsClient, logger)

	if err := streamsManager.EnsureStreams(ctx, cfg); err != nil {
		return fmt.Errorf("ensure streams: %w", err)
	}

	logger.Debug("JetStream streams ready")
	return nil
}

func extractPlatformMeta(cfg *config.Config) types.PlatformMeta {
	platformID := cfg.Platform.InstanceID
	if platformID == "" {
		platformID = cfg.Platform.ID
	}

	return types.PlatformMeta{
		Org:      cfg.Platform.Org,
		Platform: platformID,
	}
}

// ensureServiceManagerConfig ensures service-manager config exists with defaults
func ensureServiceManagerConfig(cfg *config.Config) {
	if cfg.Services == nil {
		cfg.Services = make(types.ServiceConfigs)
	}

	if _, exists := cfg.Services["service-manager"]; exists {
		return
	}

	defaultConfig := map[string]any{
		"http_port":  8080,
		"swagger_ui": false,
		"server_info": map[string]string{
			"title":       "Semrdf API",
			"description": "RDF resource retrieval for the knowledge graph",
			"version":     Version,
		},
	}
	defaultConfigJSON, _ := json.Marshal(defaultConfig)
	cfg.Services["service-manager"] = types.ServiceConfig{
		Name:    "service-manager",
		Enabled: true,
		Config:  defaultConfigJSON,
	}
}

// configureAndCreateServices configures the manager and creates all services
func configureAndCreateServices(
	cfg *config.Config,
	manager *service.Manager,
	svcDeps *service.Dependencies,
) error {
	if err := manager.ConfigureFromServices(cfg.Services, svcDeps); err != nil {
		return fmt.Errorf("configure service manager: %w", err)
	}

	for name, svcConfig := range cfg.Services {
		if name == "service-manager" {
			continue
		}
		if !svcConfig.Enabled {
			slog.Info("Service disabled in config", "name", name)
			continue
		}
		if !manager.HasConstructor(name) {
			slog.Warn("Service configured but not registered", "key", name, "available_constructors", manager.ListConstructors())
			continue
		}
		if _, err := manager.CreateService(name, svcConfig.Config, svcDeps); err != nil {
			return fmt.Errorf("create service %s: %w", name, err)
		}
		slog.Info("Created service", "name", name)
	}

	return nil
}
