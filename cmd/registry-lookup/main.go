package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"demographics/internal/platform/config"
	"demographics/internal/platform/logger"
	"demographics/internal/platform/tracing"
	"demographics/internal/registry/classifier"
	"demographics/internal/registry/metrics"
	"demographics/internal/registry/models"
	"demographics/internal/registry/request"
	"demographics/internal/registry/service"
	"demographics/internal/registry/transport/soap"
	"demographics/pkg/requestcontext"
)

type options struct {
	envFile          string
	allowUnvalidated bool
	concurrency      int
	clientIP         string
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:          "registry-lookup",
		Short:        "Look up patient demographics in the client registry",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", config.DefaultEnvFile, "optional env file")
	root.PersistentFlags().BoolVar(&opts.allowUnvalidated, "allow-unvalidated", false, "accept subjects without a PHN or displayable HDID")
	root.PersistentFlags().IntVar(&opts.concurrency, "concurrency", 0, "parallel lookups (defaults to REGISTRY_LOOKUP_CONCURRENCY)")
	root.PersistentFlags().StringVar(&opts.clientIP, "client-ip", "", "client address reported to the registry")

	root.AddCommand(lookupCmd("hdid", "Look up subjects by health gateway identifier", models.OidTypeHdid, opts))
	root.AddCommand(lookupCmd("phn", "Look up subjects by personal health number", models.OidTypePhn, opts))
	return root
}

func lookupCmd(use, short string, kind models.OidType, opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <identifier>...",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(cmd.Context(), cmd.OutOrStdout(), kind, args, opts)
		},
	}
}

func runLookup(ctx context.Context, out io.Writer, kind models.OidType, identifiers []string, opts *options) error {
	cfg, err := config.Load(opts.envFile)
	if err != nil {
		return err
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp, err := tracing.Init(ctx, tracing.Config{
		Enabled:     cfg.OtelEnabled,
		Endpoint:    cfg.OtelEndpoint,
		ServiceName: "registry-lookup",
		SampleRate:  cfg.OtelSampleRate,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Warn("tracer shutdown", "error", err)
		}
	}()

	client, err := newClient(cfg, log)
	if err != nil {
		return err
	}

	if opts.clientIP != "" {
		ctx = requestcontext.WithClientIP(ctx, opts.clientIP)
	}

	queries := make([]models.IdentifierQuery, 0, len(identifiers))
	for _, id := range identifiers {
		queries = append(queries, models.IdentifierQuery{
			Kind:                        kind,
			Value:                       id,
			AllowUnvalidatedIdentifiers: opts.allowUnvalidated,
		})
	}

	limit := opts.concurrency
	if limit <= 0 {
		limit = cfg.LookupConcurrency
	}
	outcomes := client.LookupMany(ctx, queries, limit)

	results := make([]lookupResult, len(outcomes))
	for i, o := range outcomes {
		results[i] = lookupResult{Identifier: identifiers[i], Outcome: o}
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}

type lookupResult struct {
	Identifier string `json:"identifier"`
	models.Outcome
}

func newClient(cfg *config.Config, log *slog.Logger) (*service.Client, error) {
	transport, err := soap.New(cfg.RegistryEndpoint,
		soap.WithTimeout(cfg.Timeout),
		soap.WithSOAPAction(cfg.SOAPAction),
		soap.WithBreaker(cfg.BreakerFailures, cfg.BreakerCooldown),
		soap.WithLogger(log),
	)
	if err != nil {
		return nil, err
	}

	builder := request.NewBuilder(request.WithSettings(request.Settings{
		SenderOrganization:   cfg.SenderOrganization,
		SenderDevice:         cfg.SenderDevice,
		ReceiverOrganization: cfg.ReceiverOrg,
		DataEnterer:          cfg.DataEnterer,
	}))

	return service.New(transport,
		service.WithLogger(log),
		service.WithMetrics(metrics.NewWithRegisterer(prometheus.NewRegistry())),
		service.WithClassifier(classifier.New(cfg.AdvisoryCodes)),
		service.WithRequestBuilder(builder),
	)
}
