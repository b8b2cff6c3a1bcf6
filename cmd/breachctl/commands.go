package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"breachwatch/internal/exposure/models"
	"breachwatch/internal/exposure/service"
	"breachwatch/internal/factory"
	"breachwatch/internal/platform/config"
	"breachwatch/internal/platform/logger"
)

type app struct {
	loadConfig func() (config.Config, error)
	logLevel   string
}

func newRootCmd(loadConfig func() (config.Config, error)) *cobra.Command {
	a := &app{loadConfig: loadConfig}
	root := &cobra.Command{
		Use:   "breachctl",
		Short: "Check credential exposure and maintain cached results",
		Long: `breachctl talks to the breach providers and result store configured through
the environment (the same variables the server reads). Output is JSON on stdout;
logs go to stderr.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override LOG_LEVEL (debug, info, warn, error)")

	root.AddCommand(a.checkCmd())
	root.AddCommand(a.bulkCmd())
	root.AddCommand(a.passwordCmd())
	root.AddCommand(a.summaryCmd())
	root.AddCommand(a.pruneCmd())
	root.AddCommand(a.relayCmd())
	return root
}

// withComponents builds the dependency graph for one command run and closes
// it afterwards. mutate may adjust the loaded config first.
func (a *app) withComponents(cmd *cobra.Command, mutate func(*config.Config), fn func(context.Context, *factory.Components) error) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if mutate != nil {
		mutate(&cfg)
	}
	log := logger.NewWithWriter(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)

	ctx := cmd.Context()
	components, err := factory.Build(ctx, cfg, log, prometheus.NewRegistry())
	if err != nil {
		return fmt.Errorf("build components: %w", err)
	}
	defer func() {
		if err := components.Close(); err != nil {
			log.Warn("failed to close backends", "error", err)
		}
	}()
	return fn(ctx, components)
}

func (a *app) checkCmd() *cobra.Command {
	var owner string
	cmd := &cobra.Command{
		Use:   "check EMAIL",
		Short: "Check one email, serving a fresh cached result when available",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withComponents(cmd, nil, func(ctx context.Context, c *factory.Components) error {
				result, err := c.Orchestrator.SmartCheck(ctx, args[0], owner)
				if err != nil {
					return err
				}
				return printJSON(cmd, result)
			})
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "user id recorded as the owner of the check")
	return cmd
}

type bulkFailure struct {
	Email string `json:"email"`
	Error string `json:"error"`
}

type bulkOutput struct {
	Results  []models.CheckResult `json:"results"`
	Failures []bulkFailure        `json:"failures"`
}

func (a *app) bulkCmd() *cobra.Command {
	var (
		owner string
		delay time.Duration
	)
	cmd := &cobra.Command{
		Use:   "bulk [EMAIL...]",
		Short: "Check several emails sequentially, reading stdin when no arguments are given",
		RunE: func(cmd *cobra.Command, args []string) error {
			emails := args
			if len(emails) == 0 {
				var err error
				if emails, err = readLines(cmd.InOrStdin()); err != nil {
					return err
				}
			}
			if len(emails) == 0 {
				return errors.New("no emails given")
			}
			req := service.BulkRequest{Emails: emails, OwnerUserID: owner}
			if cmd.Flags().Changed("delay") {
				req.Delay = &delay
			}

			return a.withComponents(cmd, nil, func(ctx context.Context, c *factory.Components) error {
				outcomes, err := c.Bulk.BulkCheckOutcomes(ctx, req)
				out := bulkOutput{Results: []models.CheckResult{}, Failures: []bulkFailure{}}
				for _, o := range outcomes {
					if o.Err != nil {
						out.Failures = append(out.Failures, bulkFailure{Email: o.Email, Error: o.Err.Error()})
						continue
					}
					out.Results = append(out.Results, *o.Result)
				}
				if len(outcomes) > 0 {
					if perr := printJSON(cmd, out); perr != nil {
						return perr
					}
				}
				return err
			})
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "user id recorded as the owner of every check")
	cmd.Flags().DurationVar(&delay, "delay", service.DefaultBulkDelay, "pause between successive checks")
	return cmd
}

func (a *app) passwordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "password",
		Short: "Check a password read from the first line of stdin",
		Long: `Reads the password from stdin so it never appears in shell history or the
process list. Only the first five characters of its SHA-1 digest are sent.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			plaintext, err := readSecret(cmd.InOrStdin())
			if err != nil {
				return err
			}
			return a.withComponents(cmd, nil, func(ctx context.Context, c *factory.Components) error {
				result, err := c.Passwords.CheckPassword(ctx, plaintext)
				if err != nil {
					return err
				}
				return printJSON(cmd, result)
			})
		},
	}
}

func (a *app) summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary USER_ID",
		Short: "Aggregate the cached checks owned by a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withComponents(cmd, nil, func(ctx context.Context, c *factory.Components) error {
				svc, err := c.Summary()
				if err != nil {
					return err
				}
				summary, err := svc.Summary(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd, summary)
			})
		},
	}
}

func (a *app) pruneCmd() *cobra.Command {
	var maxAge time.Duration
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete cached checks older than the retention age",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mutate := func(cfg *config.Config) {
				if cmd.Flags().Changed("max-age") {
					cfg.Retention.MaxAge = maxAge
				}
			}
			return a.withComponents(cmd, mutate, func(ctx context.Context, c *factory.Components) error {
				worker, err := c.Retention()
				if err != nil {
					return err
				}
				deleted, err := worker.RunOnce(ctx)
				if err != nil {
					return err
				}
				return printJSON(cmd, map[string]int64{"deleted": deleted})
			})
		},
	}
	cmd.Flags().DurationVar(&maxAge, "max-age", 0, "override RETENTION_MAX_AGE")
	return cmd
}

func (a *app) relayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "relay",
		Short: "Copy security events from the Kafka topic into Postgres until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if a.logLevel != "" {
				cfg.LogLevel = a.logLevel
			}
			log := logger.NewWithWriter(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)

			ctx := cmd.Context()
			r, err := factory.BuildRelay(ctx, cfg, log, prometheus.NewRegistry())
			if err != nil {
				return fmt.Errorf("build relay: %w", err)
			}
			defer func() {
				if err := r.Close(); err != nil {
					log.Warn("failed to close relay", "error", err)
				}
			}()

			log.Info("relaying security events",
				"topic", cfg.Kafka.Topic,
				"group", cfg.Kafka.ConsumerGroup,
			)
			if err := r.Consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
}

// readLines returns the non-blank lines of r, skipping # comments.
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return lines, nil
}

func readSecret(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.New("password is required on stdin")
	}
	return line, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
