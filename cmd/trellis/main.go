package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/trellisflow/trellis-go/client"
	"github.com/trellisflow/trellis-go/client/templates"
	"github.com/trellisflow/trellis-go/internal/config"
)

var serviceURL string
var apiToken string
var debug bool

const maxUserPageLimit = 100
const defaultUserPageLimit = 10

func dbg(v interface{}) {
	if !debug {
		return
	}
	log.Debug().Interface("data", v).Msg("debug output")
}

// newClient builds an SDK client from the persistent flags.
func newClient() *client.Client {
	opts := []client.Option{}
	if apiToken != "" {
		opts = append(opts, client.WithAPIToken(apiToken))
	}
	return client.New(serviceURL, opts...)
}

func main() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// NewRootCmd constructs the root CLI command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	cfg := config.Load()

	rootCmd := &cobra.Command{
		Use:   "trellis",
		Short: "Trellis CLI for managing flows, users and builds",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Initialize logger
			config.InitLogger()

			// Set log level based on debug flag
			if debug {
				config.SetLogLevel(zerolog.DebugLevel)
				os.Setenv("TRELLIS_DEBUG", "true")
				log.Debug().Msg("debug logging enabled")
			} else {
				config.SetLogLevel(cfg.LogLevel)
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&serviceURL, "service-url", cfg.ServiceURL, "Base URL of the Trellis backend")
	rootCmd.PersistentFlags().StringVar(&apiToken, "api-token", cfg.APIToken, "Bearer token sent with every backend request")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable verbose debug output")

	// Sub-commands
	rootCmd.AddCommand(newListFlowsCmd())
	rootCmd.AddCommand(newGetFlowCmd())
	rootCmd.AddCommand(newCreateFlowCmd())
	rootCmd.AddCommand(newDeleteFlowCmd())
	rootCmd.AddCommand(newDownloadFlowsCmd())
	rootCmd.AddCommand(newUploadFlowsCmd())
	rootCmd.AddCommand(newExamplesCmd())
	rootCmd.AddCommand(newListTemplatesCmd())
	rootCmd.AddCommand(newListUsersCmd())
	rootCmd.AddCommand(newCreateUserCmd())
	rootCmd.AddCommand(newWhoamiCmd())
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newListAPIKeysCmd())
	rootCmd.AddCommand(newCreateAPIKeyCmd())
	rootCmd.AddCommand(newDeleteAPIKeyCmd())
	rootCmd.AddCommand(newBuildStatusCmd())
	rootCmd.AddCommand(newStartBuildCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newHealthCmd())
	rootCmd.AddCommand(newRepoStarsCmd())

	return rootCmd
}

func newListFlowsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list-flows",
		Short: "List all flows owned by the caller",
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Debug().
				Str("service_url", serviceURL).
				Msg("listing flows")

			c := newClient()
			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			start := time.Now()
			flows, err := c.ListFlows(ctx)
			elapsed := time.Since(start)

			if err != nil {
				log.Error().
					Err(err).
					Dur("elapsed", elapsed).
					Msg("list flows failed")
				return err
			}

			log.Debug().
				Dur("elapsed", elapsed).
				Int("count", len(flows)).
				Msg("list flows completed")

			dbg(flows)
			for _, f := range flows {
				fmt.Printf("%s\t%s\n", f.ID, f.Name)
			}
			fmt.Printf("Total: %d\n", len(flows))
			return nil
		},
	}
	return cmd
}

func newGetFlowCmd() *cobra.Command {
	var flowID string

	cmd := &cobra.Command{
		Use:   "get-flow",
		Short: "Get a single flow by ID",
		RunE: func(cmd *cobra.Command, args []string) error {
			if flowID == "" {
				return fmt.Errorf("--flow-id is required")
			}
			if err := validUUID("flow-id", flowID); err != nil {
				return err
			}

			log.Debug().
				Str("flow_id", flowID).
				Str("service_url", serviceURL).
				Msg("getting flow")

			c := newClient()
			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			start := time.Now()
			flow, err := c.GetFlow(ctx, flowID)
			elapsed := time.Since(start)

			if err != nil {
				log.Error().
					Err(err).
					Str("flow_id", flowID).
					Dur("elapsed", elapsed).
					Msg("get flow failed")
				return err
			}

			log.Debug().
				Str("flow_id", flowID).
				Dur("elapsed", elapsed).
				Msg("get flow completed")

			dbg(flow)
			b, _ := json.MarshalIndent(flow, "", "  ")
			fmt.Println(string(b))
			return nil
		},
	}

	cmd.Flags().StringVar(&flowID, "flow-id", "", "Flow ID (required)")
	_ = cmd.MarkFlagRequired("flow-id")

	return cmd
}

func newCreateFlowCmd() *cobra.Command {
	var name, description, template string

	cmd := &cobra.Command{
		Use:   "create-flow",
		Short: "Create a new flow, optionally seeded from a bundled template",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return fmt.Errorf("--name is required")
			}

			flow := client.Flow{Name: name, Description: description}
			if template != "" {
				st, err := templates.LoadStarter(template)
				if err != nil {
					return err
				}
				flow.Data = st.Data
				if description == "" {
					flow.Description = st.Description
				}
			}

			log.Debug().
				Str("name", name).
				Str("template", template).
				Str("service_url", serviceURL).
				Msg("creating flow")

			c := newClient()
			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			start := time.Now()
			created, err := c.CreateFlow(ctx, flow)
			elapsed := time.Since(start)

			if err != nil {
				log.Error().
					Err(err).
					Str("name", name).
					Dur("elapsed", elapsed).
					Msg("create flow failed")
				return err
			}

			log.Debug().
				Str("flow_id", created.ID).
				Str("name", created.Name).
				Dur("elapsed", elapsed).
				Msg("create flow completed")

			dbg(created)
			fmt.Printf("Flow created: %s (%s)\n", created.ID, created.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Flow name (required)")
	cmd.Flags().StringVar(&description, "description", "", "Description (optional)")
	cmd.Flags().StringVar(&template, "template", "", "Bundled template to seed the graph from (see list-templates)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newDeleteFlowCmd() *cobra.Command {
	var flowID string

	cmd := &cobra.Command{
		Use:   "delete-flow",
		Short: "Delete a flow by ID",
		RunE: func(cmd *cobra.Command, args []string) error {
			if flowID == "" {
				return fmt.Errorf("--flow-id is required")
			}
			if err := validUUID("flow-id", flowID); err != nil {
				return err
			}

			c := newClient()
			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			if err := c.DeleteFlow(ctx, flowID); err != nil {
				return err
			}
			fmt.Println("Flow deleted")
			return nil
		},
	}

	cmd.Flags().StringVar(&flowID, "flow-id", "", "Flow ID (required)")
	_ = cmd.MarkFlagRequired("flow-id")

	return cmd
}

func newDownloadFlowsCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "download-flows",
		Short: "Export all flows as a single JSON bundle",
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Debug().
				Str("out", outPath).
				Str("service_url", serviceURL).
				Msg("downloading flows")

			c := newClient()
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			start := time.Now()
			bundle, err := c.DownloadFlows(ctx)
			elapsed := time.Since(start)

			if err != nil {
				log.Error().
					Err(err).
					Dur("elapsed", elapsed).
					Msg("download flows failed")
				return err
			}

			log.Debug().
				Dur("elapsed", elapsed).
				Int("count", len(bundle.Flows)).
				Msg("download flows completed")

			b, err := json.MarshalIndent(bundle, "", "  ")
			if err != nil {
				return err
			}
			if outPath == "" {
				fmt.Println(string(b))
				return nil
			}
			if err := os.WriteFile(outPath, b, 0o644); err != nil {
				return err
			}
			fmt.Printf("Wrote %d flows to %s\n", len(bundle.Flows), outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "", "File to write the bundle to (default stdout)")

	return cmd
}

func newUploadFlowsCmd() *cobra.Command {
	var filePath string

	cmd := &cobra.Command{
		Use:   "upload-flows",
		Short: "Import flows from a JSON bundle file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if filePath == "" {
				return fmt.Errorf("--file is required")
			}

			log.Debug().
				Str("file", filePath).
				Str("service_url", serviceURL).
				Msg("uploading flows")

			f, err := os.Open(filePath)
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()

			c := newClient()
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			start := time.Now()
			flows, err := c.UploadFlows(ctx, filepath.Base(filePath), f)
			elapsed := time.Since(start)

			if err != nil {
				log.Error().
					Err(err).
					Str("file", filePath).
					Dur("elapsed", elapsed).
					Msg("upload flows failed")
				return err
			}

			log.Debug().
				Dur("elapsed", elapsed).
				Int("count", len(flows)).
				Msg("upload flows completed")

			dbg(flows)
			for _, fl := range flows {
				fmt.Printf("%s\t%s\n", fl.ID, fl.Name)
			}
			fmt.Printf("Imported: %d\n", len(flows))
			return nil
		},
	}

	cmd.Flags().StringVar(&filePath, "file", "", "Bundle file to import (required)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func newExamplesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "examples",
		Short: "Download the published example flows",
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Debug().Msg("fetching example flows")

			c := newClient()
			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()

			start := time.Now()
			flows, err := c.Examples(ctx)
			elapsed := time.Since(start)

			if err != nil {
				log.Error().
					Err(err).
					Dur("elapsed", elapsed).
					Msg("fetch examples failed")
				return err
			}

			log.Debug().
				Dur("elapsed", elapsed).
				Int("count", len(flows)).
				Msg("fetch examples completed")

			dbg(flows)
			for _, f := range flows {
				fmt.Printf("%s\t%s\n", f.Name, f.Description)
			}
			fmt.Printf("Total: %d\n", len(flows))
			return nil
		},
	}
	return cmd
}

// ------------------ Template Commands -------------------

func newListTemplatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list-templates",
		Short: "List names of bundled flow templates usable with create-flow",
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := templates.ListStarters()
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{"templates": names})
		},
	}
	return cmd
}

// ------------------ User Commands -------------------

func newListUsersCmd() *cobra.Command {
	var skip, limit int

	cmd := &cobra.Command{
		Use:   "list-users",
		Short: "List user accounts (superuser only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			limit = applyUpperBoundToLimit(limit)

			log.Debug().
				Int("skip", skip).
				Int("limit", limit).
				Str("service_url", serviceURL).
				Msg("listing users")

			c := newClient()
			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			start := time.Now()
			users, err := c.ListUsers(ctx, skip, limit)
			elapsed := time.Since(start)

			if err != nil {
				log.Error().
					Err(err).
					Dur("elapsed", elapsed).
					Msg("list users failed")
				return err
			}

			log.Debug().
				Dur("elapsed", elapsed).
				Int("count", len(users)).
				Msg("list users completed")

			dbg(users)
			b, _ := json.MarshalIndent(users, "", "  ")
			fmt.Println(string(b))
			return nil
		},
	}

	cmd.Flags().IntVar(&skip, "skip", 0, "Number of users to skip")
	cmd.Flags().IntVar(&limit, "limit", defaultUserPageLimit, "Number of users to return (max 100)")

	return cmd
}

func newCreateUserCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Register a new user account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" || password == "" {
				return fmt.Errorf("--username and --password are required")
			}

			log.Debug().
				Str("username", username).
				Str("service_url", serviceURL).
				Msg("creating user")

			c := newClient()
			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			start := time.Now()
			user, err := c.CreateUser(ctx, username, password)
			elapsed := time.Since(start)

			if err != nil {
				log.Error().
					Err(err).
					Str("username", username).
					Dur("elapsed", elapsed).
					Msg("create user failed")
				return err
			}

			log.Debug().
				Str("user_id", user.ID).
				Str("username", user.Username).
				Dur("elapsed", elapsed).
				Msg("create user completed")

			dbg(user)
			fmt.Printf("User created: %s (%s)\n", user.ID, user.Username)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username (required)")
	cmd.Flags().StringVar(&password, "password", "", "Password (required)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newWhoamiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the user the configured token authenticates as",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient()
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			user, err := c.CurrentUser(ctx)
			if err != nil {
				return err
			}
			if user == nil {
				fmt.Println("Not authenticated")
				return nil
			}

			dbg(user)
			b, _ := json.MarshalIndent(user, "", "  ")
			fmt.Println(string(b))
			return nil
		},
	}
	return cmd
}

// ------------------ Auth Commands -------------------

func newLoginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Exchange credentials for a token pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" || password == "" {
				return fmt.Errorf("--username and --password are required")
			}

			log.Debug().
				Str("username", username).
				Str("service_url", serviceURL).
				Msg("logging in")

			c := newClient()
			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			start := time.Now()
			tok, err := c.Login(ctx, username, password)
			elapsed := time.Since(start)

			if err != nil {
				log.Error().
					Err(err).
					Str("username", username).
					Dur("elapsed", elapsed).
					Msg("login failed")
				return err
			}
			if tok == nil {
				return fmt.Errorf("login rejected for %q", username)
			}

			log.Debug().
				Str("username", username).
				Dur("elapsed", elapsed).
				Msg("login completed")

			b, _ := json.MarshalIndent(tok, "", "  ")
			fmt.Println(string(b))
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username (required)")
	cmd.Flags().StringVar(&password, "password", "", "Password (required)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

// ------------------ API Key Commands -------------------

func newListAPIKeysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list-api-keys",
		Short: "List the caller's API keys (values masked)",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient()
			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			page, err := c.ListAPIKeys(ctx)
			if err != nil {
				return err
			}

			dbg(page)
			b, _ := json.MarshalIndent(page, "", "  ")
			fmt.Println(string(b))
			return nil
		},
	}
	return cmd
}

func newCreateAPIKeyCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "create-api-key",
		Short: "Mint a named API key; the plaintext key is shown only once",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return fmt.Errorf("--name is required")
			}

			log.Debug().
				Str("name", name).
				Str("service_url", serviceURL).
				Msg("creating api key")

			c := newClient()
			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			start := time.Now()
			key, err := c.CreateAPIKey(ctx, name)
			elapsed := time.Since(start)

			if err != nil {
				log.Error().
					Err(err).
					Str("name", name).
					Dur("elapsed", elapsed).
					Msg("create api key failed")
				return err
			}

			log.Debug().
				Str("key_id", key.ID).
				Dur("elapsed", elapsed).
				Msg("create api key completed")

			fmt.Printf("API key created: %s (%s)\n", key.ID, key.Name)
			fmt.Println(key.APIKey)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Key name (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newDeleteAPIKeyCmd() *cobra.Command {
	var keyID string

	cmd := &cobra.Command{
		Use:   "delete-api-key",
		Short: "Revoke an API key by ID",
		RunE: func(cmd *cobra.Command, args []string) error {
			if keyID == "" {
				return fmt.Errorf("--key-id is required")
			}
			if err := validUUID("key-id", keyID); err != nil {
				return err
			}

			c := newClient()
			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			if err := c.DeleteAPIKey(ctx, keyID); err != nil {
				return err
			}
			fmt.Println("API key deleted")
			return nil
		},
	}

	cmd.Flags().StringVar(&keyID, "key-id", "", "API key ID (required)")
	_ = cmd.MarkFlagRequired("key-id")

	return cmd
}

// ------------------ Build Commands -------------------

func newBuildStatusCmd() *cobra.Command {
	var flowID string

	cmd := &cobra.Command{
		Use:   "build-status",
		Short: "Report whether a flow's last build pass completed",
		RunE: func(cmd *cobra.Command, args []string) error {
			if flowID == "" {
				return fmt.Errorf("--flow-id is required")
			}
			if err := validUUID("flow-id", flowID); err != nil {
				return err
			}

			c := newClient()
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			st, err := c.BuildStatus(ctx, flowID)
			if err != nil {
				return err
			}

			dbg(st)
			b, _ := json.MarshalIndent(st, "", "  ")
			fmt.Println(string(b))
			return nil
		},
	}

	cmd.Flags().StringVar(&flowID, "flow-id", "", "Flow ID (required)")
	_ = cmd.MarkFlagRequired("flow-id")

	return cmd
}

func newStartBuildCmd() *cobra.Command {
	var flowID string

	cmd := &cobra.Command{
		Use:   "start-build",
		Short: "Fetch a flow and submit it for building",
		RunE: func(cmd *cobra.Command, args []string) error {
			if flowID == "" {
				return fmt.Errorf("--flow-id is required")
			}
			if err := validUUID("flow-id", flowID); err != nil {
				return err
			}

			log.Debug().
				Str("flow_id", flowID).
				Str("service_url", serviceURL).
				Msg("starting build")

			c := newClient()
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			start := time.Now()
			flow, err := c.GetFlow(ctx, flowID)
			if err != nil {
				log.Error().
					Err(err).
					Str("flow_id", flowID).
					Msg("get flow failed")
				return err
			}

			resp, err := c.StartBuild(ctx, *flow)
			elapsed := time.Since(start)

			if err != nil {
				log.Error().
					Err(err).
					Str("flow_id", flowID).
					Dur("elapsed", elapsed).
					Msg("start build failed")
				return err
			}

			log.Debug().
				Str("flow_id", resp.FlowID).
				Dur("elapsed", elapsed).
				Msg("start build completed")

			dbg(resp)
			fmt.Printf("Build started: %s\n", resp.FlowID)
			return nil
		},
	}

	cmd.Flags().StringVar(&flowID, "flow-id", "", "Flow ID (required)")
	_ = cmd.MarkFlagRequired("flow-id")

	return cmd
}

// ------------------ Meta Commands -------------------

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the backend version",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient()
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			v, err := c.Version(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), v.Version)
			return nil
		},
	}
	return cmd
}

func newHealthCmd() *cobra.Command {
	var wait bool
	var waitTimeout time.Duration

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Probe backend health, optionally waiting until it reports ok",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient()

			timeout := 10 * time.Second
			if wait {
				timeout = waitTimeout
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			if !wait {
				h, err := c.Health(ctx)
				if err != nil {
					return err
				}
				if h.Status != "ok" {
					return fmt.Errorf("backend unhealthy: %q", h.Status)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "ok")
				return nil
			}

			exp := backoff.NewExponentialBackOff()
			exp.InitialInterval = 500 * time.Millisecond
			exp.Multiplier = 2
			exp.MaxInterval = 5 * time.Second
			exp.Reset()

			start := time.Now()
			for {
				h, err := c.Health(ctx)
				if err == nil && h.Status == "ok" {
					log.Debug().Dur("elapsed", time.Since(start)).Msg("backend healthy")
					fmt.Fprintln(cmd.OutOrStdout(), "ok")
					return nil
				}
				if err != nil {
					log.Debug().Err(err).Msg("health probe failed")
				} else {
					log.Debug().Str("status", h.Status).Msg("backend not ready")
				}

				select {
				case <-time.After(exp.NextBackOff()):
				case <-ctx.Done():
					return fmt.Errorf("backend not healthy after %s", waitTimeout)
				}
			}
		},
	}

	cmd.Flags().BoolVar(&wait, "wait", false, "Poll until the backend reports ok")
	cmd.Flags().DurationVar(&waitTimeout, "timeout", 60*time.Second, "Give up waiting after this long")

	return cmd
}

// ------------------ GitHub Commands -------------------

func newRepoStarsCmd() *cobra.Command {
	var owner, repo string

	cmd := &cobra.Command{
		Use:   "repo-stars",
		Short: "Print the GitHub star count for a repository",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient()
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			stars := c.RepoStars(ctx, owner, repo)
			if stars == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "star count unavailable")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d\n", *stars)
			return nil
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "trellisflow", "Repository owner")
	cmd.Flags().StringVar(&repo, "repo", "trellis", "Repository name")

	return cmd
}

func validUUID(flagName, value string) error {
	if _, err := uuid.Parse(value); err != nil {
		return fmt.Errorf("--%s must be a valid UUID: %v", flagName, err)
	}
	return nil
}

func applyUpperBoundToLimit(l int) int {
	if l <= 0 {
		return defaultUserPageLimit
	}
	if l > maxUserPageLimit {
		if debug {
			log.Warn().Msgf("limit capped at %d (requested %d)", maxUserPageLimit, l)
		}
		return maxUserPageLimit
	}
	return l
}
