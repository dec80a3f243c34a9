package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/theapemachine/a2a-go/pkg/a2a"
	"github.com/theapemachine/a2a-go/pkg/auth"
	"github.com/theapemachine/a2a-go/pkg/logging"
	"github.com/theapemachine/a2a-go/pkg/pushstore"
	"github.com/theapemachine/a2a-go/pkg/registry"
	"github.com/theapemachine/a2a-go/pkg/runner"
	"github.com/theapemachine/a2a-go/pkg/server"
	"github.com/theapemachine/a2a-go/pkg/taskmanager"
	"github.com/theapemachine/a2a-go/pkg/taskstore"
)

var (
	listenFlag        string
	storeFlag         string
	runnerFlag        string
	agentNameFlag     string
	signingSecretFlag string
	authSecretFlag    string
	logLevelFlag      string

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve one A2A agent behind the JSON-RPC + SSE endpoint",
		Long:  longServe,
		RunE: func(cmd *cobra.Command, args []string) error {
			applyConfigOverride(cmd, "listen", &listenFlag)
			applyConfigOverride(cmd, "store", &storeFlag)
			applyConfigOverride(cmd, "runner", &runnerFlag)
			applyConfigOverride(cmd, "agent-name", &agentNameFlag)
			return runServe()
		},
	}
)

func init() {
	rootCmd.AddCommand(serveCmd)

	// Flag defaults are literals, not viper reads: viper.SetDefault only
	// runs inside initConfig, which cobra.OnInitialize fires at Execute
	// time, after every package init() (including this one) has already
	// run. A config file or A2A_ environment variable still overrides
	// --listen, --store, --runner or --agent-name when the caller didn't
	// set it explicitly, via applyConfigOverride below; the other flags
	// are read from the command line only.
	serveCmd.Flags().StringVar(&listenFlag, "listen", ":3210", "address to listen on")
	serveCmd.Flags().StringVar(&storeFlag, "store", "memory", "task store backend: memory|s3")
	serveCmd.Flags().StringVar(&runnerFlag, "runner", "echo", "agent runner: echo|anthropic|openai|ollama|cohere|deepseek")
	serveCmd.Flags().StringVar(&agentNameFlag, "agent-name", "a2a-go", "name advertised on the agent card")
	serveCmd.Flags().StringVar(&signingSecretFlag, "signing-secret", "", "HMAC secret used to sign agent cards; cards go unsigned when blank")
	serveCmd.Flags().StringVar(&authSecretFlag, "auth-secret", "", "HMAC secret for caller JWT authentication; auth disabled (noop) when blank")
	serveCmd.Flags().StringVar(&logLevelFlag, "log-level", "info", "log level: debug|info|warn|error")
}

// applyConfigOverride lets a config file or A2A_-prefixed environment
// variable set flag when the caller didn't pass it explicitly on the
// command line, which always wins.
func applyConfigOverride(cmd *cobra.Command, flagName string, dest *string) {
	if cmd.Flags().Changed(flagName) {
		return
	}
	key := flagName
	if flagName == "agent-name" {
		key = "agent.name"
	}
	if viper.IsSet(key) {
		*dest = viper.GetString(key)
	}
}

func runServe() error {
	if err := logging.Init(logging.Options{Level: logLevelFlag}); err != nil {
		return err
	}

	store, err := buildTaskStore()
	if err != nil {
		return fmt.Errorf("build task store: %w", err)
	}

	agentRunner, err := buildRunner()
	if err != nil {
		return fmt.Errorf("build runner: %w", err)
	}

	reg := registry.New()
	reg.Register(&registry.Entry{
		Card:   buildAgentCard(),
		Runner: agentRunner,
		Agent:  &runner.Agent{Name: agentNameFlag, Model: viper.GetString("agent.model")},
	})

	srv := server.New(taskmanager.New(store), reg, pushstore.NewInMemory(), signingSecretFlag)
	if authSecretFlag != "" {
		srv.Validator = auth.NewJWTValidator(authSecretFlag)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Listen(listenFlag); err != nil {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-stop:
	}

	log.Info("shutting down")
	_ = srv.Shutdown()
	return nil
}

func buildAgentCard() *a2a.AgentCard {
	return &a2a.AgentCard{
		Name:    agentNameFlag,
		URL:     "http://" + listenFlag,
		Version: viper.GetString("agent.version"),
		Capabilities: a2a.AgentCapabilities{
			Streaming:          true,
			PushNotifications: true,
		},
		DefaultInputModes:  []string{"text"},
		DefaultOutputModes: []string{"text"},
		Skills:             []a2a.AgentSkill{{ID: "default", Name: agentNameFlag}},
	}
}

// buildTaskStore wires the key-value cache driver to minio when --store=s3,
// grounded on the teacher's cmd/agent.go minio.New + credentials.NewStaticV4
// wiring; memory is the zero-config default.
func buildTaskStore() (taskstore.Store, error) {
	switch storeFlag {
	case "", "memory":
		return taskstore.NewInMemory(), nil
	case "s3":
		client, err := minio.New(viper.GetString("s3.endpoint"), &minio.Options{
			Region: viper.GetString("s3.region"),
			Creds: credentials.NewStaticV4(
				os.Getenv("AWS_ACCESS_KEY_ID"),
				os.Getenv("AWS_SECRET_ACCESS_KEY"),
				"",
			),
			Secure: viper.GetBool("s3.secure"),
		})
		if err != nil {
			return nil, err
		}
		return taskstore.NewKV(client, viper.GetString("s3.bucket"), taskstore.DefaultKeyPrefix, 0)
	default:
		return nil, fmt.Errorf("unknown store backend %q", storeFlag)
	}
}

func buildRunner() (runner.Runner, error) {
	switch runnerFlag {
	case "", "echo":
		return runner.NewEcho(), nil
	case "anthropic":
		return runner.NewAnthropic(), nil
	case "openai":
		return runner.NewOpenAI(), nil
	case "ollama":
		return runner.NewOllama(), nil
	case "cohere":
		return runner.NewCohere(), nil
	case "deepseek":
		return runner.NewDeepseek(), nil
	default:
		return nil, fmt.Errorf("unknown runner %q", runnerFlag)
	}
}

var longServe = `
Serve a single agent behind the A2A JSON-RPC + SSE endpoint.

Examples:
  # Serve the echo agent on the default address
  a2a-go serve

  # Serve an Anthropic-backed agent, signing its agent card
  a2a-go serve --runner anthropic --signing-secret $SIGNING_SECRET

  # Persist tasks to S3-compatible storage
  a2a-go serve --store s3
`
