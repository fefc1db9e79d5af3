// Command swarmctl is the operator CLI for running and inspecting
// swarm conversations.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ericswarm/swarm/card"
	"github.com/ericswarm/swarm/config"
	"github.com/ericswarm/swarm/provider"
	swarmpkg "github.com/ericswarm/swarm/swarm"
)

var (
	flagProvider    string
	flagModel       string
	flagCardsDir    string
	flagCoordinator string
	flagMessage     string
	flagTaskID      string
	flagSnapshotDir string
	flagVerbose     bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "swarmctl",
		Short: "Run and inspect multi-agent swarm conversations",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := config.LogLevel()
			if flagVerbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	root.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "enable debug logging")
	root.PersistentFlags().StringVar(&flagProvider, "provider", "openai", "LLM provider (openai, anthropic, bedrock, deepseek, zhipu, google)")
	root.PersistentFlags().StringVar(&flagModel, "model", "", "model identifier passed to the provider")
	root.PersistentFlags().StringVar(&flagCardsDir, "cards-dir", "./cards", "directory containing agent card and prompt YAML documents")
	root.PersistentFlags().StringVar(&flagCoordinator, "coordinator", "Eric", "name of the agent the first message routes to")

	root.AddCommand(newRunCmd())
	root.AddCommand(newDoctorCmd())
	return root
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a single message through a swarm and print its reply",
		RunE: func(cmd *cobra.Command, args []string) error {
			if flagMessage == "" {
				return fmt.Errorf("swarmctl run: --message is required")
			}
			return runMessage(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&flagMessage, "message", "", "the user utterance to run through the swarm")
	cmd.Flags().StringVar(&flagTaskID, "task-id", "", "reuse an existing task id instead of starting a new conversation")
	cmd.Flags().StringVar(&flagSnapshotDir, "snapshot-dir", "", "directory to write task history snapshots to")
	return cmd
}

func runMessage(parent context.Context) error {
	cfg, err := config.Load(flagProvider)
	if err != nil {
		return fmt.Errorf("swarmctl: %w", err)
	}
	adapter, err := provider.New(cfg)
	if err != nil {
		return fmt.Errorf("swarmctl: %w", err)
	}

	s := swarmpkg.New(flagCoordinator)
	if flagSnapshotDir != "" {
		s = s.WithSnapshotDir(flagSnapshotDir)
	}

	coordinatorCard, err := card.Load(flagCardsDir + "/" + card.CamelToSnake(flagCoordinator) + ".yaml")
	if err != nil {
		return fmt.Errorf("swarmctl: load coordinator card: %w", err)
	}
	coordinatorPrompts, err := card.LoadPrompts(flagCardsDir + "/" + card.CamelToSnake(flagCoordinator) + "_prompt.yaml")
	if err != nil {
		return fmt.Errorf("swarmctl: load coordinator prompts: %w", err)
	}

	agent := &swarmpkg.AgentBase{
		AgentName:        flagCoordinator,
		Card:             coordinatorCard,
		Prompts:          coordinatorPrompts,
		Model:            flagModel,
		Adapter:          adapter,
		Roster:           s.Roster,
		MaxFunctionCalls: swarmpkg.DefaultMaxFunctionCalls,
		MaxTokens:        4096,
	}
	s.RegisterAgent(agent, coordinatorCard)

	ctx, cancel := context.WithTimeout(parent, 5*time.Minute)
	defer cancel()

	reply, err := s.Invoke(ctx, flagMessage, flagTaskID)
	if err != nil {
		return fmt.Errorf("swarmctl: %w", err)
	}
	fmt.Println(reply.Content)
	return nil
}

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that the configured provider's credentials resolve",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flagProvider)
			if err != nil {
				fmt.Printf("%s: NOT OK (%v)\n", flagProvider, err)
				return err
			}
			if _, err := provider.New(cfg); err != nil {
				fmt.Printf("%s: NOT OK (%v)\n", flagProvider, err)
				return err
			}
			fmt.Printf("%s: OK (base_url=%s)\n", flagProvider, cfg.BaseURL)
			return nil
		},
	}
}
