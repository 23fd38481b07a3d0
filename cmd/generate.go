package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kayz/motion/internal/config"
	"github.com/kayz/motion/internal/notify"
	"github.com/kayz/motion/internal/ollama"
	"github.com/kayz/motion/internal/orchestrator"
	"github.com/kayz/motion/internal/prompt"
	"github.com/kayz/motion/internal/settings"
	"github.com/kayz/motion/internal/spark"
)

var (
	generateInstruction string
	generateContext     string
	generateAsJSON      bool
	generateNotify      bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Compile the prompt, send it to the model and print the reply",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, store, err := loadEnv()
		if err != nil {
			return err
		}
		defer store.Close()

		in, snapshot := collectInputs(cfg, store, cmd)
		fmt.Fprintf(cmd.ErrOrStderr(), "%d sparks loaded\n", snapshot.Count)

		notifier := notify.NewService(notify.DefaultTitle)
		defer notifier.Stop()

		client := ollama.New(store.Get(settings.KeyServerURL), store.Get(settings.KeyModel))
		orch := orchestrator.New(client, notifier, func() bool {
			return store.GetBool(settings.KeyNotificationsEnabled)
		})

		ctx := cmd.Context()
		if !orch.Submit(ctx, in) {
			return fmt.Errorf("nothing to generate: instruction, context and data are all empty")
		}
		if err := orch.Wait(ctx); err != nil {
			return err
		}

		status := orch.Status()
		if status.State == orchestrator.StateFailed {
			fmt.Fprintln(os.Stderr, status.Message)
			os.Exit(1)
		}

		fmt.Println(status.Result)

		if generateNotify {
			notifier.SendImmediate(status.Result, notify.DefaultTitle)
			// Give the one-shot delivery a moment to fire before exit.
			time.Sleep(2 * time.Second)
		}
		return nil
	},
}

// collectInputs assembles the compiler inputs from the saved settings,
// the sparks on disk and any flag overrides.
func collectInputs(cfg *config.Config, store *settings.Store, cmd *cobra.Command) (prompt.Inputs, spark.Snapshot) {
	instruction := store.Get(settings.KeyInstruction)
	if cmd.Flags().Changed("instruction") {
		instruction = generateInstruction
	}
	contextText := store.Get(settings.KeyContext)
	if cmd.Flags().Changed("context") {
		contextText = generateContext
	}
	asJSON := store.GetBool(settings.KeyFormatJSON)
	if cmd.Flags().Changed("json") {
		asJSON = generateAsJSON
	}

	snapshot := spark.LoadOnce(resolveSparksDir(cfg), cfg.Sparks.Extensions)
	data := spark.Aggregate(snapshot.Records, spark.SelectAll(snapshot.Records), asJSON)

	return prompt.Inputs{
		Instruction:      instruction,
		ExtraInstruction: store.Get(settings.KeyExtraInstruction),
		Context:          contextText,
		Data:             data,
	}, snapshot
}

func init() {
	generateCmd.Flags().StringVar(&generateInstruction, "instruction", "",
		"Override the saved instruction text")
	generateCmd.Flags().StringVar(&generateContext, "context", "",
		"Override the saved context text")
	generateCmd.Flags().BoolVar(&generateAsJSON, "json", false,
		"Format the Data section as a JSON array")
	generateCmd.Flags().BoolVar(&generateNotify, "notify", false,
		"Send the reply as a system notification")
	rootCmd.AddCommand(generateCmd)
}
