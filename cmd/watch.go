package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kayz/motion/internal/logger"
	"github.com/kayz/motion/internal/notify"
	"github.com/kayz/motion/internal/ollama"
	"github.com/kayz/motion/internal/orchestrator"
	"github.com/kayz/motion/internal/prompt"
	"github.com/kayz/motion/internal/settings"
	"github.com/kayz/motion/internal/spark"
)

var watchHourly bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the sparks folder and keep the record set live",
	Long: `Watch the sparks folder for changes, rebuilding the record set on
every change. With --hourly (or the notifications_enabled setting) a
generation runs every hour and the reply is delivered as a system
notification.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, store, err := loadEnv()
		if err != nil {
			return err
		}
		defer store.Close()

		root := resolveSparksDir(cfg)
		debounce := time.Duration(cfg.Sparks.DebounceMillis) * time.Millisecond
		watcher := spark.NewWatcher(root, cfg.Sparks.Extensions, debounce)
		if err := watcher.Start(); err != nil {
			return fmt.Errorf("start watcher: %w", err)
		}
		defer watcher.Stop()

		notifier := notify.NewService(notify.DefaultTitle)
		defer notifier.Stop()

		client := ollama.New(store.Get(settings.KeyServerURL), store.Get(settings.KeyModel))
		orch := orchestrator.New(client, notifier, func() bool {
			return store.GetBool(settings.KeyNotificationsEnabled)
		})

		inputs := func() prompt.Inputs {
			snapshot := watcher.Current()
			asJSON := store.GetBool(settings.KeyFormatJSON)
			data := spark.Aggregate(snapshot.Records, spark.SelectAll(snapshot.Records), asJSON)
			return prompt.Inputs{
				Instruction:      store.Get(settings.KeyInstruction),
				ExtraInstruction: store.Get(settings.KeyExtraInstruction),
				Context:          store.Get(settings.KeyContext),
				Data:             data,
			}
		}

		hourly := orchestrator.NewHourly(orch, inputs, notify.DefaultTitle)
		if watchHourly || store.GetBool(settings.KeyNotificationsEnabled) {
			if err := hourly.Start(); err != nil {
				return err
			}
			defer hourly.Stop()
		} else {
			notifier.CancelRecurring()
		}

		go func() {
			for snapshot := range watcher.Snapshots() {
				logger.Info("%d sparks loaded", snapshot.Count)
			}
		}()

		fmt.Printf("Watching %s (Ctrl-C to stop)\n", root)

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		fmt.Println()
		return nil
	},
}

func init() {
	watchCmd.Flags().BoolVar(&watchHourly, "hourly", false,
		"Generate and notify every hour regardless of the saved setting")
	rootCmd.AddCommand(watchCmd)
}
