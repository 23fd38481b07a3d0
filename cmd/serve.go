package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kayz/motion/internal/mcp"
	"github.com/kayz/motion/internal/notify"
	"github.com/kayz/motion/internal/ollama"
	"github.com/kayz/motion/internal/settings"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose the spark pipeline as MCP tools over stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, store, err := loadEnv()
		if err != nil {
			return err
		}
		defer store.Close()

		notifier := notify.NewService(notify.DefaultTitle)
		defer notifier.Stop()

		return mcp.Run(mcp.Deps{
			SparksDir:  resolveSparksDir(cfg),
			Extensions: cfg.Sparks.Extensions,
			Settings:   store,
			Client:     ollama.New(store.Get(settings.KeyServerURL), store.Get(settings.KeyModel)),
			Notifier:   notifier,
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
