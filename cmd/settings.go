package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kayz/motion/internal/settings"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change the saved settings",
}

var settingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all settings and their current values",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, err := loadEnv()
		if err != nil {
			return err
		}
		defer store.Close()

		for _, key := range settings.Keys() {
			fmt.Printf("%-22s %s\n", key, store.Get(key))
		}
		return nil
	},
}

var settingsGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one setting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		if !settings.Known(key) {
			return fmt.Errorf("unknown setting: %s (known: %s)", key, strings.Join(settings.Keys(), ", "))
		}

		_, store, err := loadEnv()
		if err != nil {
			return err
		}
		defer store.Close()

		fmt.Println(store.Get(key))
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Save one setting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if !settings.Known(key) {
			return fmt.Errorf("unknown setting: %s (known: %s)", key, strings.Join(settings.Keys(), ", "))
		}

		_, store, err := loadEnv()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Set(key, value); err != nil {
			return err
		}
		fmt.Printf("%s = %s\n", key, value)
		return nil
	},
}

func init() {
	settingsCmd.AddCommand(settingsListCmd)
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}
