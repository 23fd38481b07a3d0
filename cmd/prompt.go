package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kayz/motion/internal/prompt"
)

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Print the compiled prompt without calling the model",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, store, err := loadEnv()
		if err != nil {
			return err
		}
		defer store.Close()

		in, _ := collectInputs(cfg, store, cmd)
		fmt.Println(prompt.Compile(in, time.Now(), prompt.Region()))
		return nil
	},
}

func init() {
	promptCmd.Flags().StringVar(&generateInstruction, "instruction", "",
		"Override the saved instruction text")
	promptCmd.Flags().StringVar(&generateContext, "context", "",
		"Override the saved context text")
	promptCmd.Flags().BoolVar(&generateAsJSON, "json", false,
		"Format the Data section as a JSON array")
	rootCmd.AddCommand(promptCmd)
}
