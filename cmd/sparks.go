package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kayz/motion/internal/spark"
)

var sparksCmd = &cobra.Command{
	Use:   "sparks",
	Short: "List the spark files under the watched root, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, store, err := loadEnv()
		if err != nil {
			return err
		}
		defer store.Close()

		snapshot := spark.LoadOnce(resolveSparksDir(cfg), cfg.Sparks.Extensions)
		for _, record := range snapshot.Records {
			title := record.Title
			if title == "" {
				title = record.ID
			}
			fmt.Printf("%s  %-40s [%s] ~%d tokens\n",
				record.CreatedDate.Format("2006-01-02 15:04"),
				title, record.Category, record.TokenEstimate)
		}
		fmt.Printf("%d sparks loaded\n", snapshot.Count)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sparksCmd)
}
