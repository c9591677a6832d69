package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Show the number of distinct people seen",
	Args:  cobra.NoArgs,
	RunE:  runCount,
}

func init() {
	rootCmd.AddCommand(countCmd)
	countCmd.Flags().Bool("json", false, "Output as JSON")
}

func runCount(cmd *cobra.Command, args []string) error {
	store, closeFn, err := openStore(cmd.Context(), &appConfig.Database)
	if err != nil {
		return err
	}
	defer closeStore(closeFn)

	count, err := store.Count(cmd.Context())
	if err != nil {
		return err
	}

	if mustGetBool(cmd, "json") {
		return printJSON(map[string]int{"people": count})
	}
	fmt.Printf("People: %d\n", count)
	return nil
}
