package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/psacc/lumberjack/internal/output"
)

var groupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "List log groups",
	Args:  cobra.NoArgs,
	RunE:  runGroups,
}

func init() {
	rootCmd.AddCommand(groupsCmd)
}

func runGroups(cmd *cobra.Command, args []string) error {
	a, err := loadApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	dial, err := a.dialer()
	if err != nil {
		return err
	}
	ctx := commandContext(cmd)
	store, err := dial(ctx)
	if err != nil {
		return err
	}
	groups, err := store.ListGroups(ctx)
	if err != nil {
		return fmt.Errorf("list log groups: %w", err)
	}

	output.RenderGroups(cmd.OutOrStdout(), groups, getFormat())
	return nil
}
