package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/psacc/lumberjack/internal/model"
	"github.com/psacc/lumberjack/internal/output"
	"github.com/psacc/lumberjack/internal/preset"
)

var (
	flagPresetGroup  string
	flagPresetStart  string
	flagPresetEnd    string
	flagPresetFilter string
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "Manage saved searches",
}

var presetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved searches",
	Args:  cobra.NoArgs,
	RunE:  runPresetsList,
}

var presetsSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Save or replace a search",
	Args:  cobra.ExactArgs(1),
	RunE:  runPresetsSave,
}

var presetsDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a saved search",
	Args:  cobra.ExactArgs(1),
	RunE:  runPresetsDelete,
}

func init() {
	presetsSaveCmd.Flags().StringVarP(&flagPresetGroup, "group", "g", "", "Log group")
	presetsSaveCmd.Flags().StringVar(&flagPresetStart, "start", "", "Window start")
	presetsSaveCmd.Flags().StringVar(&flagPresetEnd, "end", "", "Window end")
	presetsSaveCmd.Flags().StringVarP(&flagPresetFilter, "filter", "f", "", "Filter pattern")

	presetsCmd.AddCommand(presetsListCmd, presetsSaveCmd, presetsDeleteCmd)
	rootCmd.AddCommand(presetsCmd)
}

func openPresetStore() (*preset.Store, func(), error) {
	a, err := loadApp(false)
	if err != nil {
		return nil, nil, err
	}
	store, err := preset.Open(a.cfg.Presets.Path)
	if err != nil {
		a.Close()
		return nil, nil, err
	}
	return store, func() {
		_ = store.Close()
		a.Close()
	}, nil
}

func runPresetsList(cmd *cobra.Command, args []string) error {
	store, closeStore, err := openPresetStore()
	if err != nil {
		return err
	}
	defer closeStore()

	presets, err := store.List(commandContext(cmd))
	if err != nil {
		return err
	}
	output.RenderPresets(cmd.OutOrStdout(), presets, getFormat())
	return nil
}

func runPresetsSave(cmd *cobra.Command, args []string) error {
	store, closeStore, err := openPresetStore()
	if err != nil {
		return err
	}
	defer closeStore()

	p := model.Preset{
		Name:  args[0],
		Group: flagPresetGroup,
		Start: flagPresetStart,
		End:   flagPresetEnd,
		Query: flagPresetFilter,
	}
	if err := store.Save(commandContext(cmd), p); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved preset %q\n", p.Name)
	return nil
}

func runPresetsDelete(cmd *cobra.Command, args []string) error {
	store, closeStore, err := openPresetStore()
	if err != nil {
		return err
	}
	defer closeStore()

	deleted, err := store.Delete(commandContext(cmd), args[0])
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("preset %q not found", args[0])
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted preset %q\n", args[0])
	return nil
}
