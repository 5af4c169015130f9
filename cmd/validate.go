package cmd

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"cardlens/internal/card"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a card config source",
	Long:  `Loads the card config and reports, per card, how many layers would actually spawn: layers past the per-card cap and layers missing type or src are skipped at runtime.`,
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cardCfg, err := card.Load(context.Background(), cfg.Source)
	if err != nil {
		return fmt.Errorf("loading card config from %q: %w", cfg.Source, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "source: %s\n", cfg.Source)

	ids := make([]string, 0, len(cardCfg))
	for id := range cardCfg {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		def := cardCfg[id]
		active := def.ActiveLayers()
		skipped := len(def.Layers) - len(active)

		fmt.Fprintf(out, "  %s: %d layer(s)", id, len(active))
		if skipped > 0 {
			fmt.Fprintf(out, ", %d skipped", skipped)
		}
		if def.HasVideo() {
			fmt.Fprint(out, ", has video")
		}
		fmt.Fprintln(out)
	}

	if _, ok := cardCfg[cfg.DefaultCard]; !ok {
		return card.ErrDefaultCardMissing{DefaultID: cfg.DefaultCard}
	}
	fmt.Fprintf(out, "default card %q present\n", cfg.DefaultCard)
	return nil
}
