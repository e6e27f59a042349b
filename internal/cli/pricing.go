package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var pricingCmd = &cobra.Command{
	Use:   "pricing [type]",
	Short: "List the effective price table",
	Long: `Lists the monthly prices used for cost estimates: the built-in table
plus any extra_pricing entries from settings. Pass a resource type to
show only that type.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPricing,
}

func runPricing(cmd *cobra.Command, args []string) error {
	prices := settings.PriceTable()
	out := cmd.OutOrStdout()

	types := prices.Types()
	if len(args) == 1 {
		if len(prices.Entries(args[0])) == 0 {
			return fmt.Errorf("no pricing for resource type %s", args[0])
		}
		types = []string{args[0]}
	}

	for _, typ := range types {
		fmt.Fprintf(out, "%s\n", typ)
		for _, e := range prices.Entries(typ) {
			match := "(base)"
			if !e.IsBase() {
				match = e.Attribute + " = " + e.Value
			}
			fmt.Fprintf(out, "  %-32s $%8.3f / %s\n", match, e.Price, e.Unit)
		}
	}
	return nil
}
