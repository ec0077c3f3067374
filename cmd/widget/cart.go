package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/fjod/go_cart/cart-widget/internal/domain"
	"github.com/fjod/go_cart/cart-widget/internal/kv"
	"github.com/fjod/go_cart/cart-widget/internal/persistence"
	"github.com/fjod/go_cart/cart-widget/internal/projection"
	"github.com/spf13/cobra"
)

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Inspect or reset the persisted cart",
}

var cartShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the persisted cart and its totals",
	RunE: func(cmd *cobra.Command, args []string) error {
		adapter, closeStore, err := openAdapter(cmd)
		if err != nil {
			return err
		}
		defer closeStore()

		lines, found, err := adapter.Load(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if !found || len(lines) == 0 {
			fmt.Fprintln(out, projection.EmptyCartText)
			return nil
		}

		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tTITLE\tQTY\tTOTAL")
		for _, l := range lines {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", l.ID, l.Title, l.Quantity, projection.FormatAmount(l.LineTotal()))
		}
		totals := domain.ComputeTotals(lines)
		fmt.Fprintf(tw, "\t\t%d\t%s\n", totals.Quantity, projection.FormatAmount(totals.Price))
		return tw.Flush()
	},
}

var cartResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the persisted cart",
	RunE: func(cmd *cobra.Command, args []string) error {
		adapter, closeStore, err := openAdapter(cmd)
		if err != nil {
			return err
		}
		defer closeStore()

		if err := adapter.Discard(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %q\n", adapter.Key())
		return nil
	},
}

// errVolatileStorage is returned when the cart subcommands would inspect a
// store that only lives inside this process.
var errVolatileStorage = errors.New("cart commands need a durable STORAGE_BACKEND (redis, mongo or sqlite)")

func openAdapter(cmd *cobra.Command) (*persistence.Adapter, func(), error) {
	opts := cfg.Storage()
	if opts.Backend == "" || opts.Backend == kv.BackendMemory {
		return nil, nil, fmt.Errorf("cart %s: %w", cmd.Name(), errVolatileStorage)
	}
	store, err := kv.Open(cmd.Context(), opts)
	if err != nil {
		return nil, nil, err
	}
	return persistence.NewAdapter(store, cfg.CartKey), func() { store.Close() }, nil
}
