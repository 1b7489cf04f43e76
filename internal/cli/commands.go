package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"

	availabilitysvc "github.com/smallbiznis/pizzaria/internal/availability/service"
	"github.com/smallbiznis/pizzaria/internal/events"
	"github.com/smallbiznis/pizzaria/internal/events/broker"
	ingredientrepo "github.com/smallbiznis/pizzaria/internal/ingredient/repository"
	ingredientsvc "github.com/smallbiznis/pizzaria/internal/ingredient/service"
	machinerepo "github.com/smallbiznis/pizzaria/internal/machine/repository"
	maintenancesvc "github.com/smallbiznis/pizzaria/internal/maintenance/service"
	menurepo "github.com/smallbiznis/pizzaria/internal/menu/repository"
	reciperepo "github.com/smallbiznis/pizzaria/internal/recipe/repository"
	"github.com/smallbiznis/pizzaria/internal/seed"
	"github.com/spf13/cobra"
)

func (a *app) seedCommand() *cobra.Command {
	var catalogDirs []string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create missing collection files from the seed catalog",
		Long: `Writes every collection file that does not exist yet. Existing files are
never touched. A catalog.yml found in --catalog-dir replaces the built-in
catalog section by section.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog, err := seed.LoadCatalog(catalogDirs...)
			if err != nil {
				return fmt.Errorf("load catalog: %w", err)
			}
			created, err := seed.EnsureDataFiles(cmd.Context(), a.store(), catalog, a.opts.Clock.Now())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(created) == 0 {
				fmt.Fprintln(out, "all collections already present")
				return nil
			}
			for _, file := range created {
				fmt.Fprintf(out, "created %s\n", file)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&catalogDirs, "catalog-dir", nil, "directories searched for catalog.yml")
	return cmd
}

func (a *app) sweepCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run the maintenance sweep once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc := maintenancesvc.New(maintenancesvc.Params{
				Log:      a.logger(),
				Clock:    a.opts.Clock,
				Machines: machinerepo.Provide(a.store()),
			})
			result, err := svc.RunSweep(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			fmt.Fprintf(out, "updated %d, skipped %d\n", result.UpdatedCount, result.SkippedCount)
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tSTATUS\tUSAGE\tNOTES")
			for _, m := range result.Machines {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%.1f%%\t%s\n", m.ID, m.Name, m.Status, m.UsagePercent(), m.Notes)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the sweep result as JSON")
	return cmd
}

func (a *app) menuCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Print the pizza menu with stock availability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store := a.store()
			pizzas, err := menurepo.Provide(store).ListPizzas(cmd.Context())
			if err != nil {
				return err
			}
			projector := availabilitysvc.New(availabilitysvc.Params{
				Log:         a.logger(),
				Ingredients: ingredientrepo.Provide(store),
				Recipes:     reciperepo.Provide(store),
			})

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tAVAILABLE\tSTOCK")
			for _, v := range projector.Project(cmd.Context(), pizzas) {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", v.ID, v.Name, yesNo(v.Available), okShort(v.StockAvailable))
			}
			return tw.Flush()
		},
	}
}

func (a *app) stockCommand() *cobra.Command {
	var lowOnly bool
	cmd := &cobra.Command{
		Use:   "stock",
		Short: "List ingredient stock levels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc := ingredientsvc.New(ingredientsvc.Params{
				Log:   a.logger(),
				Clock: a.opts.Clock,
				Repo:  ingredientrepo.Provide(a.store()),
			})
			items, err := svc.List(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSTOCK\tMIN\tUNIT\tLOW")
			for _, it := range items {
				if lowOnly && !it.LowStock {
					continue
				}
				fmt.Fprintf(tw, "%s\t%g\t%g\t%s\t%s\n", it.ID, it.Stock, it.MinStock, it.Unit, yesNo(it.LowStock))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&lowOnly, "low", false, "only ingredients at or below their minimum")
	return cmd
}

func (a *app) eventsCommand() *cobra.Command {
	group := &cobra.Command{
		Use:   "events",
		Short: "Inspect kitchen events",
	}

	var pattern string
	tail := &cobra.Command{
		Use:   "tail",
		Short: "Print kitchen events from the broker until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.opts.Config.AMQP
			if !cfg.Enabled() {
				return errors.New("AMQP_URL is not set")
			}
			client, err := broker.Dial(cmd.Context(), cfg.URL, cfg.Exchange, a.logger())
			if err != nil {
				return fmt.Errorf("connect broker: %w", err)
			}
			defer client.Close()

			enc := json.NewEncoder(cmd.OutOrStdout())
			return client.Tail(cmd.Context(), pattern, func(evt events.Event) {
				_ = enc.Encode(evt)
			})
		},
	}
	tail.Flags().StringVar(&pattern, "pattern", "#", "routing key pattern, e.g. order.* or machine.#")
	group.AddCommand(tail)
	return group
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func okShort(v bool) string {
	if v {
		return "ok"
	}
	return "short"
}
