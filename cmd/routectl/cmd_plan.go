package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"manifest-route-service/internal/adapters/document"
	"manifest-route-service/internal/api/dto"
	"manifest-route-service/internal/app"
	"manifest-route-service/internal/config"
	"manifest-route-service/internal/domain"
	"manifest-route-service/internal/platform/obs"
	"manifest-route-service/internal/services"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var planOptions struct {
	StartAddress  string
	MaxDistanceKm float64
	StartRow      int
	AddressColumn string
	RoundTrip     bool
	Strategy      string
	RegionBias    string
	JSON          bool
}

var planCmd = &cobra.Command{
	Use:   "plan <manifest>",
	Short: "Plans a route for the addresses in a manifest file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		strategy, err := domain.ParseStrategy(planOptions.Strategy)
		if err != nil {
			return err
		}

		doc, err := document.ReadFile(args[0], document.TabularOptions{
			StartRow:      planOptions.StartRow,
			AddressColumn: planOptions.AddressColumn,
		})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		ctx = obs.WithRequestID(ctx, uuid.NewString())

		a, err := app.Build(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		req := services.PlanRouteRequest{
			Document:      doc,
			StartAddress:  planOptions.StartAddress,
			MaxDistanceKm: planOptions.MaxDistanceKm,
			RoundTrip:     planOptions.RoundTrip,
			Strategy:      strategy,
			RegionBias:    planOptions.RegionBias,
		}

		var bar *progressbar.ProgressBar
		if isatty.IsTerminal(os.Stderr.Fd()) {
			req.OnGeocodeProgress = func(done, total int) {
				if bar == nil {
					bar = progressbar.NewOptions(total,
						progressbar.OptionSetDescription("Geocoding"),
						progressbar.OptionSetWriter(os.Stderr),
						progressbar.OptionShowCount(),
						progressbar.OptionClearOnFinish(),
					)
				}
				_ = bar.Set(done)
			}
		}

		res, err := plan(ctx, a.Planner, req)
		if bar != nil {
			_ = bar.Finish()
		}
		if err != nil {
			return err
		}

		if planOptions.JSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(dto.FromRouteResult(res))
		}
		return printRoute(cmd.OutOrStdout(), res)
	},
}

func plan(ctx context.Context, p *services.RoutePlanner, req services.PlanRouteRequest) (*domain.RouteResult, error) {
	res, err := p.Plan(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("plan: %w", err)
	}
	return res, nil
}

func printRoute(w io.Writer, res *domain.RouteResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "#\tID\tLABEL\tADDRESS\tLAT\tLON\tLEG KM\tLEG MIN")
	for i, s := range res.Stops {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%.6f\t%.6f\t%.2f\t%.1f\n",
			i+1, s.ID, s.Label, s.RawAddress, s.Lat, s.Lon, s.Leg.DistanceKm, s.Leg.DurationS/60)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	source := "routing service"
	if res.Fallback {
		source = "straight-line estimate"
	}
	fmt.Fprintf(w, "\nTotal: %.2f km, %.0f min (%s)\n", res.TotalDistanceKm, res.TotalDurationS/60, source)
	if res.RegionBias != "" {
		fmt.Fprintf(w, "Region bias: %s\n", res.RegionBias)
	}

	if len(res.Skipped) > 0 {
		fmt.Fprintf(w, "\nSkipped %d:\n", len(res.Skipped))
		for _, s := range res.Skipped {
			fmt.Fprintf(w, "  %s: %s (%s)\n", s.Label, s.RawAddress, s.Reason)
		}
	}

	return nil
}

func init() {
	f := planCmd.Flags()
	f.StringVar(&planOptions.StartAddress, "start", "", "depot or start address")
	f.Float64Var(&planOptions.MaxDistanceKm, "max-distance", 0, "skip stops further than this many km from the start")
	f.IntVar(&planOptions.StartRow, "start-row", 1, "first spreadsheet row to read (1-based)")
	f.StringVar(&planOptions.AddressColumn, "address-col", "A", "spreadsheet address column (letter or 1-based number)")
	f.BoolVar(&planOptions.RoundTrip, "round-trip", false, "return to the start at the end of the route")
	f.StringVar(&planOptions.Strategy, "strategy", string(domain.StrategyNearest), "sequencing strategy: nearest or furthest")
	f.StringVar(&planOptions.RegionBias, "region-bias", "", "region appended to geocoding queries (default: derived from the start)")
	f.BoolVar(&planOptions.JSON, "json", false, "print the route as JSON")

	rootCmd.AddCommand(planCmd)
}
