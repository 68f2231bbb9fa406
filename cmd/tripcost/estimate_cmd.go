package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voyago/tripcost/internal/config"
	"github.com/voyago/tripcost/internal/estimate"
	"github.com/voyago/tripcost/internal/gemini"
	"github.com/voyago/tripcost/internal/logging"
	"github.com/voyago/tripcost/internal/plan"
	"github.com/voyago/tripcost/internal/prompt"
)

// tripFlags collects the trip fields shared by `estimate` and `plan create`.
type tripFlags struct {
	from      string
	to        string
	start     string
	end       string
	noLodging bool
	noFood    bool
	tripFile  string
}

func bindTripFlags(cmd *cobra.Command, tf *tripFlags) {
	flags := cmd.Flags()
	flags.StringVar(&tf.from, "from", "", "Departure city")
	flags.StringVar(&tf.to, "to", "", "Arrival city")
	flags.StringVar(&tf.start, "start", "", "Start date (YYYY-MM-DD)")
	flags.StringVar(&tf.end, "end", "", "End date (YYYY-MM-DD)")
	flags.BoolVar(&tf.noLodging, "no-lodging", false, "Exclude lodging from the estimate")
	flags.BoolVar(&tf.noFood, "no-food", false, "Exclude dining from the estimate")
	flags.StringVar(&tf.tripFile, "trip", "", "Load trip details from a YAML file instead of flags")
}

// resolveTrip builds a validated trip from a YAML file or from flags.
func resolveTrip(tf *tripFlags) (plan.Trip, error) {
	if tf.tripFile != "" {
		return plan.LoadTrip(tf.tripFile)
	}

	trip := plan.Trip{
		DepartureCity:  tf.from,
		ArrivalCity:    tf.to,
		StartDate:      tf.start,
		EndDate:        tf.end,
		IncludeLodging: !tf.noLodging,
		IncludeFood:    !tf.noFood,
	}
	if err := trip.Validate(); err != nil {
		return plan.Trip{}, err
	}
	return trip, nil
}

// newEstimationService wires the Gemini client into the estimation core.
func newEstimationService(cfg *config.Config) (*estimate.Service, error) {
	client, err := gemini.New(gemini.Config{
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		BaseURL: cfg.BaseURL,
	})
	if err != nil {
		return nil, err
	}
	return estimate.NewService(client, cfg.RetryPolicy()), nil
}

// estimateTrip renders the prompt for trip and runs it through the core.
func estimateTrip(ctx context.Context, cfg *config.Config, builder prompt.Builder, trip plan.Trip) (*estimate.Estimate, error) {
	svc, err := newEstimationService(cfg)
	if err != nil {
		return nil, err
	}

	rendered := builder.Build(prompt.Params{
		DepartureCity:  trip.DepartureCity,
		ArrivalCity:    trip.ArrivalCity,
		StartDate:      trip.StartDate,
		EndDate:        trip.EndDate,
		IncludeLodging: trip.IncludeLodging,
		IncludeFood:    trip.IncludeFood,
	})

	logging.Infof("estimating %s -> %s (%s to %s)", trip.DepartureCity, trip.ArrivalCity, trip.StartDate, trip.EndDate)
	est, err := svc.Estimate(ctx, rendered)
	if err != nil {
		logging.Info("estimation failed; enter costs manually with `tripcost plan set-costs`")
		return nil, err
	}
	return est, nil
}

func printEstimate(trip plan.Trip, est *estimate.Estimate) {
	fmt.Printf("Flight (round trip):  $%.2f\n", est.Flight)
	fmt.Printf("Lodging (per night):  $%.2f\n", est.RoomsPerNight)
	fmt.Printf("Food (per day):       $%.2f\n", est.FoodDaily)

	p := plan.Plan{Trip: trip}
	p.Estimate = est
	if total, ok := p.Total(); ok {
		fmt.Printf("Trip total (%d nights, %d days): $%.2f\n", trip.Nights(), trip.Days(), total)
	}
}

func newEstimateCmd(cfg *config.Config) *cobra.Command {
	tf := &tripFlags{}

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate costs for a trip without saving a plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := loadConfig(cmd, cfg)
			if err != nil {
				return err
			}
			trip, err := resolveTrip(tf)
			if err != nil {
				return err
			}

			est, err := estimateTrip(cmd.Context(), loaded, prompt.TemplateBuilder{}, trip)
			if err != nil {
				return err
			}

			logging.Success("estimate validated")
			printEstimate(trip, est)
			return nil
		},
	}

	bindTripFlags(cmd, tf)
	return cmd
}
