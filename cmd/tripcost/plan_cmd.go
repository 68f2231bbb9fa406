package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/voyago/tripcost/internal/config"
	"github.com/voyago/tripcost/internal/estimate"
	"github.com/voyago/tripcost/internal/logging"
	"github.com/voyago/tripcost/internal/plan"
	"github.com/voyago/tripcost/internal/prompt"
)

func newPlanCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Manage saved travel plans",
	}

	cmd.AddCommand(newPlanCreateCmd(cfg))
	cmd.AddCommand(newPlanListCmd(cfg))
	cmd.AddCommand(newPlanShowCmd(cfg))
	cmd.AddCommand(newPlanDeleteCmd(cfg))
	cmd.AddCommand(newPlanEstimateCmd(cfg))
	cmd.AddCommand(newPlanSetCostsCmd(cfg))
	return cmd
}

func newPlanCreateCmd(cfg *config.Config) *cobra.Command {
	tf := &tripFlags{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Save a new travel plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := loadConfig(cmd, cfg)
			if err != nil {
				return err
			}
			trip, err := resolveTrip(tf)
			if err != nil {
				return err
			}

			p := plan.New(trip)
			if err := plan.NewStore(loaded.PlansFile).Add(p); err != nil {
				return err
			}

			logging.Success("plan saved")
			fmt.Println(p.ID)
			return nil
		},
	}

	bindTripFlags(cmd, tf)
	return cmd
}

func newPlanListCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved travel plans",
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := loadConfig(cmd, cfg)
			if err != nil {
				return err
			}

			plans, err := plan.NewStore(loaded.PlansFile).List()
			if err != nil {
				return err
			}
			if len(plans) == 0 {
				logging.Info("no plans saved yet")
				return nil
			}

			for _, p := range plans {
				status := "no estimate"
				if total, ok := p.Total(); ok {
					status = fmt.Sprintf("$%.2f", total)
				}
				fmt.Printf("%s  %s -> %s  %s to %s  %s\n",
					p.ID, p.Trip.DepartureCity, p.Trip.ArrivalCity,
					p.Trip.StartDate, p.Trip.EndDate, status)
			}
			return nil
		},
	}
}

func newPlanShowCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "show <plan-id>",
		Short: "Show one travel plan with its estimate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := loadConfig(cmd, cfg)
			if err != nil {
				return err
			}

			p, err := plan.NewStore(loaded.PlansFile).Get(args[0])
			if err != nil {
				return err
			}

			fmt.Printf("Plan:    %s\n", p.ID)
			fmt.Printf("Route:   %s -> %s\n", p.Trip.DepartureCity, p.Trip.ArrivalCity)
			fmt.Printf("Dates:   %s to %s (%d nights)\n", p.Trip.StartDate, p.Trip.EndDate, p.Trip.Nights())
			fmt.Printf("Lodging: %v   Dining: %v\n", p.Trip.IncludeLodging, p.Trip.IncludeFood)
			if p.Estimate == nil {
				logging.Info("no estimate attached; run `tripcost plan estimate` or `tripcost plan set-costs`")
				return nil
			}
			fmt.Printf("Estimated %s\n", p.Estimate.GeneratedAt.Format(time.RFC3339))
			printEstimate(p.Trip, p.Estimate)
			return nil
		},
	}
}

func newPlanDeleteCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <plan-id>",
		Short: "Delete a travel plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := loadConfig(cmd, cfg)
			if err != nil {
				return err
			}
			if err := plan.NewStore(loaded.PlansFile).Delete(args[0]); err != nil {
				return err
			}
			logging.Success("plan deleted")
			return nil
		},
	}
}

func newPlanEstimateCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "estimate <plan-id>",
		Short: "Estimate costs for a saved plan and persist the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := loadConfig(cmd, cfg)
			if err != nil {
				return err
			}

			store := plan.NewStore(loaded.PlansFile)
			p, err := store.Get(args[0])
			if err != nil {
				return err
			}

			est, err := estimateTrip(cmd.Context(), loaded, prompt.TemplateBuilder{}, p.Trip)
			if err != nil {
				return err
			}

			p.SetEstimate(est)
			if err := store.Update(p); err != nil {
				return err
			}

			logging.Success("estimate saved to plan")
			printEstimate(p.Trip, est)
			return nil
		},
	}
}

func newPlanSetCostsCmd(cfg *config.Config) *cobra.Command {
	var flight, room, food float64

	cmd := &cobra.Command{
		Use:   "set-costs <plan-id>",
		Short: "Manually enter costs when estimation fails",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := loadConfig(cmd, cfg)
			if err != nil {
				return err
			}
			if flight < 0 || room < 0 || food < 0 {
				return fmt.Errorf("costs must be non-negative")
			}

			store := plan.NewStore(loaded.PlansFile)
			p, err := store.Get(args[0])
			if err != nil {
				return err
			}

			p.SetEstimate(&estimate.Estimate{
				Flight:        flight,
				RoomsPerNight: room,
				FoodDaily:     food,
				GeneratedAt:   time.Now().UTC(),
			})
			if err := store.Update(p); err != nil {
				return err
			}

			logging.Success("manual costs saved")
			printEstimate(p.Trip, p.Estimate)
			return nil
		},
	}

	cmd.Flags().Float64Var(&flight, "flight", 0, "Round-trip flight cost")
	cmd.Flags().Float64Var(&room, "room-per-night", 0, "Lodging cost per night")
	cmd.Flags().Float64Var(&food, "food-daily", 0, "Food cost per day")
	return cmd
}
