package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/notarycalc/internal/breakeven"
	"github.com/rgehrsitz/notarycalc/internal/domain"
)

func budgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget [act]",
		Short: "Find the largest principal of an act that fits a budget",
		Long: `Searches the principal field of an act (prix, valeur, montant...) for the
largest value whose charges fit the budget. With --goal total_outlay the budget
covers the principal plus charges; with charges_only it covers the charges alone.
--goal all solves both.`,
		Example: `  notarycalc budget vente --budget 11581000
  notarycalc budget donation --budget 5000000 --goal charges_only --set lien=tiers`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := loadRegistry(cmd)
			if err != nil {
				return err
			}

			in, err := resolveRequest(cmd, registry, args)
			if err != nil {
				return err
			}

			rawBudget, _ := cmd.Flags().GetString("budget")
			budget, err := decimal.NewFromString(strings.TrimSpace(rawBudget))
			if err != nil {
				return domain.NewCalcError(domain.KindInvalidNumericInput, "budget", fmt.Sprintf("not a number: %q", rawBudget), err)
			}

			req := breakeven.BudgetRequest{
				Act:    in.act,
				Params: in.params,
				Budget: budget,
			}
			if rawMax, _ := cmd.Flags().GetString("max-principal"); rawMax != "" {
				maxPrincipal, err := decimal.NewFromString(rawMax)
				if err != nil {
					return domain.NewCalcError(domain.KindInvalidNumericInput, "max-principal", fmt.Sprintf("not a number: %q", rawMax), err)
				}
				req.Constraints.MaxPrincipal = &maxPrincipal
			}
			req.MaxIterations, _ = cmd.Flags().GetInt("max-iterations")

			timeout, _ := cmd.Flags().GetDuration("timeout")
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			solver := breakeven.NewDefaultSolver(registry)
			solver.SetLogger(cliLogger(cmd))

			goal, _ := cmd.Flags().GetString("goal")
			format, _ := cmd.Flags().GetString("format")
			table := &breakeven.TableFormatter{}

			var result any
			var text string
			if strings.EqualFold(goal, "all") {
				multi, err := solver.SolveGoals(ctx, req, nil)
				if err != nil {
					return err
				}
				result, text = multi, table.FormatMultiGoal(multi)
			} else {
				req.Goal = breakeven.BudgetGoal(strings.ToLower(goal))
				single, err := solver.Solve(ctx, req)
				if err != nil {
					return err
				}
				result, text = single, table.Format(single)
			}

			switch strings.ToLower(format) {
			case "table", "console":
			case "json":
				text, err = (&breakeven.JSONFormatter{Pretty: true}).Format(result)
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("unsupported format %q (available: table, json)", format)
			}
			fmt.Fprint(cmd.OutOrStdout(), text)
			return nil
		},
	}
	addParamFlags(cmd)
	cmd.Flags().String("budget", "", "Budget the charges (or principal plus charges) must fit")
	cmd.Flags().String("goal", string(breakeven.GoalTotalOutlay), "What the budget covers (total_outlay, charges_only, all)")
	cmd.Flags().String("max-principal", "", "Upper bound on the principal")
	cmd.Flags().Int("max-iterations", 0, "Bisection step limit (0 uses the solver default)")
	cmd.Flags().Duration("timeout", 10*time.Second, "Abort the search after this long")
	cmd.Flags().StringP("format", "f", "table", "Output format (table, json)")
	_ = cmd.MarkFlagRequired("budget")
	return cmd
}
