package main

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/notarycalc/internal/calculation"
	"github.com/rgehrsitz/notarycalc/internal/domain"
	"github.com/rgehrsitz/notarycalc/internal/output"
)

func templatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List the tariff templates of the rulebook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := loadRegistry(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			rb := registry.Rulebook()

			fmt.Fprintf(out, "%-24s %-36s %5s  %s\n", "TEMPLATE", "LABEL", "RULES", "INPUTS")
			for i := range rb.Templates {
				t := &rb.Templates[i]
				inputs := "-"
				if keys := t.InputKeys(); len(keys) > 0 {
					inputs = strings.Join(keys, ", ")
				}
				fmt.Fprintf(out, "%-24s %-36s %5d  %s\n", t.ID, t.Label, t.RuleCount(), inputs)
			}
			return nil
		},
	}
}

func simulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "simulate <template>",
		Short:   "Run a tariff template against a principal value",
		Example: `  notarycalc simulate vente_standard --value 25000000 --input frais_geometre=150000`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := loadRegistry(cmd)
			if err != nil {
				return err
			}
			rb := registry.Rulebook()

			t, ok := rb.Template(args[0])
			if !ok {
				return domain.NewCalcError(domain.KindUnknownTemplate, "template", "unknown template: "+args[0], nil)
			}

			raw, _ := cmd.Flags().GetString("value")
			principal, err := decimal.NewFromString(strings.TrimSpace(raw))
			if err != nil {
				return domain.NewCalcError(domain.KindInvalidNumericInput, "value", fmt.Sprintf("not a number: %q", raw), err)
			}

			sets, _ := cmd.Flags().GetStringArray("input")
			inputs, err := parseInputs(sets)
			if err != nil {
				return err
			}

			engine := calculation.NewSimulationEngine(rb.Taxes)
			engine.SetLogger(cliLogger(cmd))

			var result *domain.SimulationResult
			if inputs != nil {
				result, err = engine.RunWithInputs(t, principal, inputs)
			} else {
				result, err = engine.Run(t, principal)
			}
			if err != nil {
				return err
			}

			report := newReport(rb)
			report.Simulation = result

			format, _ := cmd.Flags().GetString("format")
			save, _ := cmd.Flags().GetBool("save")
			return writeReport(cmd.OutOrStdout(), report, format, save)
		},
	}
	cmd.Flags().String("value", "", "Principal value the template rules apply to")
	cmd.Flags().StringArray("input", nil, "Caller-supplied amount as key=value (repeatable)")
	cmd.Flags().StringP("format", "f", "console", "Output format ("+strings.Join(output.FormatNames(), ", ")+")")
	cmd.Flags().Bool("save", false, "Write the report to a timestamped file instead of stdout")
	_ = cmd.MarkFlagRequired("value")
	return cmd
}

// parseInputs decodes --input flags; nil when none were given
func parseInputs(sets []string) (map[string]decimal.Decimal, error) {
	if len(sets) == 0 {
		return nil, nil
	}
	params, err := parseSets(sets)
	if err != nil {
		return nil, err
	}
	inputs := make(map[string]decimal.Decimal, len(params))
	for _, key := range sortedKeys(params) {
		v, err := decimal.NewFromString(params[key])
		if err != nil {
			return nil, domain.NewCalcError(domain.KindInvalidNumericInput, key, fmt.Sprintf("not a number: %q", params[key]), err)
		}
		inputs[key] = v
	}
	return inputs, nil
}
