package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/notarycalc/internal/compare"
)

func compareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [act]",
		Short: "Compare an act against variants of its inputs",
		Long: `Calculates the act once with the base inputs and once per variant.
A variant overrides some of the base inputs: name:key=value,key=value.
Variants can also come from the variants section of a --request file.`,
		Example: `  notarycalc compare donation --set valeur=10000000 --variant collateral:lien=collateral --variant tiers:lien=tiers
  notarycalc compare --request vente.yaml -f csv`,
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

			var variants []compare.Variant
			if in.file != nil {
				variants = compare.VariantsFromMap(in.file.Variants)
			}
			specs, _ := cmd.Flags().GetStringArray("variant")
			for _, spec := range specs {
				v, err := compare.ParseVariant(spec)
				if err != nil {
					return err
				}
				variants = append(variants, v)
			}
			if len(variants) == 0 {
				return fmt.Errorf("at least one variant is required (--variant or request variants)")
			}

			engine := compare.NewCompareEngine(registry)
			compSet, err := engine.Compare(cmd.Context(), in.act, in.params, variants)
			if err != nil {
				return err
			}

			format, _ := cmd.Flags().GetString("format")
			summary, _ := cmd.Flags().GetBool("summary")

			var text string
			switch strings.ToLower(format) {
			case "table", "console":
				text = (&compare.TableFormatter{}).Format(compSet)
			case "compact":
				text = (&compare.TableFormatter{}).FormatCompact(compSet)
			case "csv":
				text, err = (&compare.CSVFormatter{}).Format(compSet)
			case "json":
				text, err = (&compare.JSONFormatter{Pretty: true, Summary: summary}).Format(compSet)
			default:
				return fmt.Errorf("unsupported format %q (available: table, compact, csv, json)", format)
			}
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), text)
			return nil
		},
	}
	addParamFlags(cmd)
	cmd.Flags().StringArray("variant", nil, "Variant as name:key=value,... (repeatable)")
	cmd.Flags().StringP("format", "f", "table", "Output format (table, compact, csv, json)")
	cmd.Flags().Bool("summary", false, "Omit full breakdowns from JSON output")
	return cmd
}
