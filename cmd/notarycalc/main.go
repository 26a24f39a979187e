package main

import (
	"fmt"
	"io"
	"log"
	"maps"
	"os"
	"runtime/debug"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/notarycalc/internal/acts"
	"github.com/rgehrsitz/notarycalc/internal/calculation"
	"github.com/rgehrsitz/notarycalc/internal/config"
	"github.com/rgehrsitz/notarycalc/internal/domain"
	"github.com/rgehrsitz/notarycalc/internal/output"
)

// simpleCLILogger implements calculation.Logger using the standard log package
type simpleCLILogger struct{}

func (simpleCLILogger) Debugf(format string, args ...any) { log.Printf("DEBUG: "+format, args...) }
func (simpleCLILogger) Infof(format string, args ...any)  { log.Printf("INFO: "+format, args...) }
func (simpleCLILogger) Warnf(format string, args ...any)  { log.Printf("WARN: "+format, args...) }
func (simpleCLILogger) Errorf(format string, args ...any) { log.Printf("ERROR: "+format, args...) }

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "notarycalc %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.String()
	}
	return ""
}

// newRootCmd builds the full command tree. Each call returns fresh flag state.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "notarycalc",
		Short: "Notarial fee calculator CLI",
		Long:  "Computes the itemized cost of notarial acts (fees, VAT, duties and disbursements) from a versioned rulebook",
		// errors are printed once by main
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().String("rulebook", "", "Path to a rulebook file (.yaml or .toml); the embedded rulebook when empty")
	root.PersistentFlags().Bool("debug", false, "Enable debug output for detailed calculations")

	root.AddCommand(
		actsCmd(),
		calculateCmd(),
		templatesCmd(),
		simulateCmd(),
		compareCmd(),
		budgetCmd(),
		validateCmd(),
		serveCmd(),
		versionCmd(),
	)
	return root
}

// cliLogger returns the std log logger when --debug is set
func cliLogger(cmd *cobra.Command) calculation.Logger {
	if debugMode, _ := cmd.Flags().GetBool("debug"); debugMode {
		return simpleCLILogger{}
	}
	return calculation.NopLogger{}
}

// loadRegistry loads the rulebook named by --rulebook (embedded when empty) and binds the act catalog
func loadRegistry(cmd *cobra.Command) (*acts.Registry, error) {
	path, _ := cmd.Flags().GetString("rulebook")
	logger := cliLogger(cmd)

	loader := config.NewRulebookLoader()
	loader.SetLogger(logger)
	rb, err := loader.Load(path)
	if err != nil {
		return nil, err
	}
	registry, err := acts.NewRegistry(rb)
	if err != nil {
		return nil, err
	}
	registry.SetLogger(logger)
	return registry, nil
}

// parseSets turns repeated key=value flags into a params map
func parseSets(sets []string) (map[string]string, error) {
	params := make(map[string]string, len(sets))
	for _, s := range sets {
		key, value, ok := strings.Cut(s, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set %q: expected key=value", s)
		}
		params[key] = strings.TrimSpace(value)
	}
	return params, nil
}

// writeReport renders r with the named formatter to w, or to a timestamped file when save is set
func writeReport(w io.Writer, r *output.Report, format string, save bool) error {
	f := output.GetFormatterByName(format)
	if f == nil {
		return fmt.Errorf("unsupported format %q (available: %s)", format, strings.Join(output.FormatNames(), ", "))
	}
	if save {
		filename, err := output.WriteFormatted(f, r, f.Name())
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Report written to %s\n", filename)
		return nil
	}
	data, err := f.Format(r)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func newReport(rb *domain.Rulebook) *output.Report {
	return &output.Report{
		Currency:       rb.Currency,
		RoundingPlaces: rb.RoundingPlaces,
		CalculationID:  uuid.NewString(),
	}
}

func calculateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calculate [act]",
		Short: "Calculate the itemized cost of a notarial act",
		Example: `  notarycalc calculate vente --set prix=25000000 --set conservation_fonciere=true
  notarycalc calculate --request vente.yaml -f json`,
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

			b, err := registry.CalculateParams(in.act, in.params)
			if err != nil {
				return err
			}

			report := newReport(registry.Rulebook())
			report.Breakdown = b

			format, _ := cmd.Flags().GetString("format")
			save, _ := cmd.Flags().GetBool("save")
			return writeReport(cmd.OutOrStdout(), report, format, save)
		},
	}
	addParamFlags(cmd)
	cmd.Flags().StringP("format", "f", "console", "Output format ("+strings.Join(output.FormatNames(), ", ")+")")
	cmd.Flags().Bool("save", false, "Write the report to a timestamped file instead of stdout")
	return cmd
}

// addParamFlags registers the flags read by resolveRequest
func addParamFlags(cmd *cobra.Command) {
	cmd.Flags().StringArray("set", nil, "Input field as key=value (repeatable)")
	cmd.Flags().String("request", "", "Request file (YAML or JSON) with act and params")
	cmd.Flags().Bool("defaults", false, "Start from the act's default field values")
}

// actRequest is an act and its params as assembled from the command line
type actRequest struct {
	act    domain.ActType
	params map[string]string
	// file is the --request file, nil when none was given
	file *config.Request
}

// resolveRequest combines the act argument, --request file, --defaults and --set flags.
// --set wins over the request file, which wins over defaults.
func resolveRequest(cmd *cobra.Command, registry *acts.Registry, args []string) (*actRequest, error) {
	requestFile, _ := cmd.Flags().GetString("request")
	sets, _ := cmd.Flags().GetStringArray("set")
	withDefaults, _ := cmd.Flags().GetBool("defaults")

	var req *config.Request
	if requestFile != "" {
		r, err := config.LoadRequest(requestFile)
		if err != nil {
			return nil, err
		}
		req = r
	}

	var actName string
	switch {
	case len(args) == 1:
		actName = args[0]
	case req != nil:
		actName = req.Act
	default:
		return nil, fmt.Errorf("an act is required (argument or --request)")
	}
	act, err := domain.ParseActType(actName)
	if err != nil {
		return nil, err
	}
	if req != nil && req.Act != "" && len(args) == 1 {
		if reqAct, _ := req.ActType(); reqAct != act {
			return nil, fmt.Errorf("request file is for %s, not %s", req.Act, act)
		}
	}

	params := map[string]string{}
	if withDefaults {
		c, err := registry.Calculator(act)
		if err != nil {
			return nil, err
		}
		maps.Copy(params, c.Defaults())
	}
	if req != nil {
		maps.Copy(params, req.Params)
	}
	overrides, err := parseSets(sets)
	if err != nil {
		return nil, err
	}
	maps.Copy(params, overrides)
	return &actRequest{act: act, params: params, file: req}, nil
}

func actsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "acts [act]",
		Short: "List the act catalog, or the input fields of one act",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := loadRegistry(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				fmt.Fprintf(out, "%-22s %-36s %s\n", "ACT", "LABEL", "PRINCIPAL")
				for _, c := range registry.Acts() {
					principal := c.Principal
					if principal == "" {
						principal = "-"
					}
					fmt.Fprintf(out, "%-22s %-36s %s\n", c.Act, c.Label, principal)
				}
				return nil
			}

			act, err := domain.ParseActType(args[0])
			if err != nil {
				return err
			}
			c, err := registry.Calculator(act)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s (%s)\n\n", c.Label, c.Act)
			for _, f := range c.Fields {
				req := ""
				if f.Required {
					req = "required"
				}
				hint := f.Default
				if len(f.Choices) > 0 {
					hint = strings.Join(f.Choices, "|")
				}
				fmt.Fprintf(out, "  %-24s %-8s %-9s %s\n", f.Key, f.Kind, req, hint)
			}
			return nil
		},
	}
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [rulebook]",
		Short: "Validate a rulebook file (the embedded rulebook when omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			loader := config.NewRulebookLoader()
			loader.SetLogger(cliLogger(cmd))
			rb, err := loader.Load(path)
			if err != nil {
				return err
			}
			if _, err := acts.NewRegistry(rb); err != nil {
				return err
			}

			name := path
			if name == "" {
				name = "embedded rulebook"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rulebook %s is valid (%s %s, %d acts, %d templates)\n",
				name, rb.Metadata.Jurisdiction, rb.Metadata.Version, len(rb.Acts), len(rb.Templates))
			return nil
		},
	}
}

// sortedKeys returns the keys of m in order
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if domain.IsDefinitionError(err) {
			fmt.Fprintln(os.Stderr, "The rulebook is inconsistent; run 'notarycalc validate' for details.")
		}
		os.Exit(1)
	}
}
