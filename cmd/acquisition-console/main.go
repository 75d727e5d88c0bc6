package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"acquisition-console/internal/models"
	"acquisition-console/internal/report"
	"acquisition-console/pkg/registry"
)

var args struct {
	configPath string
	industry   string
	catalogOut string
	catalogIn  string
	facetID    string
	field      string
	value      string
}

var rootCmd = &cobra.Command{
	Use:           "acquisition-console",
	Short:         "Acquisition analysis console",
	Long:          "Collects a two-company comparison, submits it to the prediction service and serves the normalized analysis.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the console API",
	RunE:  runServe,
}

var demoCmd = &cobra.Command{
	Use:   "demo <facet>",
	Short: "Preview one facet with the built-in example company",
	Args:  cobra.ExactArgs(1),
	RunE:  runDemo,
}

var lookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "Query the competitor and acquisition lookup",
}

var competitorsCmd = &cobra.Command{
	Use:   "competitors <company>",
	Short: "List competitors of a company",
	Args:  cobra.ExactArgs(1),
	RunE:  runCompetitors,
}

var acquisitionsCmd = &cobra.Command{
	Use:   "acquisitions <acquirer>",
	Short: "List past acquisitions of a company",
	Args:  cobra.ExactArgs(1),
	RunE:  runAcquisitions,
}

var facetsCmd = &cobra.Command{
	Use:   "facets",
	Short: "Inspect the dashboard facet catalog",
}

var facetsValidateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Validate a facet catalog file, or the built-in catalog",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runFacetsValidate,
}

var facetsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the built-in catalog to a file for editing",
	RunE:  runFacetsExport,
}

var facetsUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update one field of a catalog entry in place",
	Long: `Updates the name, description or category of a facet entry and writes the
catalog back to --path after validating it.

  acquisition-console facets update --path configs/facets.json --id risk --field name --value "Risk Review"`,
	RunE: runFacetsUpdate,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&args.configPath, "config", "c", "", "config file (default configs/config.yaml)")
	competitorsCmd.Flags().StringVar(&args.industry, "industry", "", "restrict competitors to an industry")
	facetsExportCmd.Flags().StringVarP(&args.catalogOut, "out", "o", "configs/facets.json", "output path")
	facetsUpdateCmd.Flags().StringVar(&args.catalogIn, "path", "configs/facets.json", "catalog file to edit")
	facetsUpdateCmd.Flags().StringVar(&args.facetID, "id", "", "facet id")
	facetsUpdateCmd.Flags().StringVar(&args.field, "field", "", "field to update (name, description, category)")
	facetsUpdateCmd.Flags().StringVar(&args.value, "value", "", "new value")
	for _, name := range []string{"id", "field", "value"} {
		_ = facetsUpdateCmd.MarkFlagRequired(name)
	}

	lookupCmd.AddCommand(competitorsCmd, acquisitionsCmd)
	facetsCmd.AddCommand(facetsValidateCmd, facetsExportCmd, facetsUpdateCmd)
	rootCmd.AddCommand(serveCmd, demoCmd, lookupCmd, facetsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(args.configPath)
	if err != nil {
		return nil, err
	}
	return newApp(cmd.Context(), cfg)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cmd.SetContext(ctx)

	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	return a.server().Run(ctx)
}

func runDemo(cmd *cobra.Command, argv []string) error {
	facet, ok := models.ParseFacet(argv[0])
	if !ok {
		return fmt.Errorf("unknown facet %q", argv[0])
	}

	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.controller.RunFacetDemo(cmd.Context(), facet); err != nil {
		if msg := a.controller.State().PendingError; msg != "" {
			return fmt.Errorf("%s", msg)
		}
		return err
	}

	raw, _ := a.controller.FacetResult(string(facet))
	normalized := a.normalizer.Normalize(raw)
	insight, err := report.Insight(facet, normalized)
	if err != nil {
		return err
	}
	projection, err := normalized.Facet(facet)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), insight)
	return printJSON(cmd, projection)
}

func runCompetitors(cmd *cobra.Command, argv []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	return printJSON(cmd, a.lookup.Competitors(cmd.Context(), argv[0], args.industry))
}

func runAcquisitions(cmd *cobra.Command, argv []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	return printJSON(cmd, a.lookup.AcquisitionTargets(cmd.Context(), argv[0]))
}

func runFacetsValidate(cmd *cobra.Command, argv []string) error {
	path := ""
	if len(argv) == 1 {
		path = argv[0]
	}
	reg, err := registry.Load(path)
	if err != nil {
		return fmt.Errorf("catalog validation failed: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Catalog validation passed. Found %d facets.\n", len(reg.Facets))
	return nil
}

func runFacetsExport(cmd *cobra.Command, _ []string) error {
	reg, err := registry.Default()
	if err != nil {
		return err
	}
	if err := registry.Save(reg, args.catalogOut); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", args.catalogOut)
	return nil
}

func runFacetsUpdate(cmd *cobra.Command, _ []string) error {
	reg, err := registry.Load(args.catalogIn)
	if err != nil {
		return err
	}
	if err := reg.Update(args.facetID, args.field, args.value); err != nil {
		return err
	}
	if err := reg.Validate(); err != nil {
		return fmt.Errorf("updated catalog is invalid: %w", err)
	}
	if err := registry.Save(reg, args.catalogIn); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated %s.%s in %s\n", args.facetID, args.field, args.catalogIn)
	return nil
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
