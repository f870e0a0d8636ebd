package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/davin-cb/bayeslab/compute"
	"github.com/davin-cb/bayeslab/config"
	"github.com/davin-cb/bayeslab/inference"
	"github.com/davin-cb/bayeslab/internal/explorer"
	"github.com/davin-cb/bayeslab/internal/printer"
	"github.com/davin-cb/bayeslab/labeled"
	"github.com/davin-cb/bayeslab/plot"
	_ "github.com/davin-cb/bayeslab/plot/svg"
	_ "github.com/davin-cb/bayeslab/plot/term"
	"github.com/davin-cb/bayeslab/sampledata"
	"github.com/davin-cb/bayeslab/stats"
	"github.com/davin-cb/bayeslab/store"
)

var (
	dataDir     string
	configFile  string
	computeName string

	// demo
	chains int
	draws  int
	seed   int64

	// selection
	varNames   []string
	filterMode string
	coordsSpec []string

	// trace
	combined    bool
	compact     bool
	divergences string

	// forest
	forestKind     string
	forestCombined bool
	hdiProb        float64
	rope           []float64
	quartiles      bool
	showESS        bool
	showRHat       bool
	modelNames     []string

	// dist
	distKind   string
	cumulative bool
	showRug    bool
	quantiles  []float64

	// flatten
	groupList   []string
	groupSet    string
	keyFormat   string
	groupInfo   bool
	indexOrigin int
	asJSON      bool

	// figure output
	outFile     string
	plotBackend string
	plotWidth   int
	plotHeight  int
	colorCycle  []string
	bandwidth   float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "bayeslab",
		Short: "posterior exploration lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&computeName, "compute", "", "compute backend (accel, pure; default auto)")

	demoCmd := &cobra.Command{
		Use:   "demo [dataset]",
		Short: fmt.Sprintf("sample and store a demo posterior (%s)", strings.Join(sampledata.Names(), ", ")),
		Args:  cobra.MaximumNArgs(1),
		RunE:  runDemo,
	}
	demoCmd.Flags().IntVar(&chains, "chains", 4, "number of chains")
	demoCmd.Flags().IntVar(&draws, "draws", 500, "draws per chain")
	demoCmd.Flags().Int64Var(&seed, "seed", 17, "random seed")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  runList,
	}

	summaryCmd := &cobra.Command{
		Use:   "summary [run_id]",
		Short: "summary table with moments, intervals and diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE:  runSummary,
	}
	addSelectionFlags(summaryCmd)
	summaryCmd.Flags().Float64Var(&hdiProb, "hdi-prob", config.DefaultCredibleInterval, "credible interval probability")

	traceCmd := &cobra.Command{
		Use:   "trace [run_id]",
		Short: "per-variable distribution and trace panels",
		Args:  cobra.ExactArgs(1),
		RunE:  runTrace,
	}
	addSelectionFlags(traceCmd)
	addFigureFlags(traceCmd)
	traceCmd.Flags().BoolVar(&combined, "combined", false, "pool chains per slice")
	traceCmd.Flags().BoolVar(&compact, "compact", false, "one row per variable")
	traceCmd.Flags().StringVar(&divergences, "divergences", plot.DivergencesBottom, "divergence rug (bottom, top, off)")

	forestCmd := &cobra.Command{
		Use:   "forest [run_id...]",
		Short: "credible interval forest across one or more runs",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runForest,
	}
	addSelectionFlags(forestCmd)
	addFigureFlags(forestCmd)
	forestCmd.Flags().StringVar(&forestKind, "kind", plot.ForestKindForest, "forest or ridge")
	forestCmd.Flags().BoolVar(&forestCombined, "combined", true, "pool chains per row")
	forestCmd.Flags().Float64Var(&hdiProb, "hdi-prob", config.DefaultCredibleInterval, "credible interval probability")
	forestCmd.Flags().Float64SliceVar(&rope, "rope", nil, "rope band, lo,hi")
	forestCmd.Flags().BoolVar(&quartiles, "quartiles", true, "shade the interquartile range")
	forestCmd.Flags().BoolVar(&showESS, "ess", false, "add an effective sample size panel")
	forestCmd.Flags().BoolVar(&showRHat, "r-hat", false, "add a split r-hat panel")
	forestCmd.Flags().StringSliceVar(&modelNames, "model-names", nil, "labels for the runs")

	distCmd := &cobra.Command{
		Use:   "dist [run_id] [variable]",
		Short: "distribution of one variable, pooled over chains",
		Args:  cobra.ExactArgs(2),
		RunE:  runDist,
	}
	addFigureFlags(distCmd)
	distCmd.Flags().StringVar(&distKind, "kind", plot.DistAuto, "auto, kde or hist")
	distCmd.Flags().BoolVar(&cumulative, "cumulative", false, "cumulative distribution")
	distCmd.Flags().BoolVar(&showRug, "rug", false, "draw a sample rug")
	distCmd.Flags().Float64SliceVar(&quantiles, "quantiles", nil, "reference quantiles in (0,1)")

	flattenCmd := &cobra.Command{
		Use:   "flatten [run_id]",
		Short: "flatten groups to columnar csv or json",
		Args:  cobra.ExactArgs(1),
		RunE:  runFlatten,
	}
	addSelectionFlags(flattenCmd)
	flattenCmd.Flags().StringSliceVar(&groupList, "groups", nil, "groups to flatten (default posterior, sample_stats)")
	flattenCmd.Flags().StringVar(&groupSet, "group-set", "", "predefined group set (posterior_groups, prior_groups)")
	flattenCmd.Flags().StringVar(&keyFormat, "format", "", "key format (brackets, underscore, cds)")
	flattenCmd.Flags().BoolVar(&groupInfo, "group-info", false, "append group suffixes to keys")
	flattenCmd.Flags().IntVar(&indexOrigin, "index-origin", config.DefaultIndexOrigin, "first index label, 0 or 1")
	flattenCmd.Flags().BoolVar(&asJSON, "json", false, "emit json instead of csv")
	flattenCmd.Flags().StringVarP(&outFile, "output", "o", "", "write to file instead of stdout")

	exploreCmd := &cobra.Command{
		Use:   "explore [run_id]",
		Short: "interactive posterior browser",
		Args:  cobra.ExactArgs(1),
		RunE:  runExplore,
	}

	deleteCmd := &cobra.Command{
		Use:   "delete [run_id]",
		Short: "delete a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  runDelete,
	}

	backendsCmd := &cobra.Command{
		Use:   "backends",
		Short: "list plot and compute backends",
		RunE:  runBackends,
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "print the effective configuration",
		RunE:  runConfig,
	}

	rootCmd.AddCommand(demoCmd, listCmd, summaryCmd, traceCmd, forestCmd, distCmd, flattenCmd, exploreCmd, deleteCmd, backendsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSelectionFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&varNames, "var-names", nil, "variables to include, ~name excludes")
	cmd.Flags().StringVar(&filterMode, "filter", "", "name matching mode (like, regex)")
	cmd.Flags().StringSliceVar(&coordsSpec, "coords", nil, "coordinate subset, dim=label;label")
}

func addFigureFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&outFile, "output", "o", "", "write figure to file (svg)")
	cmd.Flags().StringVar(&plotBackend, "plot-backend", "", "plot backend for stdout output")
	cmd.Flags().IntVar(&plotWidth, "width", 0, "figure width hint in character cells")
	cmd.Flags().IntVar(&plotHeight, "height", 0, "figure height hint in character cells")
	cmd.Flags().StringSliceVar(&colorCycle, "colors", nil, "series color cycle")
	cmd.Flags().Float64Var(&bandwidth, "bw", 0, "kde bandwidth factor")
}

// loadConfig overlays the config file onto defaults, then lets explicitly
// set flags win over both.
func loadConfig(cmd *cobra.Command) (*config.Params, error) {
	cfg := config.Default()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !cmd.Flags().Changed("data") && cfg.DataDir != "" {
		dataDir = cfg.DataDir
	}
	if !cmd.Flags().Changed("compute") {
		computeName = cfg.ComputeBackend
	}
	overlay := func(name string, apply func()) {
		if f := cmd.Flags().Lookup(name); f != nil && !f.Changed {
			apply()
		}
	}
	overlay("hdi-prob", func() { hdiProb = cfg.CredibleInterval })
	overlay("index-origin", func() { indexOrigin = cfg.IndexOrigin })
	overlay("width", func() { plotWidth = cfg.PlotWidth })
	overlay("height", func() { plotHeight = cfg.PlotHeight })
	overlay("plot-backend", func() { plotBackend = cfg.PlotBackend })
	overlay("colors", func() { colorCycle = cfg.ColorCycle })
	return cfg, nil
}

func openStore() (*store.Store, error) {
	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return nil, err
	}
	return st, nil
}

func loadRun(id string) (*inference.Data, error) {
	st, err := openStore()
	if err != nil {
		return nil, err
	}
	d, _, err := st.Load(id)
	return d, err
}

func parseCoords(specs []string) (map[string][]string, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	coords := make(map[string][]string, len(specs))
	for _, spec := range specs {
		dim, labels, ok := strings.Cut(spec, "=")
		if !ok || dim == "" || labels == "" {
			return nil, fmt.Errorf("invalid coords %q (want dim=label;label)", spec)
		}
		coords[dim] = append(coords[dim], strings.Split(labels, ";")...)
	}
	return coords, nil
}

// renderFigure writes the figure to stdout with the configured backend, or
// to a file as SVG when -o is given.
func renderFigure(fig *plot.Figure) error {
	if plotWidth > 0 {
		fig.Width = plotWidth
	}
	if plotHeight > 0 {
		fig.Height = plotHeight
	}
	if outFile != "" {
		backend := plotBackend
		if backend == "" || backend == "term" {
			backend = "svg"
		}
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		if err := plot.Render(fig, backend, f); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		printer.Success("wrote %s", outFile)
		return nil
	}
	backend := plotBackend
	if backend == "" {
		backend = "term"
	}
	return plot.Render(fig, backend, os.Stdout)
}

func runDemo(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(cmd); err != nil {
		return err
	}
	name := "centered_eight"
	if len(args) > 0 {
		name = args[0]
	}
	printer.Step("sampling %s: %d chains, %d draws", name, chains, draws)
	d, err := sampledata.Generate(name, seed, chains, draws)
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	id, err := st.Save(name, d)
	if err != nil {
		return err
	}
	printer.Success("saved run %s", id)
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(cmd); err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		printer.Info("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSOURCE\tCREATED\tGROUPS\tPOSTERIOR VARS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n",
			run.ID,
			run.Source,
			run.Created.Format("2006-01-02 15:04:05"),
			len(run.Groups),
			len(run.Groups[inference.GroupPosterior]),
		)
	}
	return w.Flush()
}

func runSummary(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(cmd); err != nil {
		return err
	}
	d, err := loadRun(args[0])
	if err != nil {
		return err
	}
	posterior, ok := d.Posterior()
	if !ok {
		return fmt.Errorf("run %s has no posterior group", args[0])
	}
	coords, err := parseCoords(coordsSpec)
	if err != nil {
		return err
	}
	if coords != nil {
		if posterior, err = posterior.Sel(coords); err != nil {
			return err
		}
	}
	mode, err := labeled.ParseFilterMode(filterMode)
	if err != nil {
		return err
	}
	backend, err := compute.Select(computeName)
	if err != nil {
		return err
	}
	rows, warnings, err := stats.Summary(posterior, stats.SummaryOptions{
		VarNames:         varNames,
		Filter:           mode,
		CredibleInterval: hdiProb,
		Backend:          backend,
	})
	if err != nil {
		return err
	}
	printer.Warnings(warnings)

	table := tablewriter.NewTable(os.Stdout)
	table.Header("variable", "mean", "sd", "hdi lo", "hdi hi", "ess", "r_hat")
	for _, r := range rows {
		table.Append([]string{
			r.Name,
			fmt.Sprintf("%.3f", r.Mean),
			fmt.Sprintf("%.3f", r.SD),
			fmt.Sprintf("%.3f", r.HDILo),
			fmt.Sprintf("%.3f", r.HDIHi),
			fmt.Sprintf("%.0f", r.ESS),
			fmt.Sprintf("%.3f", r.RHat),
		})
	}
	return table.Render()
}

func runTrace(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(cmd); err != nil {
		return err
	}
	d, err := loadRun(args[0])
	if err != nil {
		return err
	}
	coords, err := parseCoords(coordsSpec)
	if err != nil {
		return err
	}
	mode, err := labeled.ParseFilterMode(filterMode)
	if err != nil {
		return err
	}
	fig, warnings, err := plot.Trace(d, plot.TraceOptions{
		VarNames:        varNames,
		Filter:          mode,
		Coords:          coords,
		Combined:        combined,
		Compact:         compact,
		Divergences:     divergences,
		BandwidthFactor: bandwidth,
		Colors:          colorCycle,
	})
	if err != nil {
		return err
	}
	printer.Warnings(warnings)
	if fig.Title == "" {
		fig.Title = args[0]
	}
	return renderFigure(fig)
}

func runForest(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(cmd); err != nil {
		return err
	}
	models := make([]*inference.Data, len(args))
	for i, id := range args {
		d, err := loadRun(id)
		if err != nil {
			return err
		}
		models[i] = d
	}
	coords, err := parseCoords(coordsSpec)
	if err != nil {
		return err
	}
	mode, err := labeled.ParseFilterMode(filterMode)
	if err != nil {
		return err
	}
	backend, err := compute.Select(computeName)
	if err != nil {
		return err
	}
	names := modelNames
	if len(names) == 0 && len(args) > 1 {
		names = args
	}
	fig, warnings, err := plot.Forest(models, plot.ForestOptions{
		VarNames:         varNames,
		Filter:           mode,
		Coords:           coords,
		Kind:             forestKind,
		ModelNames:       names,
		Combined:         forestCombined,
		CredibleInterval: hdiProb,
		Quartiles:        quartiles,
		ESS:              showESS,
		RHat:             showRHat,
		Rope:             rope,
		BandwidthFactor:  bandwidth,
		Colors:           colorCycle,
		Backend:          backend,
	})
	if err != nil {
		return err
	}
	printer.Warnings(warnings)
	return renderFigure(fig)
}

func runDist(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(cmd); err != nil {
		return err
	}
	d, err := loadRun(args[0])
	if err != nil {
		return err
	}
	posterior, ok := d.Posterior()
	if !ok {
		return fmt.Errorf("run %s has no posterior group", args[0])
	}
	name := args[1]
	a, ok := posterior.Get(name)
	if !ok {
		return fmt.Errorf("%w: %s", labeled.ErrVarNotFound, name)
	}
	color := ""
	if len(colorCycle) > 0 {
		color = colorCycle[0]
	}
	fig, err := plot.Dist(a.Values(), plot.DistOptions{
		Kind:            distKind,
		Cumulative:      cumulative,
		Rug:             showRug,
		Quantiles:       quantiles,
		BandwidthFactor: bandwidth,
		Label:           name,
		Color:           color,
	})
	if err != nil {
		return err
	}
	fig.Title = args[0]
	return renderFigure(fig)
}

func runFlatten(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(cmd); err != nil {
		return err
	}
	d, err := loadRun(args[0])
	if err != nil {
		return err
	}
	mode, err := labeled.ParseFilterMode(filterMode)
	if err != nil {
		return err
	}
	cols, warnings, err := inference.Flatten(d, inference.FlattenOptions{
		VarNames:    varNames,
		Filter:      mode,
		Groups:      groupList,
		GroupSet:    groupSet,
		FormatName:  keyFormat,
		GroupInfo:   groupInfo,
		IndexOrigin: indexOrigin,
	})
	if err != nil {
		return err
	}
	printer.Warnings(warnings)

	var w io.Writer = os.Stdout
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	if asJSON {
		data, err := json.MarshalIndent(cols, "", "  ")
		if err != nil {
			return err
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return err
		}
	} else if err := cols.WriteCSV(w); err != nil {
		return err
	}
	if outFile != "" {
		printer.Success("wrote %s: %d columns, %d rows", outFile, cols.Len(), cols.Rows())
	}
	return nil
}

func runExplore(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(cmd); err != nil {
		return err
	}
	d, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return explorer.Run(d, args[0])
}

func runDelete(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(cmd); err != nil {
		return err
	}
	st := store.New(dataDir)
	if err := st.Delete(args[0]); err != nil {
		return err
	}
	printer.Success("deleted %s", args[0])
	return nil
}

func runBackends(cmd *cobra.Command, args []string) error {
	fmt.Println("plot:")
	for _, name := range plot.Names() {
		fmt.Printf("  %s\n", name)
	}
	fmt.Println("compute:")
	for _, name := range compute.Names() {
		fmt.Printf("  %s\n", name)
	}
	return nil
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	fmt.Print(string(out))
	return nil
}
