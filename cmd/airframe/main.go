package main

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/airframe/internal/aero"
	"github.com/san-kum/airframe/internal/component"
	"github.com/san-kum/airframe/internal/config"
	"github.com/san-kum/airframe/internal/inspect"
	"github.com/san-kum/airframe/internal/report"
	"github.com/san-kum/airframe/internal/shape"
	"github.com/san-kum/airframe/internal/solid"
	"github.com/san-kum/airframe/internal/vehicle"
)

var (
	configFile string
	dataDir    string
	stage      int
	// profile
	samples int
	svgOut  string
	// clip
	clipShape  string
	foreRadius float64
	aftRadius  float64
	clipLen    float64
	clipParam  float64
	// mesh
	cells       int
	meshSamples int
	// snapshot
	asJSON bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "airframe",
		Short:        "rocket component tree workbench",
		SilenceUsage: true,
		RunE:         runDemo,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "snapshot directory (overrides config)")
	rootCmd.PersistentFlags().IntVar(&stage, "stage", -1, "fly only this stage (-1 for all)")

	demoCmd := &cobra.Command{
		Use:   "demo",
		Short: "build the sample rocket and print a summary",
		RunE:  runDemo,
	}

	treeCmd := &cobra.Command{
		Use:   "tree",
		Short: "print the component tree with instance positions",
		RunE:  printTree,
	}

	massCmd := &cobra.Command{
		Use:   "mass",
		Short: "table of effective mass, cg and drag per component",
		RunE:  printMass,
	}

	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "plot the outer radius along the airframe",
		RunE:  plotProfile,
	}
	profileCmd.Flags().IntVar(&samples, "samples", 80, "radius samples")
	profileCmd.Flags().StringVar(&svgOut, "svg", "", "also write the side outline to this svg file")

	clipCmd := &cobra.Command{
		Use:   "clip",
		Short: "solve the clip length of a transition shape",
		RunE:  solveClip,
	}
	clipCmd.Flags().StringVar(&clipShape, "shape", "ogive", "shape")
	clipCmd.Flags().Float64Var(&foreRadius, "fore", 0.0124, "fore radius")
	clipCmd.Flags().Float64Var(&aftRadius, "aft", 0.0205, "aft radius")
	clipCmd.Flags().Float64Var(&clipLen, "length", 0.05, "transition length")
	clipCmd.Flags().Float64Var(&clipParam, "param", 1, "shape parameter")

	meshCmd := &cobra.Command{
		Use:   "mesh",
		Short: "revolve and tessellate the airframe",
		RunE:  meshAirframe,
	}
	meshCmd.Flags().IntVar(&cells, "cells", solid.DefaultCells, "marching cubes cells on the longest side")
	meshCmd.Flags().IntVar(&meshSamples, "samples", solid.DefaultSamples, "profile samples")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [label]",
		Short: "store a snapshot of the sample rocket",
		Args:  cobra.MaximumNArgs(1),
		RunE:  takeSnapshot,
	}
	snapshotCmd.Flags().BoolVar(&asJSON, "json", false, "print to stdout instead of storing")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored snapshots",
		RunE:  listSnapshots,
	}

	showCmd := &cobra.Command{
		Use:   "show [id]",
		Short: "print the rows of a stored snapshot",
		Args:  cobra.ExactArgs(1),
		RunE:  showSnapshot,
	}

	inspectCmd := &cobra.Command{
		Use:   "inspect",
		Short: "interactive override inspector",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup()
			if err != nil {
				return err
			}
			return inspect.Run(env.tree)
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [kind]",
		Short: "list available presets for a component kind",
		Args:  cobra.ExactArgs(1),
		RunE:  listPresets,
	}

	rootCmd.AddCommand(demoCmd, treeCmd, massCmd, profileCmd, clipCmd, meshCmd, snapshotCmd, listCmd, showCmd, inspectCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

type environment struct {
	cfg    *config.Config
	log    *slog.Logger
	tree   *component.Tree
	sample *vehicle.Sample
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	return cfg, nil
}

// setup loads configuration and builds the sample rocket.
func setup() (*environment, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	lvl, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))

	tree := component.New(nil,
		component.WithLogger(logger),
		component.WithDefaultMach(cfg.DefaultMach),
		component.WithRaceDetection(cfg.RaceDetection),
		component.WithSolver(aero.NewFrictionSolver(cfg.AeroAtmosphere())),
	)
	cat, err := cfg.Catalog()
	if err != nil {
		return nil, err
	}
	s, err := vehicle.BuildSample(tree, cat)
	if err != nil {
		return nil, fmt.Errorf("build sample: %w", err)
	}
	if stage >= 0 {
		fc := tree.Configuration()
		fc.SetOnlyStage(stage, len(tree.Stages()))
		tree.SetConfiguration(fc)
	}
	logger.Debug("sample built", "components", tree.Len(), "mod", tree.Bus().ModIDs().Mod)
	return &environment{cfg: cfg, log: logger, tree: tree, sample: s}, nil
}

func runDemo(cmd *cobra.Command, args []string) error {
	env, err := setup()
	if err != nil {
		return err
	}
	root := env.tree.Root()
	fmt.Println(root.DebugString())
	fmt.Println()
	fmt.Print(root.DebugTree())
	fmt.Println()

	s := env.sample
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SECTION\tMASS\tCG\tLENGTH")
	for _, c := range []*component.Component{root, s.Sustainer, s.Booster} {
		fmt.Fprintf(w, "%s\t%.4f kg\t%.4f m\t%.4f m\n", c.Name(), c.SectionMass(), c.CG().X, c.Length())
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\noverride payload bay mass to 0.25 kg for its whole subtree\n")
	if err := env.tree.Batch(func() error {
		if err := s.Payload.SetOverridden(component.Mass, true); err != nil {
			return err
		}
		if err := s.Payload.SetSubtreeOverridden(component.Mass, true); err != nil {
			return err
		}
		return s.Payload.SetOverrideMass(0.25)
	}); err != nil {
		return err
	}
	owner := s.Altimeter.OverriddenBy(component.Mass)
	fmt.Printf("altimeter mass owner: %v, payload section %.4f kg, rocket %.4f kg\n",
		owner, s.Payload.SectionMass(), root.SectionMass())
	return nil
}

func printTree(cmd *cobra.Command, args []string) error {
	env, err := setup()
	if err != nil {
		return err
	}
	fmt.Print(env.tree.Root().DebugTree())
	if errs := env.tree.Validate(); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "invalid: %s\n", e)
		}
		return fmt.Errorf("tree has %d problems", len(errs))
	}
	return nil
}

func printMass(cmd *cobra.Command, args []string) error {
	env, err := setup()
	if err != nil {
		return err
	}
	snap, err := env.tree.Snapshot()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "COMPONENT\tKIND\tN\tX\tMASS\tSECTION\tCG\tCD\tOWNERS")
	masses := make([]float64, 0, len(snap.Rows))
	for _, r := range snap.Rows {
		fmt.Fprintf(w, "%s%s\t%s\t%d\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t%s\n",
			strings.Repeat("  ", r.Depth), r.Name, r.Kind, r.Instances, r.AbsoluteX, r.Mass, r.SectionMass, r.CGX, r.CD,
			owners(r))
		masses = append(masses, r.Mass)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(asciigraph.Plot(masses,
		asciigraph.Height(8),
		asciigraph.Width(len(masses)*4),
		asciigraph.Caption("component mass (kg) in tree order"),
	))
	return nil
}

func owners(r component.Row) string {
	var out []string
	for _, o := range []struct{ q, name string }{{"mass", r.MassOwner}, {"cg", r.CGOwner}, {"cd", r.CDOwner}} {
		if o.name != "" {
			out = append(out, o.q+"="+o.name)
		}
	}
	return strings.Join(out, " ")
}

// outerRadius is the radius of the external body at absolute x, or 0 past
// either end.
func outerRadius(root *component.Component, x float64) float64 {
	r := 0.0
	_ = root.Walk(false, func(c *component.Component) error {
		if !c.Aerodynamic() || c.Kind() == component.KindFinSet || !c.Active() {
			return nil
		}
		front := c.Locations()[0].X
		if x < front || x > front+c.Length() {
			return nil
		}
		r = math.Max(r, c.Radius(x-front))
		return nil
	})
	return r
}

func plotProfile(cmd *cobra.Command, args []string) error {
	env, err := setup()
	if err != nil {
		return err
	}
	root := env.tree.Root()
	length := root.Length()
	if length <= 0 || samples < 2 {
		return fmt.Errorf("nothing to plot")
	}
	xs := make([]float64, samples)
	rs := make([]float64, samples)
	radii := make([]float64, samples)
	for i := range radii {
		xs[i] = length * float64(i) / float64(samples-1)
		rs[i] = outerRadius(root, xs[i])
		radii[i] = rs[i] * 1000
	}
	if svgOut != "" {
		svg := report.ProfileSVG(xs, rs, 800, 200, "#00ccff")
		if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
			return err
		}
		env.log.Info("outline written", "path", svgOut)
	}
	fmt.Println(asciigraph.Plot(radii,
		asciigraph.Height(10),
		asciigraph.Width(samples),
		asciigraph.Caption(fmt.Sprintf("outer radius (mm) over %.3f m", length)),
	))
	return nil
}

func solveClip(cmd *cobra.Command, args []string) error {
	s, err := shape.Parse(clipShape)
	if err != nil {
		return err
	}
	if !s.Clippable() {
		return fmt.Errorf("shape %s cannot be clipped", s)
	}
	param := s.ClampParameter(clipParam)
	c := shape.ClipLength(s, foreRadius, aftRadius, clipLen, param)
	fmt.Printf("shape: %s (param %.3f)\n", s.Name(), param)
	fmt.Printf("radii: %.4f -> %.4f over %.4f m\n", foreRadius, aftRadius, clipLen)
	fmt.Printf("clip length: %.5f m\n", c)

	p := shape.Profile{Shape: s, Param: param, ForeRadius: foreRadius, AftRadius: aftRadius, Length: clipLen, Clipped: true}
	_, rs := p.Sample(40)
	for i := range rs {
		rs[i] *= 1000
	}
	fmt.Println(asciigraph.Plot(rs, asciigraph.Height(8), asciigraph.Caption("clipped radius (mm)")))
	return nil
}

func meshAirframe(cmd *cobra.Command, args []string) error {
	env, err := setup()
	if err != nil {
		return err
	}
	s, err := solid.Airframe(env.tree.Root(), meshSamples)
	if err != nil {
		return err
	}
	m := solid.Tessellate(s, cells)
	fmt.Printf("triangles: %d\n", m.Triangles)
	fmt.Printf("surface:   %.5f m^2\n", m.Area)
	fmt.Printf("volume:    %.7f m^3\n", m.Volume)
	fmt.Printf("bounds:    x %.4f..%.4f  y %.4f..%.4f  z %.4f..%.4f\n",
		m.Min[0], m.Max[0], m.Min[1], m.Max[1], m.Min[2], m.Max[2])
	return nil
}

func takeSnapshot(cmd *cobra.Command, args []string) error {
	env, err := setup()
	if err != nil {
		return err
	}
	snap, err := env.tree.Snapshot()
	if err != nil {
		return err
	}
	if asJSON {
		return report.WriteJSON(os.Stdout, snap)
	}

	label := "sample"
	if len(args) > 0 {
		label = args[0]
	}
	st := report.New(env.cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}
	id, err := st.Save(label, snap)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	env.log.Info("snapshot stored", "id", id, "rows", len(snap.Rows))
	fmt.Println(id)
	return nil
}

func listSnapshots(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	list, err := report.New(cfg.DataDir).List()
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println("no snapshots found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLABEL\tTIME\tPARTS\tMASS\tCG\tCD")
	for _, m := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.4f\t%.4f\t%.4f\n",
			m.ID, m.Label, m.Timestamp.Format("2006-01-02 15:04:05"), m.Components, m.Mass, m.CGX, m.CD)
	}
	return w.Flush()
}

func showSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st := report.New(cfg.DataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	rows, err := st.LoadRows(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("snapshot: %s (%s)\n\n", meta.ID, meta.Timestamp.Format("2006-01-02 15:04:05"))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "COMPONENT\tMETHOD\tOFFSET\tX\tSECTION\tPRESET")
	for _, r := range rows {
		fmt.Fprintf(w, "%*s%s\t%s\t%.4f\t%.4f\t%.4f\t%s\n",
			2*r.Depth, "", r.Name, r.Method, r.Offset, r.AbsoluteX, r.SectionMass, r.Preset)
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	kind, err := component.ParseKind(args[0])
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cat, err := cfg.Catalog()
	if err != nil {
		return err
	}
	names := cat.List(kind)
	if len(names) == 0 {
		fmt.Printf("no presets for kind: %s\n", kind)
		return nil
	}
	fmt.Printf("presets for %s:\n", kind.DisplayName())
	for _, n := range names {
		fmt.Printf("  %s\n", n)
	}
	return nil
}
