package main

import (
	"fmt"
	"os"

	"github.com/golly-go/lsys/config"
	"github.com/golly-go/lsys/drawing"
	"github.com/golly-go/lsys/observer"
	"github.com/golly-go/lsys/procgui"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	configPath string

	editAxiom      string
	editRules      []string
	editIterations int

	commands = []*cobra.Command{
		{
			Use:   "render",
			Short: "Render the configured figure and print a geometry summary",
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(cmd, func(v *procgui.LSystemView) error { return nil })
			},
		},
		editCommand(),
	}
)

func main() {
	rootCMD := &cobra.Command{
		Use:           "lsys",
		Short:         "Procedural L-system figures",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCMD.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (yaml, json or toml)")
	rootCMD.AddCommand(commands...)

	if err := rootCMD.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}

func editCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Apply edits to the configured figure and show the view following them",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(v *procgui.LSystemView) error {
				if cmd.Flags().Changed("axiom") {
					v.LSystem().SetAxiom(editAxiom)
					summarize(cmd, "axiom", v)
				}

				if len(editRules) > 0 {
					rules, err := config.ParseRules(editRules)
					if err != nil {
						return err
					}
					v.LSystem().SetRules(rules)
					summarize(cmd, "rules", v)
				}

				if cmd.Flags().Changed("iterations") {
					v.Parameters().SetIterations(editIterations)
					summarize(cmd, "iterations", v)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&editAxiom, "axiom", "", "replace the axiom")
	cmd.Flags().StringArrayVar(&editRules, "rule", nil, `replace the rules, e.g. --rule "F -> F+F"`)
	cmd.Flags().IntVar(&editIterations, "iterations", 0, "set the number of iterations")
	return cmd
}

func run(cmd *cobra.Command, fn func(*procgui.LSystemView) error) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	lvl, _ := cfg.Level()
	logrus.SetLevel(lvl)
	observer.SetLogger(logrus.WithField("app", "lsys"))

	l, p, err := cfg.Build()
	if err != nil {
		return err
	}

	view, err := procgui.NewLSystemView(l, p)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := view.Close(); cerr != nil {
			logrus.WithError(cerr).Error("closing view")
		}
	}()

	summarize(cmd, "initial", view)

	return fn(view)
}

func summarize(cmd *cobra.Command, stage string, v *procgui.LSystemView) {
	segs := v.Segments()
	s := v.Parameters().Snapshot()

	fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\n", stage, v.LSystem())
	fmt.Fprintf(cmd.OutOrStdout(), "  iterations=%d delta=%.1f° step=%d segments=%d recomputes=%d\n",
		s.Iterations, drawing.RadToDegree(s.DeltaAngle), s.Step, len(segs), v.Recomputes())

	if min, max, ok := drawing.Bounds(segs); ok {
		fmt.Fprintf(cmd.OutOrStdout(), "  bounds=(%.1f, %.1f)-(%.1f, %.1f)\n", min.X, min.Y, max.X, max.Y)
	}
}
