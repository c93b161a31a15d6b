package main

import (
	"fmt"
	"strings"

	"github.com/phanxgames/motion"
	"github.com/phanxgames/motion/prom"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const defaultMaxFrames = 3600

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE...",
		Short: "Parse and validate variant files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				v, err := motion.LoadVariantsFile(path)
				if err != nil {
					a.log.Error().Err(err).Str("file", path).Msg("invalid variants")
					return err
				}
				a.log.Debug().Str("file", path).Int("sets", len(v.Sets)).Msg("variants loaded")
				fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%s)\n", path, strings.Join(v.Names(), ", "))
			}
			return nil
		},
	}
}

func newMergeCmd(a *app) *cobra.Command {
	var event, reverse bool
	cmd := &cobra.Command{
		Use:   "merge FILE FROM TO",
		Short: "Print the keyframes played when animating from one variant to another",
		Long: `Print the keyframes played when animating from one variant to another.

With --event, TO is treated as a momentary (hover or press) variant over the
steady state FROM, and --reverse prints the keyframes played when it ends.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := motion.LoadVariantsFile(args[0])
			if err != nil {
				return err
			}
			from, err := v.Set(args[1])
			if err != nil {
				return err
			}
			to, err := v.Set(args[2])
			if err != nil {
				return err
			}

			var out *motion.KeyframeSet
			if event {
				out = motion.EventKeyframes(from, to, v.Transition, reverse)
			} else {
				out = motion.KeyframesFromTo(from, to, v.Transition)
			}
			a.log.Debug().Strs("properties", out.Keys()).Msg("merged")

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(out); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			return enc.Close()
		},
	}
	cmd.Flags().BoolVar(&event, "event", false, "treat TO as a hover/press variant")
	cmd.Flags().BoolVar(&reverse, "reverse", false, "with --event, print the end-of-event keyframes")
	return cmd
}

func newSimulateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate SCRIPT",
		Short: "Play a presence script frame by frame and print its transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			motion.SetDebugMode(a.v.GetBool("debug"))
			defer motion.SetDebugMode(false)

			script, err := motion.LoadScriptFile(args[0])
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			sink, err := prom.NewSink(reg)
			if err != nil {
				return err
			}
			runner, err := motion.NewScriptRunner(script, motion.ScriptOptions{
				Logger: &a.log,
				Sink:   sink,
			})
			if err != nil {
				return err
			}

			maxFrames := a.v.GetInt("max-frames")
			if err := runner.Run(maxFrames); err != nil {
				return err
			}
			a.log.Info().Int("frames", runner.Frame()).Msg("script finished")

			w := cmd.OutOrStdout()
			for _, line := range runner.Transcript() {
				fmt.Fprintln(w, line)
			}
			for _, el := range runner.Rendered() {
				n, ok := runner.Node(el.Key)
				if !ok {
					continue
				}
				props := make([]string, 0)
				for _, name := range n.Properties() {
					v, _ := n.Property(name)
					props = append(props, fmt.Sprintf("%s=%v", name, v))
				}
				fmt.Fprintf(w, "node %s %s\n", el.Key, strings.Join(props, " "))
			}

			if !a.v.GetBool("metrics") {
				return nil
			}
			families, err := reg.Gather()
			if err != nil {
				return fmt.Errorf("gather metrics: %w", err)
			}
			for _, mf := range families {
				if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
					return fmt.Errorf("write metrics: %w", err)
				}
			}
			return nil
		},
	}
	cmd.Flags().Int("max-frames", defaultMaxFrames, "fail if the script runs longer than this many frames")
	cmd.Flags().Bool("metrics", false, "print lifecycle metrics after the transcript")
	_ = a.v.BindPFlag("max-frames", cmd.Flags().Lookup("max-frames"))
	_ = a.v.BindPFlag("metrics", cmd.Flags().Lookup("metrics"))
	return cmd
}
