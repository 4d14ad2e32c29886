package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/charlie0129/calc/pkg/calculator"
	"github.com/charlie0129/calc/pkg/config"
	"github.com/charlie0129/calc/pkg/keymap"
	"github.com/charlie0129/calc/pkg/tui"
	"github.com/charlie0129/calc/pkg/version"
)

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("%s %s\n", version.Version, version.GitCommit)
		},
	}
}

func NewTUICommand() *cobra.Command {
	return &cobra.Command{
		Use:     "tui",
		Short:   "Open the interactive calculator",
		GroupID: gBasic,
		Long: `Open the interactive calculator.

Type digits, '.', '+', '-', '*', '/' and Enter, or click the buttons.
Escape clears everything, Delete clears the current entry and Backspace
removes the last digit. Tab switches to the next theme, q quits.`,
		Args: cobra.NoArgs,
		RunE: runTUI,
	}
}

func runTUI(_ *cobra.Command, _ []string) error {
	conf, err := openConfig()
	if err != nil {
		return err
	}
	defer closeConfig(conf)

	logrus.WithFields(conf.LogrusFields()).Debug("config loaded")

	return tui.Run(conf)
}

func NewEvalCommand() *cobra.Command {
	trace := false

	cmd := &cobra.Command{
		Use:     "eval <keys...>",
		Short:   "Evaluate a key sequence",
		GroupID: gBasic,
		Long: `Evaluate a key sequence and print the display.

Keys can be written compactly ("12+3=") or as separate key and action names
("1 2 + 3 Enter", "digit:9 operator:divide digit:0 evaluate"). Calculations
are chained left to right without operator precedence, so "2+3*4=" gives 20.`,
		Example: `  calc eval 5+3+2=
  calc eval 7 / 0 =
  calc eval --trace 0.1+0.2=`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var actions []keymap.Action
			for _, arg := range args {
				a, err := keymap.ParseSequence(arg)
				if err != nil {
					return fmt.Errorf("invalid key sequence %q: %w", arg, err)
				}
				actions = append(actions, a...)
			}

			eval(cmd.OutOrStdout(), actions, trace)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&trace, "trace", "t", false, "print the display after every key")

	return cmd
}

func eval(w io.Writer, actions []keymap.Action, trace bool) {
	e := calculator.New()
	for _, a := range actions {
		keymap.Apply(e, a)
		if trace {
			fmt.Fprintf(w, "%-6s %s\n", a.Label(), e.Display())
		}
	}
	fmt.Fprintln(w, displayText(e.Display()))
}

func displayText(display string) string {
	if display == calculator.ErrorDisplay {
		return color.New(color.Bold, color.FgRed).Sprint(display)
	}
	return bold("%s", display)
}

func NewThemeCommand() *cobra.Command {
	list := false

	cmd := &cobra.Command{
		Use:     "theme [name]",
		Short:   "Show or change the calculator theme",
		GroupID: gBasic,
		Long: `Show or change the calculator theme.

Without arguments the current theme is printed. The theme is saved in the
config file and used the next time the calculator opens.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				for _, t := range config.Themes {
					fmt.Fprintln(cmd.OutOrStdout(), t)
				}
				return nil
			}

			conf, err := openConfig()
			if err != nil {
				return err
			}
			defer closeConfig(conf)

			if len(args) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "theme: %s\n", bold("%s", conf.Theme()))
				return nil
			}

			t, err := config.ParseTheme(args[0])
			if err != nil {
				return err
			}
			conf.SetTheme(t)
			if err := conf.Save(); err != nil {
				return fmt.Errorf("failed to save theme: %w", err)
			}
			logrus.WithFields(conf.LogrusFields()).Info("theme saved")
			return nil
		},
	}

	cmd.Flags().BoolVar(&list, "list", false, "list available themes")

	return cmd
}
