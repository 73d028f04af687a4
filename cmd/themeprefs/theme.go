package main

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/CreativeUnicorns/themeprefs"
	"github.com/CreativeUnicorns/themeprefs/detect"
	"github.com/CreativeUnicorns/themeprefs/storage"
)

const defaultScope = "cli"

var (
	labelStyle = lipgloss.NewStyle().Faint(true)
	darkStyle  = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color("#F3F4F6")).
			Background(lipgloss.Color("#111827")).
			Padding(0, 1)
	lightStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color("#111827")).
			Background(lipgloss.Color("#F3F4F6")).
			Padding(0, 1)
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#D97706"))
)

func newStatusCmd(opts *cliOptions) *cobra.Command {
	var scope string
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the theme stored for a scope",
		Long: `Resolve the theme for a scope the same way the server does for a session:
the stored value if there is one, otherwise the colour scheme detected from
THEMEPREFS_COLOR_SCHEME or the terminal background, otherwise light.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTheme(cmd, opts, scope, false)
		},
	}
	cmd.Flags().StringVar(&scope, "scope", defaultScope, "Preference scope")
	return cmd
}

func newToggleCmd(opts *cliOptions) *cobra.Command {
	var scope string
	cmd := &cobra.Command{
		Use:   "toggle",
		Short: "Flip the theme stored for a scope",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTheme(cmd, opts, scope, true)
		},
	}
	cmd.Flags().StringVar(&scope, "scope", defaultScope, "Preference scope")
	return cmd
}

func runTheme(cmd *cobra.Command, opts *cliOptions, scope string, toggle bool) error {
	cfg, err := opts.load()
	if err != nil {
		return err
	}
	logger, err := cfg.NewLogger()
	if err != nil {
		return err
	}
	backend, err := cfg.OpenBackend(logger)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() { _ = backend.Close() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	out := cmd.OutOrStdout()
	c := themeprefs.New(
		themeprefs.WithStore(storage.Scoped(backend, scope)),
		themeprefs.WithDetector(detect.Chain(cfg.EnvDetector(), detect.Terminal(out))),
		themeprefs.WithLogger(logger),
	)
	c.Resolve(ctx)
	if toggle {
		c.Toggle(ctx)
	}

	printState(out, scope, c)
	return nil
}

func printState(w io.Writer, scope string, c *themeprefs.Controller) {
	state := c.State()
	style := lightStyle
	if state.Preference.IsDark() {
		style = darkStyle
	}
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("scope "+scope+":"), style.Render(state.Preference.String()))

	if res, ok := c.LastPersist(); ok && !res.OK() {
		fmt.Fprintln(w, warnStyle.Render("warning: "+res.Err.Error()))
	}
}
