package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/benjaminschreck/go-layout/pkg/layout"
	"github.com/benjaminschreck/go-layout/pkg/layout/sheet"
)

const version = "0.1.0"

type app struct {
	prefsFile string
	logLevel  string
	strict    bool

	engine *layout.Engine
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "layout",
		Short:         "Render bibliographic records with JabRef-style layout files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.prefsFile, "prefs", "", "YAML file with formatter preferences")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error, off)")
	root.PersistentFlags().BoolVar(&a.strict, "strict", false, "Fail on layout warnings and unknown formatters")

	root.AddCommand(
		a.renderCmd(),
		a.exportCmd(),
		a.formattersCmd(),
		a.checkCmd(),
		versionCmd(),
	)
	return root
}

// setup applies flags on top of the LAYOUT_* environment and builds the
// engine.
func (a *app) setup(cmd *cobra.Command) error {
	config := layout.ConfigFromEnvironment()
	if a.logLevel != "" {
		config.LogLevel = strings.ToLower(a.logLevel)
	}
	if a.prefsFile != "" {
		config.PreferencesFile = a.prefsFile
	}
	if a.strict {
		config.StrictMode = true
	}

	layout.SetLogger(layout.NewLogger(cmd.ErrOrStderr(), layout.ParseLogLevel(config.LogLevel)))
	layout.SetGlobalConfig(config)

	engine, err := layout.LoadEngine(config)
	if err != nil {
		return err
	}
	a.engine = engine
	return nil
}

func (a *app) renderCmd() *cobra.Command {
	var group bool
	cmd := &cobra.Command{
		Use:   "render <layout-file> <records.yaml>",
		Short: "Render every record with a layout",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := a.engine.CompileFile(args[0])
			if err != nil {
				return err
			}
			ctx, err := loadRecords(args[1])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			state := layout.NewRenderState()
			for i, rec := range ctx.Database.Records() {
				if !group {
					state.Reset()
				}
				text, err := l.RenderWithState(state, rec, ctx.Database)
				if err != nil {
					return layout.WithContext(err, "render", map[string]interface{}{"record": i})
				}
				if _, err := io.WriteString(out, text); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&group, "group", false, "Share group state across records so group blocks act as headers")
	return cmd
}

func (a *app) exportCmd() *cobra.Command {
	var (
		begin, end, entry string
		types             []string
		encoding          string
		output            string
		xlsx              string
		sheetName         string
	)

	cmd := &cobra.Command{
		Use:   "export <records.yaml>",
		Short: "Export a record file with begin, entry and end layouts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			x := &layout.Exporter{Encoding: encoding}
			var err error
			if x.Begin, err = a.compileOptional(begin); err != nil {
				return err
			}
			if x.End, err = a.compileOptional(end); err != nil {
				return err
			}
			if x.Entry, err = a.compileOptional(entry); err != nil {
				return err
			}
			for _, t := range types {
				name, path, ok := strings.Cut(t, "=")
				if !ok || name == "" || path == "" {
					return fmt.Errorf("invalid --type %q, want name=file", t)
				}
				l, err := a.engine.CompileFile(path)
				if err != nil {
					return err
				}
				if x.Types == nil {
					x.Types = make(map[string]*layout.Layout)
				}
				x.Types[strings.ToLower(name)] = l
			}

			for _, name := range x.InvalidFormatters() {
				layout.WithField("formatter", name).Warn("Layout uses an unknown formatter")
			}

			ctx, err := loadRecords(args[0])
			if err != nil {
				return err
			}

			if xlsx != "" {
				w, err := sheet.NewWriter(sheetName)
				if err != nil {
					return err
				}
				defer w.Close()
				if err := w.WriteExport(x, ctx, ctx.Database.Records()); err != nil {
					return err
				}
				return w.SaveAs(xlsx)
			}

			out := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return layout.NewFileError("create output", output, err)
				}
				defer f.Close()
				out = f
			}
			return x.Export(out, ctx, ctx.Database.Records())
		},
	}
	cmd.Flags().StringVar(&begin, "begin", "", "Layout rendered once before the records")
	cmd.Flags().StringVar(&end, "end", "", "Layout rendered once after the records")
	cmd.Flags().StringVar(&entry, "entry", "", "Layout for records without a type layout")
	cmd.Flags().StringArrayVar(&types, "type", nil, "Layout for one entry type as name=file")
	cmd.Flags().StringVar(&encoding, "encoding", "", "Encoding name shown by \\encoding")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")
	cmd.Flags().StringVar(&xlsx, "xlsx", "", "Write one row per record to an .xlsx workbook")
	cmd.Flags().StringVar(&sheetName, "sheet", sheet.DefaultSheet, "Sheet name for --xlsx")
	return cmd
}

func (a *app) compileOptional(path string) (*layout.Layout, error) {
	if path == "" {
		return nil, nil
	}
	return a.engine.CompileFile(path)
}

func (a *app) formattersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formatters",
		Short: "List the formatter names layouts can use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range a.engine.Registry().Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func (a *app) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <layout-file>...",
		Short: "Report structural warnings and unknown formatters",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			problems := 0
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return layout.NewFileError("read layout", path, err)
				}
				l, err := layout.Parse(string(data), a.engine.Registry())
				if err != nil {
					fmt.Fprintf(out, "%s: %v\n", path, err)
					problems++
					continue
				}
				for _, w := range l.Warnings() {
					fmt.Fprintf(out, "%s: %s\n", path, w)
					problems++
				}
				for _, name := range l.InvalidFormatters() {
					fmt.Fprintf(out, "%s: unknown formatter %s\n", path, name)
					problems++
				}
			}
			if problems > 0 {
				return fmt.Errorf("%d problem(s) found", problems)
			}
			fmt.Fprintln(out, "ok")
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		// no engine needed
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "go-layout version %s\n", version)
		},
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
