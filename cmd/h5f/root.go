package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	h5f "github.com/goliatone/go-h5f"
	"github.com/goliatone/go-h5f/pkg/document"
	"github.com/goliatone/go-h5f/pkg/form"
	"github.com/goliatone/go-h5f/pkg/prompt"
	"github.com/goliatone/go-h5f/pkg/rules"
)

// Configuration keys, settable from the config file, H5F_* environment
// variables or the matching flags.
const (
	keyImmediate = "immediate"
	keyRules     = "rules"
	keyLogLevel  = "log_level"
	keyForm      = "form"
)

type app struct {
	out    io.Writer
	errOut io.Writer
	v      *viper.Viper
	// driver overrides the survey driver; tests script it.
	driver prompt.PromptDriver

	cfgFile string
	logger  *slog.Logger
}

func newApp(out, errOut io.Writer) *app {
	v := viper.New()
	v.SetDefault(keyImmediate, false)
	v.SetDefault(keyRules, "")
	v.SetDefault(keyLogLevel, "warn")
	v.SetDefault(keyForm, "")
	v.SetEnvPrefix("H5F")
	v.AutomaticEnv()
	return &app{out: out, errOut: errOut, v: v}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "h5f",
		Short: "Validate HTML forms from their declared constraints",
		Long: `h5f reads an HTML document, binds one of its forms and checks the
values of its named inputs against required, minlength, maxlength, min, max,
pattern and type attributes.

Examples:
  h5f validate signup.html --form signup --set email=jane@example.com
  h5f prompt signup.html --rules rules.yaml
  h5f validate --openapi api.yaml --operation createUser --set email=jane@example.com`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (yaml, json or toml)")
	flags.String("form", "", "id or name of the form to bind (default first form)")
	flags.String("rules", "", "rule pack adding named rules and messages")
	flags.Bool("immediate", false, "validate fields as they are edited")
	flags.String("log-level", "warn", "log level (debug, info, warn, error)")
	_ = a.v.BindPFlag(keyForm, flags.Lookup("form"))
	_ = a.v.BindPFlag(keyRules, flags.Lookup("rules"))
	_ = a.v.BindPFlag(keyImmediate, flags.Lookup("immediate"))
	_ = a.v.BindPFlag(keyLogLevel, flags.Lookup("log-level"))

	root.AddCommand(newValidateCmd(a))
	root.AddCommand(newPromptCmd(a))
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", a.cfgFile, err)
		}
	}

	level, err := log.ParseLevel(a.v.GetString(keyLogLevel))
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	handler := log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
		Prefix: "h5f",
		Level:  level,
	})
	a.logger = slog.New(handler)
	if a.cfgFile != "" {
		a.logger.Debug("config loaded", "path", a.v.ConfigFileUsed())
	}
	return nil
}

// ruleTable returns the default table extended with the configured rule
// pack, if any.
func (a *app) ruleTable() (*rules.Table, error) {
	table := rules.Default()
	path := strings.TrimSpace(a.v.GetString(keyRules))
	if path == "" {
		return table, nil
	}
	if err := table.LoadFS(os.DirFS(filepath.Dir(path)), filepath.Base(path)); err != nil {
		return nil, err
	}
	a.logger.Debug("rule pack loaded", "path", path, "rules", len(table.RuleNames()))
	return table, nil
}

func (a *app) bind(path string) (*h5f.Page, error) {
	table, err := a.ruleTable()
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	page, err := h5f.BindHTML(f, a.v.GetString(keyForm),
		document.WithImmediate(a.v.GetBool(keyImmediate)),
		document.WithRules(table),
		document.WithLogger(a.logger),
	)
	if err != nil {
		return nil, err
	}
	a.logger.Info("form bound",
		"file", path,
		"fields", len(page.Form.Names()),
		"immediate", page.Form.Immediate(),
		"listening", page.Listening,
	)
	return page, nil
}

// report prints one line per field and returns an ExitError when the
// submission was vetoed.
func (a *app) report(agg *form.Aggregate, decision form.Decision) error {
	for _, state := range agg.Fields() {
		status := "ok"
		if state.Counted() {
			status = state.Message()
		}
		fmt.Fprintf(a.out, "%s: %s\n", state.Name(), status)
	}
	if decision.Allowed {
		fmt.Fprintln(a.out, "submission allowed")
		return nil
	}
	return &ExitError{
		Code: 1,
		Err:  fmt.Errorf("submission vetoed: %d invalid field(s)", decision.InvalidCount),
	}
}
