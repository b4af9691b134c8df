package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-h5f/pkg/form"
	"github.com/goliatone/go-h5f/pkg/openapi"
)

func newValidateCmd(a *app) *cobra.Command {
	var (
		sets        []string
		valuesFile  string
		openapiPath string
		operation   string
	)
	cmd := &cobra.Command{
		Use:   "validate [file.html]",
		Short: "Fill a form with the given values and run the submission gate",
		Long: `Fill a form with the given values and run the submission gate.

The form comes either from an HTML file or, with --openapi and --operation,
from the request body schema of an OpenAPI operation.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := collectValues(valuesFile, sets)
			if err != nil {
				return err
			}
			if openapiPath != "" {
				if len(args) > 0 {
					return errors.New("validate: pass an HTML file or --openapi, not both")
				}
				return a.validateOperation(cmd.Context(), openapiPath, operation, values)
			}
			if len(args) == 0 {
				return errors.New("validate: an HTML file or --openapi is required")
			}

			page, err := a.bind(args[0])
			if err != nil {
				return err
			}
			if err := page.Fill(values); err != nil {
				return err
			}
			return a.report(page.Form, page.Submit())
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "field value as name=value (repeatable)")
	cmd.Flags().StringVar(&valuesFile, "values", "", "YAML file mapping field names to values")
	cmd.Flags().StringVar(&openapiPath, "openapi", "", "OpenAPI document describing the form")
	cmd.Flags().StringVar(&operation, "operation", "", "operation id whose request body is the form (with --openapi)")
	return cmd
}

// validateOperation builds the form from an OpenAPI operation, assigns the
// values and runs the submission gate.
func (a *app) validateOperation(ctx context.Context, path, operation string, values map[string]string) error {
	if strings.TrimSpace(operation) == "" {
		return errors.New("validate: --operation is required with --openapi")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read openapi: %w", err)
	}
	descs, err := openapi.LoadOperation(ctx, raw, operation)
	if err != nil {
		return err
	}
	table, err := a.ruleTable()
	if err != nil {
		return err
	}

	agg := form.New(
		form.WithRules(table),
		form.WithLogger(a.logger),
		form.WithName(operation),
	)
	for _, desc := range descs {
		state, err := agg.Register(desc, nil)
		if err != nil {
			return err
		}
		if value, ok := values[desc.Name]; ok {
			state.SetValue(value)
		}
	}
	for name := range values {
		if _, ok := agg.Field(name); !ok {
			return fmt.Errorf("%w: %s", form.ErrUnknownField, name)
		}
	}
	a.logger.Info("operation loaded", "file", path, "operation", operation, "fields", len(descs))
	return a.report(agg, agg.Submit())
}

// collectValues merges the values file with --set pairs; pairs win.
func collectValues(path string, sets []string) (map[string]string, error) {
	values := make(map[string]string)
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read values: %w", err)
		}
		if err := yaml.Unmarshal(raw, &values); err != nil {
			return nil, fmt.Errorf("parse values %s: %w", path, err)
		}
	}
	for _, pair := range sets {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid --set %q, want name=value", pair)
		}
		values[strings.TrimSpace(name)] = value
	}
	return values, nil
}
