package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-h5f/pkg/form"
	"github.com/goliatone/go-h5f/pkg/prompt"
)

func newPromptCmd(a *app) *cobra.Command {
	var attempts int
	cmd := &cobra.Command{
		Use:   "prompt <file.html>",
		Short: "Ask for every field of a form and validate answers as they come",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := a.bind(args[0])
			if err != nil {
				return err
			}

			driver := a.driver
			if driver == nil {
				driver = prompt.NewSurveyDriver(cmd.OutOrStdout())
			}
			session, err := prompt.New(page.Form,
				prompt.WithPromptDriver(driver),
				prompt.WithMaxAttempts(attempts),
				prompt.WithWriter(func(state *form.FieldState, value string) error {
					return page.Document.Fill(page.Root, state.Name(), value)
				}),
				prompt.WithChoices(func(name string) []string {
					return page.Document.Choices(page.Root, name)
				}),
			)
			if err != nil {
				return err
			}

			if _, err := session.Run(cmd.Context()); err != nil {
				return err
			}
			return a.report(page.Form, page.Submit())
		},
	}
	cmd.Flags().IntVar(&attempts, "attempts", 0, "give up after this many invalid answers per field (0 asks forever)")
	return cmd
}
