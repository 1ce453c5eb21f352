package cmd

import (
	"context"
	"os"

	"github.com/emrgen/shazam"
	"github.com/emrgen/shazam/internal/model"
	"github.com/emrgen/shazam/internal/service"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var fieldCmd = &cobra.Command{
	Use:   "field",
	Short: "field override commands",
}

func init() {
	fieldCmd.AddCommand(fieldActionCmd("add", "configure a field with the default override", (*shazam.Client).CreateField))
	fieldCmd.AddCommand(fieldActionCmd("activate", "activate a field override", (*shazam.Client).ActivateField))
	fieldCmd.AddCommand(fieldActionCmd("deactivate", "deactivate a field override", (*shazam.Client).DeactivateField))
	fieldCmd.AddCommand(fieldActionCmd("delete", "delete a field override", (*shazam.Client).DeleteField))
	fieldCmd.AddCommand(setFieldCmd())
}

type fieldAction func(c *shazam.Client, ctx context.Context, projectID uuid.UUID, field string) (*shazam.ConfigResponse, error)

func fieldActionCmd(use, short string, action fieldAction) *cobra.Command {
	var project string
	var field string

	var required = []string{"field"}

	command := &cobra.Command{
		Use:     use,
		Short:   short,
		Example: "shazam field " + use + " -f <field>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}
			client, projectID, ok := contextClient(project)
			if !ok {
				return
			}
			ctx, cancel := requestContext()
			defer cancel()

			res, err := action(client, ctx, projectID, field)
			if err != nil {
				printError(err)
				return
			}

			color.Green("%s: %s", field, res.Config.Meta.SaveComment)
		},
	}

	command.Flags().StringVarP(&field, "field", "f", "", "field name (required)")
	bindProjectFlag(command, &project)

	return command
}

func setFieldCmd() *cobra.Command {
	var project string
	var field string
	var htmlFile, cssFile, jsFile string
	var comment string
	var active bool

	var required = []string{"field"}

	command := &cobra.Command{
		Use:     "set",
		Short:   "replace the html, css and javascript of a field override",
		Example: "shazam field set -f <field> --html-file intro.html --css-file intro.css --js-file intro.js -c <comment>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}
			client, projectID, ok := contextClient(project)
			if !ok {
				return
			}

			var submission service.FieldSubmission
			for _, f := range []struct {
				path string
				dst  *string
			}{{htmlFile, &submission.HTML}, {cssFile, &submission.CSS}, {jsFile, &submission.JavaScript}} {
				if f.path == "" {
					continue
				}
				data, err := os.ReadFile(f.path)
				if err != nil {
					printError(err)
					return
				}
				*f.dst = string(data)
			}
			if cmd.Flag("active").Changed {
				status := model.StatusInactive
				if active {
					status = model.StatusActive
				}
				submission.Status = &status
			}

			ctx, cancel := requestContext()
			defer cancel()

			res, err := client.SubmitField(ctx, projectID, field, &shazam.SubmitFieldRequest{
				FieldSubmission: submission,
				Comment:         comment,
			})
			if err != nil {
				printError(err)
				return
			}

			printConfig(res)
		},
	}

	command.Flags().StringVarP(&field, "field", "f", "", "field name (required)")
	command.Flags().StringVar(&htmlFile, "html-file", "", "file holding the html")
	command.Flags().StringVar(&cssFile, "css-file", "", "file holding the css")
	command.Flags().StringVar(&jsFile, "js-file", "", "file holding the javascript")
	command.Flags().StringVarP(&comment, "comment", "c", "", "save comment")
	command.Flags().BoolVar(&active, "active", true, "activate or deactivate the override")
	bindProjectFlag(command, &project)

	command.Flags().SortFlags = false

	return command
}
