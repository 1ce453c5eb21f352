package cmd

import (
	"context"
	"os"

	"github.com/emrgen/shazam"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var jsCmd = &cobra.Command{
	Use:   "js",
	Short: "javascript editor allowlist commands",
}

func init() {
	jsCmd.AddCommand(listEditorsCmd())
	jsCmd.AddCommand(editorActionCmd("grant", "allow a user to edit override javascript", (*shazam.Client).GrantJavascript))
	jsCmd.AddCommand(editorActionCmd("revoke", "remove a user from the javascript allowlist", (*shazam.Client).RevokeJavascript))
}

func printEditors(res *shazam.EditorsResponse) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Javascript editors"})
	for _, user := range res.Users {
		table.Append([]string{user})
	}
	table.Render()
}

func listEditorsCmd() *cobra.Command {
	var project string

	command := &cobra.Command{
		Use:   "list",
		Short: "list the javascript editors",
		Run: func(cmd *cobra.Command, args []string) {
			client, projectID, ok := contextClient(project)
			if !ok {
				return
			}
			ctx, cancel := requestContext()
			defer cancel()

			res, err := client.JavascriptEditors(ctx, projectID)
			if err != nil {
				printError(err)
				return
			}
			printEditors(res)
		},
	}

	bindProjectFlag(command, &project)

	return command
}

func editorActionCmd(use, short string, action func(*shazam.Client, context.Context, uuid.UUID, string) (*shazam.EditorsResponse, error)) *cobra.Command {
	var project string
	var user string

	var required = []string{"user"}

	command := &cobra.Command{
		Use:     use,
		Short:   short,
		Example: "shazam js " + use + " -u <username>",
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

			res, err := action(client, ctx, projectID, user)
			if err != nil {
				printError(err)
				return
			}

			color.Green("%s: done", use)
			printEditors(res)
		},
	}

	command.Flags().StringVarP(&user, "user", "u", "", "username (required)")
	bindProjectFlag(command, &project)

	return command
}
