package cmd

import (
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "project config commands",
}

func init() {
	configCmd.AddCommand(showConfigCmd())
	configCmd.AddCommand(listBackupsCmd())
	configCmd.AddCommand(restoreConfigCmd())
	configCmd.AddCommand(showIndexCmd())
}

func showConfigCmd() *cobra.Command {
	var project string

	command := &cobra.Command{
		Use:   "show",
		Short: "show the configured fields",
		Run: func(cmd *cobra.Command, args []string) {
			client, projectID, ok := contextClient(project)
			if !ok {
				return
			}
			ctx, cancel := requestContext()
			defer cancel()

			res, err := client.GetConfig(ctx, projectID)
			if err != nil {
				printError(err)
				return
			}

			printConfig(res)
			if len(res.AvailableFields) > 0 {
				color.Cyan("Available fields")
				table := tablewriter.NewWriter(os.Stdout)
				table.SetHeader([]string{"Field", "Form", "Label"})
				for _, f := range res.AvailableFields {
					table.Append([]string{f.Name, f.Form, f.Label})
				}
				table.Render()
			}
		},
	}

	bindProjectFlag(command, &project)

	return command
}

func listBackupsCmd() *cobra.Command {
	var project string

	command := &cobra.Command{
		Use:   "backups",
		Short: "list the config backups, newest first",
		Run: func(cmd *cobra.Command, args []string) {
			client, projectID, ok := contextClient(project)
			if !ok {
				return
			}
			ctx, cancel := requestContext()
			defer cancel()

			res, err := client.Backups(ctx, projectID)
			if err != nil {
				printError(err)
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Timestamp", "Backup"})
			for _, b := range res.Backups {
				table.Append([]string{strconv.FormatInt(b.Timestamp, 10), b.Name})
			}
			table.Render()
		},
	}

	bindProjectFlag(command, &project)

	return command
}

func restoreConfigCmd() *cobra.Command {
	var project string
	var ts int64

	var required = []string{"ts"}

	command := &cobra.Command{
		Use:     "restore",
		Short:   "restore a config backup",
		Example: "shazam config restore --ts <timestamp>",
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

			res, err := client.Restore(ctx, projectID, ts)
			if err != nil {
				printError(err)
				return
			}

			color.Green("backup %d restored", ts)
			printConfig(res)
		},
	}

	bindProjectFlag(command, &project)
	command.Flags().Int64Var(&ts, "ts", 0, "backup timestamp (required)")

	return command
}

func showIndexCmd() *cobra.Command {
	var project string

	command := &cobra.Command{
		Use:   "index",
		Short: "show the active fields of each form",
		Run: func(cmd *cobra.Command, args []string) {
			client, projectID, ok := contextClient(project)
			if !ok {
				return
			}
			ctx, cancel := requestContext()
			defer cancel()

			res, err := client.GetConfig(ctx, projectID)
			if err != nil {
				printError(err)
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Form", "Fields"})
			for form, fields := range res.Index {
				table.Append([]string{form, strings.Join(fields, ", ")})
			}
			table.Render()
		},
	}

	bindProjectFlag(command, &project)

	return command
}
