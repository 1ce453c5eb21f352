package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/emrgen/shazam"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

const requestTimeout = 30 * time.Second

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

func printField(label, value string) {
	color.Set(color.FgCyan)
	fmt.Print(label)
	color.Unset()
	fmt.Printf(": %s\n", value)
}

func printError(err error) {
	color.Red("error: %v", err)
}

// printConfig renders the fields of a config response and its index.
func printConfig(res *shazam.ConfigResponse) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Field", "Status", "HTML", "CSS", "JavaScript"})
	for _, name := range res.Config.Names() {
		field, _ := res.Config.Field(name)
		status := color.RedString("inactive")
		if field.Active() {
			status = color.GreenString("active")
		}
		table.Append([]string{name, status, summary(field.HTML), summary(field.CSS), summary(field.JavaScript)})
	}
	table.Render()

	if meta := res.Config.Meta; meta != nil {
		printField("Last modified", meta.LastModified+" by "+meta.LastModifiedBy)
		printField("Comment", meta.SaveComment)
	}
}

func summary(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > 40 {
		return s[:40] + "..."
	}
	return s
}

// checkMissingFlags checks if the required flags are set and returns true if any is missing
func checkMissingFlags(cmd *cobra.Command, flags []string) bool {
	var missingFlags []string
	var providedFlags []string
	for _, required := range flags {
		if !cmd.Flag(required).Changed {
			missingFlags = append(missingFlags, required)
		} else {
			value := cmd.Flag(required).Value.String()
			providedFlags = append(providedFlags, fmt.Sprintf("--%s=%s", required, value))
		}
	}

	if len(missingFlags) > 0 {
		var msg string
		for _, f := range missingFlags {
			msg += fmt.Sprintf("--%s ", f)
		}

		color.Red("missing: %s\n", msg)
		if len(providedFlags) > 0 {
			provided := strings.Join(providedFlags, " ")
			color.Green("provide: %s\n", provided)
		}

		cmd.Println("")
		_ = cmd.Usage()

		return true
	}

	return false
}
