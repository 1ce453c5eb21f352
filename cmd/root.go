package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "shazam",
	Short: "field skin configuration tool",
	Example: `shazam context set --server http://localhost:4001 --project <project-id> --user <username>
shazam config show
shazam config backups
shazam config restore --ts <timestamp>
shazam field add -f <field>
shazam field set -f <field> --html-file intro.html --comment "new intro"
shazam js grant -u <username>`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(contextCommand)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(fieldCmd)
	rootCmd.AddCommand(jsCmd)
	rootCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})

	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	cobra.EnableCommandSorting = false
}
