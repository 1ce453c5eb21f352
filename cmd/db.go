package cmd

import (
	"github.com/emrgen/shazam/internal/config"
	"github.com/emrgen/shazam/internal/store"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "db commands",
}

func init() {
	dbCmd.AddCommand(Migrate())
}

func Migrate() *cobra.Command {
	command := &cobra.Command{
		Use:   "migrate",
		Short: "Migrate the database",
		Run: func(cmd *cobra.Command, args []string) {
			db := config.GetDb(config.LoadConfig())
			err := store.NewGormStore(db, nil).Migrate()
			if err != nil {
				panic(err)
			}
			color.Green("settings table migrated")
		},
	}

	return command
}
