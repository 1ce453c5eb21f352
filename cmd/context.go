package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/emrgen/shazam"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	configFileName = "shazam"
	configDir      = "./.tmp"
)

var contextCommand = &cobra.Command{
	Use:   "context",
	Short: "context commands",
}

func init() {
	contextCommand.AddCommand(setContextCommand())
	contextCommand.AddCommand(currentContextCommand())
	contextCommand.AddCommand(resetContextCommand())
}

// Context is the connection info saved between invocations.
type Context struct {
	Server    string `mapstructure:"server"`
	Token     string `mapstructure:"token"`
	Project   string `mapstructure:"project"`
	User      string `mapstructure:"user"`
	SuperUser bool   `mapstructure:"super_user"`
}

// saves the context info to the config file in ./.tmp
func setContextCommand() *cobra.Command {
	var ctx Context

	command := &cobra.Command{
		Use:   "set",
		Short: "set context",
		Run: func(cmd *cobra.Command, args []string) {
			if ctx.Project == "" || ctx.User == "" {
				color.Red(`missing: --project and --user`)
				return
			}
			if _, err := uuid.Parse(ctx.Project); err != nil {
				color.Red("invalid project id, expected a valid uuid")
				return
			}

			if err := writeContext(ctx); err != nil {
				fmt.Println("error writing config file: ", err)
			} else {
				fmt.Println("context saved")
			}
		},
	}

	command.Flags().StringVarP(&ctx.Server, "server", "s", "http://localhost:4001", "api server url")
	command.Flags().StringVarP(&ctx.Token, "token", "t", "", "token")
	command.Flags().StringVarP(&ctx.Project, "project", "p", "", "project id")
	command.Flags().StringVarP(&ctx.User, "user", "u", "", "username")
	command.Flags().BoolVar(&ctx.SuperUser, "super", false, "act as a super user")

	return command
}

func currentContextCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "current",
		Short: "current context",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := readContext()
			printField("Server", ctx.Server)
			printField("Project", ctx.Project)
			printField("User", ctx.User)
			printField("Super user", fmt.Sprint(ctx.SuperUser))
		},
	}

	return command
}

func resetContextCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "reset",
		Short: "reset context",
		Run: func(cmd *cobra.Command, args []string) {
			if err := writeContext(Context{}); err != nil {
				fmt.Println("error writing config file: ", err)
				return
			}
			fmt.Println("context reset")
		},
	}

	return command
}

func writeContext(ctx Context) error {
	if err := ensureContextFile(); err != nil {
		return err
	}

	viper.SetConfigName(configFileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("yml")
	viper.Set("context", map[string]any{
		"server":     ctx.Server,
		"token":      ctx.Token,
		"project":    ctx.Project,
		"user":       ctx.User,
		"super_user": ctx.SuperUser,
	})

	return viper.WriteConfig()
}

func readContext() Context {
	var ctx Context

	if err := ensureContextFile(); err != nil {
		fmt.Println("error creating config file: ", err)
	}

	viper.SetConfigName(configFileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("yml")

	if err := viper.ReadInConfig(); err != nil {
		fmt.Println("error reading config file: ", err)
	}

	if err := viper.UnmarshalKey("context", &ctx); err != nil {
		fmt.Println("error unmarshalling config file: ", err)
	}

	return ctx
}

// create file if it doesn't exist
func ensureContextFile() error {
	path := filepath.Join(configDir, configFileName+".yml")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil
	}

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	return file.Close()
}

// contextClient returns a client for the saved context and the project to
// act on, preferring the --project flag when set.
func contextClient(project string) (*shazam.Client, uuid.UUID, bool) {
	ctx := readContext()
	if project == "" {
		project = ctx.Project
	}

	projectID, err := uuid.Parse(project)
	if err != nil {
		color.Red("missing or invalid project id, use --project or `shazam context set`")
		return nil, uuid.Nil, false
	}
	if ctx.User == "" {
		color.Red("missing user, use `shazam context set`")
		return nil, uuid.Nil, false
	}

	client := shazam.NewClient(ctx.Server, ctx.User, shazam.WithToken(ctx.Token), shazam.WithPrivileges(ctx.SuperUser))

	return client, projectID, true
}

func bindProjectFlag(command *cobra.Command, project *string) {
	command.Flags().StringVarP(project, "project", "p", "", "project id (defaults to the context project)")
}
