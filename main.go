package main

import (
	"github.com/spf13/cobra"

	"github.com/duskren/convo/cli/chat"
	"github.com/duskren/convo/cli/list"
	"github.com/duskren/convo/internal/configuration"
)

const configFilepath = "~/.convo/config.json"

var rootCmd = &cobra.Command{
	Use:   "convo",
	Short: "A terminal multi-conversation chat client",
}

func main() {
	config, err := configuration.Parse(configFilepath)
	if err != nil {
		panic(err)
	}

	chatCmd := chat.NewCmd(config)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(list.NewCmd(config))

	// Running `convo` with no subcommand opens the chat interface.
	rootCmd.RunE = chatCmd.RunE

	rootCmd.Execute()
}
