package list

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/duskren/convo/internal/cli"
	"github.com/duskren/convo/internal/configuration"
	"github.com/duskren/convo/internal/conversation"
	"github.com/duskren/convo/internal/kvstore"
)

// NewCmd instantiates and returns the list command. It reads the persisted
// snapshot directly; an empty store just means nothing has been saved yet.
func NewCmd(config *configuration.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List conversations",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := kvstore.New(config.StoragePath)
			if err != nil {
				return errors.Wrap(err, "opening store")
			}
			defer store.Close()

			value, ok, err := store.Get(conversation.SnapshotKey)
			if err != nil {
				return errors.Wrap(err, "reading store")
			}
			if !ok {
				fmt.Println("No conversations saved yet.")
				return nil
			}
			snapshot, err := conversation.DecodeSnapshot(value)
			if err != nil {
				return errors.Wrap(err, "decoding snapshot")
			}

			activeID, _, _ := store.Get(conversation.ActiveIDKey)

			cli.Title("Conversations")
			for _, c := range snapshot.Conversations {
				count := len(snapshot.ConversationsByID[c.ID])
				line := fmt.Sprintf("%s  [%d messages]  (%s)\n", c.Title, count, c.ID)
				switch {
				case c.ID == activeID:
					cli.ActiveItem("%s", "* "+line)
				case count == 0:
					cli.MutedItem("%s", "  "+line)
				default:
					cli.Item("%s", "  "+line)
				}
			}
			cli.Separator()
			return nil
		},
	}
	return cmd
}
