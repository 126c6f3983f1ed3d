package chat

import (
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/duskren/convo/internal/configuration"
	"github.com/duskren/convo/internal/conversation"
	"github.com/duskren/convo/internal/kvstore"
	"github.com/duskren/convo/internal/reply"
)

// NewCmd instantiates and returns the chat command.
func NewCmd(config *configuration.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Open the chat interface",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := kvstore.New(config.StoragePath)
			if err != nil {
				return fmt.Errorf("opening store: %w", err)
			}
			defer store.Close()

			replyClient, err := newReplyClient(config.Reply)
			if err != nil {
				return err
			}

			manager := conversation.NewManager(store, replyClient)
			manager.Hydrate()
			defer manager.Close()

			// Input history lives next to the conversation store.
			historyPath := filepath.Join(filepath.Dir(config.StoragePath), "input_history")
			m, err := New(ctx, manager, historyPath)
			if err != nil {
				return err
			}

			p := tea.NewProgram(
				m,
				tea.WithAltScreen(),
				tea.WithContext(ctx),
				tea.WithMouseCellMotion(),
			)
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("error running chat: %w", err)
			}
			return nil
		},
	}
	return cmd
}

func newReplyClient(config *configuration.ReplyConfig) (conversation.ReplyClient, error) {
	switch config.Backend {
	case "openai":
		return reply.NewOpenAIClient(config), nil
	case "", "stub":
		return reply.NewStubClient(), nil
	default:
		return nil, fmt.Errorf("unknown reply backend (%s)", config.Backend)
	}
}
