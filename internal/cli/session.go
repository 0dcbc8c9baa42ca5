package cli

import (
	"strconv"

	"github.com/spf13/cobra"
)

// NewSessionCmd создаёт группу команд для просмотра сессий.
func NewSessionCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect live accumulation sessions",
	}

	cmd.AddCommand(
		newSessionListCmd(clientFn, outputFn),
		newSessionShowCmd(clientFn, outputFn),
	)

	return cmd
}

func newSessionListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			sessions, err := client.ListSessions()
			if err != nil {
				return err
			}

			headers := []string{"USER_ID", "PHASE", "PENDING", "PROCESSING", "OLDEST_PENDING"}
			rows := make([][]string, len(sessions))
			for i, s := range sessions {
				rows[i] = []string{
					strconv.FormatInt(s.UserID, 10),
					s.Phase,
					strconv.Itoa(s.PendingCount),
					strconv.FormatBool(s.Processing),
					s.OldestPendingAt,
				}
			}

			out.Print(headers, rows, sessions)
			return nil
		},
	}
}

func newSessionShowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show USER_ID",
		Short: "Show session details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			userID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return err
			}

			session, err := client.GetSession(userID)
			if err != nil {
				return err
			}

			out.Print(
				[]string{"USER_ID", "PHASE", "PENDING", "PROCESSING", "OLDEST_PENDING"},
				[][]string{{
					strconv.FormatInt(session.UserID, 10),
					session.Phase,
					strconv.Itoa(session.PendingCount),
					strconv.FormatBool(session.Processing),
					session.OldestPendingAt,
				}},
				session,
			)
			return nil
		},
	}
}
