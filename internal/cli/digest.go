package cli

import (
	"strconv"

	"github.com/spf13/cobra"
)

// NewDigestCmd создаёт группу команд для просмотра дайджестов.
func NewDigestCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Inspect digest history",
	}

	cmd.AddCommand(
		newDigestListCmd(clientFn, outputFn),
		newDigestShowCmd(clientFn, outputFn),
	)

	return cmd
}

func newDigestListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var userID int64
	var status string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List digests",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			digests, err := client.ListDigests(ListDigestsOpts{
				UserID: userID,
				Status: status,
				Limit:  limit,
			})
			if err != nil {
				return err
			}

			headers := []string{"ID", "USER_ID", "STATUS", "DOCS", "SUMMARIES", "CREATED"}
			rows := make([][]string, len(digests))
			for i, d := range digests {
				rows[i] = []string{
					d.ID,
					strconv.FormatInt(d.UserID, 10),
					d.Status,
					strconv.Itoa(d.DocumentCount),
					strconv.Itoa(d.SummaryCount),
					d.CreatedAt,
				}
			}

			out.Print(headers, rows, digests)
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user-id", 0, "Filter by user ID")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status (PROCESSING, SUCCEEDED, FAILED)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of results")

	return cmd
}

func newDigestShowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show digest details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			digest, err := client.GetDigest(args[0])
			if err != nil {
				return err
			}

			out.Print(
				[]string{"ID", "USER_ID", "STATUS", "DOCS", "SUMMARIES", "ERROR", "CREATED"},
				[][]string{{
					digest.ID,
					strconv.FormatInt(digest.UserID, 10),
					digest.Status,
					strconv.Itoa(digest.DocumentCount),
					strconv.Itoa(digest.SummaryCount),
					digest.Error,
					digest.CreatedAt,
				}},
				digest,
			)
			return nil
		},
	}
}
