package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func analyzeCmd() *cobra.Command {
	var (
		responseID int64
		all        bool
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Re-run sentiment analysis for stored responses",
		Long: `Re-run sentiment analysis for stored responses.

Use --response-id to analyse one response or --all to analyse every stored
response. Analysis is idempotent: stored sentiments are overwritten in place.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, cleanup, err := openClient(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if !all {
				if responseID <= 0 {
					return fmt.Errorf("invalid response id %d", responseID)
				}
				if err := client.Enrichment.AnalyzeResponse(ctx, responseID); err != nil {
					return err
				}
				_, err := fmt.Fprintf(out, "analyzed response %d\n", responseID)
				return err
			}

			result, err := client.Enrichment.AnalyzeAll(ctx)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(out, "analyzed %d of %d responses (%d failed)\n",
				result.Succeeded, result.Total, result.Failed)
			return err
		},
	}

	cmd.Flags().Int64Var(&responseID, "response-id", 0, "ID of the response to analyse")
	cmd.Flags().BoolVar(&all, "all", false, "Analyse every stored response")
	cmd.MarkFlagsMutuallyExclusive("response-id", "all")
	cmd.MarkFlagsOneRequired("response-id", "all")

	return cmd
}
