package cli

import (
	"errors"
	"time"

	"github.com/spf13/cobra"
)

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the server and its roster storage are reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result HealthResult

			start := time.Now()
			err := client.Get(cmd.Context(), "/api/v1/health", &result)
			result.Latency = time.Since(start).Round(time.Millisecond).String()

			var apiErr *APIError
			if errors.As(err, &apiErr) && apiErr.Code == "UNAVAILABLE" {
				result.Status = "degraded"
				newOutput(cmd).Print(result)
				return apiErr
			}
			if err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}
}
