package cli

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/neu-balayan/pageantscore/internal/model"
)

func newContestantCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "contestant",
		Aliases: []string{"contestants"},
		Short:   "Roster commands",
	}

	cmd.AddCommand(newContestantAddCmd())
	cmd.AddCommand(newContestantListCmd())
	cmd.AddCommand(newContestantCountsCmd())

	return cmd
}

// resolveCategory expands the mr/ms shorthands to full category names
func resolveCategory(category string) string {
	switch strings.ToLower(category) {
	case "mr":
		return model.CategoryMr
	case "ms":
		return model.CategoryMs
	default:
		return category
	}
}

// resolvePrefix maps the mr/ms shorthands to the group prefixes. Other
// prefixes are matched case-sensitively by the server.
func resolvePrefix(prefix string) string {
	switch strings.ToLower(prefix) {
	case "mr":
		return model.PrefixMr
	case "ms":
		return model.PrefixMs
	default:
		return prefix
	}
}

// listPath builds the roster URL for an optional category prefix
func listPath(prefix string) string {
	path := "/api/v1/contestants"
	if prefix = resolvePrefix(prefix); prefix != "" {
		path += "?" + url.Values{"category": {prefix}}.Encode()
	}
	return path
}

func newContestantAddCmd() *cobra.Command {
	var name, category string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a contestant",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"name":     name,
				"category": resolveCategory(category),
			}
			var result Contestant

			status, err := client.Do(cmd.Context(), http.MethodPost, "/api/v1/contestants", req, &result)
			if err != nil {
				return err
			}

			out := newOutput(cmd)
			if status == http.StatusNoContent {
				// Blank names are ignored by the server
				out.PrintMessage("Nothing registered")
				return nil
			}
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Contestant name (required)")
	cmd.Flags().StringVar(&category, "category", model.DefaultCategory, "Category: mr, ms or a full category name")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newContestantListCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered contestants in registration order",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result ContestantList
			if err := client.Get(cmd.Context(), listPath(category), &result); err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Only list categories starting with this prefix: mr, ms or a case-sensitive prefix such as Mrs")

	return cmd
}

func newContestantCountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "counts",
		Short: "Show roster headcounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Counts

			if err := client.Get(cmd.Context(), "/api/v1/contestants/counts", &result); err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}
}
