package main

import (
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/kailas-cloud/coursedex/internal/domain"
	"github.com/kailas-cloud/coursedex/internal/domain/search/result"
)

// searchOutput mirrors the HTTP response shape.
type searchOutput struct {
	Results       []domain.SearchItem        `json:"results"`
	ResultCount   int                        `json:"resultCount"`
	Took          int                        `json:"took"`
	FilterOptions map[string][]result.Bucket `json:"filterOptions"`
}

func newSearchCmd(flags *rootFlags) *cobra.Command {
	var q queryFlags
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Run a search against the configured index and catalog",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, a, cfg, err := flags.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			req, err := q.request(strings.Join(args, " "), cfg.Search.MaxPageSize)
			if err != nil {
				return err
			}
			res, err := a.Search.Search(ctx, &req)
			if err != nil {
				return err
			}

			out := searchOutput{
				Results:       res.Items,
				ResultCount:   res.Total,
				Took:          res.TookMs,
				FilterOptions: res.FacetOptions(a.Search.FacetNames()),
			}
			enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
	q.register(cmd)
	return cmd
}
