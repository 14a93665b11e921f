package main

import (
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/kailas-cloud/coursedex/internal/db/elastic"
	"github.com/kailas-cloud/coursedex/internal/domain/search/filter"
	"github.com/kailas-cloud/coursedex/internal/domain/search/request"
	searchuc "github.com/kailas-cloud/coursedex/internal/usecase/search"
)

// queryFlags describe one search request on the command line.
type queryFlags struct {
	termID   string
	filters  string
	minIndex int
	maxIndex int
}

func (q *queryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&q.termID, "term", "", "six-character term id, e.g. 202110")
	cmd.Flags().StringVar(&q.filters, "filters", "", `filter selection as JSON, e.g. {"subject":["CS"]}`)
	cmd.Flags().IntVar(&q.minIndex, "min", 0, "first result index")
	cmd.Flags().IntVar(&q.maxIndex, "max", request.DefaultPageSize, "one past the last result index")
	_ = cmd.MarkFlagRequired("term")
}

func (q *queryFlags) request(text string, maxPageSize int) (request.Request, error) {
	sel := filter.Selection{}
	if q.filters != "" {
		if err := jsoniter.ConfigCompatibleWithStandardLibrary.UnmarshalFromString(q.filters, &sel); err != nil {
			return request.Request{}, fmt.Errorf("parse --filters: %w", err)
		}
	}
	return request.New(text, q.termID, q.minIndex, q.maxIndex, sel, maxPageSize)
}

func newPlanCmd() *cobra.Command {
	var (
		q        queryFlags
		subjects []string
	)
	cmd := &cobra.Command{
		Use:   "plan [query]",
		Short: "Print the _msearch body for a query without contacting any service",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := q.request(strings.Join(args, " "), 0)
			if err != nil {
				return err
			}

			cache := searchuc.NewSubjectCache(nil)
			cache.Seed(subjects)
			svc := searchuc.New(searchuc.NewCompiler(filter.Default(), cache), nil, nil)

			plan, err := svc.Plan(cmd.Context(), &req)
			if err != nil {
				return err
			}
			queries := plan.Queries()
			bodies := make([]map[string]any, len(queries))
			for i, pq := range queries {
				bodies[i] = pq.Source()
			}
			out, err := elastic.EncodeNDJSON(bodies)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	q.register(cmd)
	cmd.Flags().StringSliceVar(&subjects, "subjects", nil, "known subject codes used for course-code detection")
	return cmd
}
