package main

import (
	"context"
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/kailas-cloud/coursedex/internal/domain"
)

// catalogWriter is the subset of the catalog store used by load.
type catalogWriter interface {
	Migrate(ctx context.Context) error
	SaveCourse(ctx context.Context, c *domain.Course, sections []domain.Section) error
	SaveEmployee(ctx context.Context, e *domain.Employee) error
}

func newLoadCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "load <file.json>",
		Short: "Upsert a JSON array of search items into the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			var items []domain.SearchItem
			if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(data, &items); err != nil {
				return fmt.Errorf("decode %s: %w", args[0], err)
			}

			ctx, a, _, err := flags.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			courses, employees, err := loadItems(ctx, a.Catalog, items)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "loaded %d courses, %d employees\n", courses, employees)
			return nil
		},
	}
}

func loadItems(ctx context.Context, w catalogWriter, items []domain.SearchItem) (courses, employees int, err error) {
	if err := w.Migrate(ctx); err != nil {
		return 0, 0, err
	}
	for i := range items {
		item := &items[i]
		switch {
		case item.Type == domain.KindClass && item.Class != nil:
			if err := w.SaveCourse(ctx, item.Class, item.Sections); err != nil {
				return courses, employees, fmt.Errorf("item %d: %w", i, err)
			}
			courses++
		case item.Type == domain.KindEmployee && item.Employee != nil:
			if err := w.SaveEmployee(ctx, item.Employee); err != nil {
				return courses, employees, fmt.Errorf("item %d: %w", i, err)
			}
			employees++
		default:
			return courses, employees, fmt.Errorf("item %d: %w: unsupported type %q",
				i, domain.ErrInvalidRequest, item.Type)
		}
	}
	return courses, employees, nil
}
