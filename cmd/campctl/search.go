package main

import (
	"encoding/json"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pkordes/camp-directory/internal/domain"
	"github.com/pkordes/camp-directory/internal/handler"
)

func newSearchCmd(open opener) *cobra.Command {
	var (
		raw            domain.RawSearch
		page, pageSize int
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search approved camps and print the page as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if page > 0 {
				raw.Page = strconv.Itoa(page)
			}
			if pageSize > 0 {
				raw.PageSize = strconv.Itoa(pageSize)
			}
			q := domain.NewSearchQuery(raw)

			return withBackend(cmd, open, func(b *backend) error {
				res, err := b.searcher.Search(cmd.Context(), q)
				if err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(handler.NewSearchResponse(res))
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&raw.Term, "q", "", "Substring of the camp name")
	f.StringVar(&raw.State, "state", "", "Two-letter state code")
	f.StringVar(&raw.DateFrom, "date-from", "", "Start of the date window")
	f.StringVar(&raw.DateTo, "date-to", "", "End of the date window")
	f.StringVar(&raw.PriceMin, "price-min", "", "Lower price bound")
	f.StringVar(&raw.PriceMax, "price-max", "", "Upper price bound")
	f.StringSliceVar(&raw.Types, "type", nil, "Camp type names (repeatable)")
	f.StringSliceVar(&raw.Weeks, "week", nil, "Week names (repeatable)")
	f.StringSliceVar(&raw.Activities, "activity", nil, "Activity names (repeatable)")
	f.StringVar(&raw.Sort, "sort", "random", "random, name_asc, price_asc, price_desc, rating_desc or newest")
	f.StringVar(&raw.Seed, "seed", "", "Seed of a previous random-order page")
	f.IntVar(&page, "page", 1, "Page number")
	f.IntVar(&pageSize, "page-size", domain.DefaultPageSize, "Results per page (max 100)")
	return cmd
}
