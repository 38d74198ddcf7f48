package main

import (
	"fmt"

	"github.com/kapu/symbol-social-metadata-go/internal/domain"
	"github.com/kapu/symbol-social-metadata-go/internal/service/metadata"
	"github.com/spf13/cobra"
)

type searchFlags struct {
	sourceAddress     string
	targetAddress     string
	scopedMetadataKey string
	targetID          string
	metadataType      int
	pageNumber        int
	pageSize          int
	order             string
}

func (f searchFlags) criteria() (metadata.SearchCriteria, error) {
	criteria := metadata.SearchCriteria{
		SourceAddress:     f.sourceAddress,
		TargetAddress:     f.targetAddress,
		ScopedMetadataKey: f.scopedMetadataKey,
		TargetID:          f.targetID,
		PageNumber:        f.pageNumber,
		PageSize:          f.pageSize,
		Order:             f.order,
	}

	switch f.order {
	case "", "asc", "desc":
	default:
		return criteria, fmt.Errorf("invalid --order %q: want asc or desc", f.order)
	}

	if f.metadataType >= 0 {
		mt := domain.MetadataType(f.metadataType)
		criteria.MetadataType = &mt
	}
	return criteria, nil
}

func newSearchCommand(opts *rootOptions) *cobra.Command {
	flags := searchFlags{}

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search ledger metadata and print formatted results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			criteria, err := flags.criteria()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			container, err := opts.setup(ctx)
			if err != nil {
				return err
			}
			defer teardown(container)

			page, err := container.Client.SearchMetadatas(ctx, criteria)
			if err != nil {
				return fmt.Errorf("metadata search failed: %w", err)
			}
			return writeJSON(cmd.OutOrStdout(), page)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.sourceAddress, "source-address", "", "Filter by source address")
	f.StringVar(&flags.targetAddress, "target-address", "", "Filter by target address")
	f.StringVar(&flags.scopedMetadataKey, "key", "", "Filter by scoped metadata key (hex)")
	f.StringVar(&flags.targetID, "target-id", "", "Filter by target mosaic or namespace id (hex)")
	f.IntVar(&flags.metadataType, "type", -1, "Filter by metadata type (0 account, 1 mosaic, 2 namespace)")
	f.IntVar(&flags.pageNumber, "page", 0, "Page number")
	f.IntVar(&flags.pageSize, "page-size", 0, "Page size")
	f.StringVar(&flags.order, "order", "", "Sort order (asc|desc)")
	return cmd
}
