package metadata

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/kapu/symbol-social-metadata-go/internal/constants"
	"github.com/kapu/symbol-social-metadata-go/internal/domain"
	"github.com/kapu/symbol-social-metadata-go/internal/service/decoder"
	"github.com/kapu/symbol-social-metadata-go/pkg/errors"
)

// SearchCriteria filters a generic /metadata search. Zero values are omitted.
type SearchCriteria struct {
	SourceAddress     string
	TargetAddress     string
	ScopedMetadataKey string
	TargetID          string
	MetadataType      *domain.MetadataType
	PageNumber        int
	PageSize          int
	Order             string
}

func (c SearchCriteria) Values() url.Values {
	params := url.Values{}
	set := func(key, value string) {
		if value != "" {
			params.Set(key, value)
		}
	}
	set("sourceAddress", c.SourceAddress)
	set("targetAddress", c.TargetAddress)
	set("scopedMetadataKey", strings.ToUpper(c.ScopedMetadataKey))
	set("targetId", strings.ToUpper(c.TargetID))
	set("order", c.Order)
	if c.MetadataType != nil {
		params.Set("metadataType", strconv.Itoa(int(*c.MetadataType)))
	}
	if c.PageNumber > 0 {
		params.Set("pageNumber", strconv.Itoa(c.PageNumber))
	}
	if c.PageSize > 0 {
		params.Set("pageSize", strconv.Itoa(c.PageSize))
	}
	return params
}

// MetadataViewPage is a formatted search result.
type MetadataViewPage struct {
	Data       []domain.MetadataView `json:"data"`
	Pagination domain.Pagination     `json:"pagination"`
}

// Search runs a generic metadata search. Unlike the social metadata path it reports errors.
func (c *Client) Search(ctx context.Context, criteria SearchCriteria) (*domain.MetadataPage, error) {
	nodeURL := c.nodeURL()
	if nodeURL == "" {
		return nil, errors.NewNotReadyError("node URL is not available yet")
	}

	var page domain.MetadataPage
	if _, err := c.doRequest(ctx, nodeURL, constants.APIConfig.MetadataPath, criteria.Values(), &page); err != nil {
		return nil, err
	}
	if page.Data == nil {
		page.Data = []domain.RawMetadataRecord{}
	}
	return &page, nil
}

// SearchMetadatas runs Search and formats every record for display.
func (c *Client) SearchMetadatas(ctx context.Context, criteria SearchCriteria) (*MetadataViewPage, error) {
	page, err := c.Search(ctx, criteria)
	if err != nil {
		return nil, err
	}

	out := &MetadataViewPage{
		Data:       make([]domain.MetadataView, 0, len(page.Data)),
		Pagination: page.Pagination,
	}
	for _, record := range page.Data {
		out.Data = append(out.Data, FormatMetadata(record))
	}
	return out, nil
}

// FormatMetadata renders a record for display: plain addresses, upper case ids,
// a metadata type label and the decoded value.
func FormatMetadata(record domain.RawMetadataRecord) domain.MetadataView {
	entry := record.MetadataEntry
	source, _ := NormalizeAddress(entry.SourceAddress)
	target, _ := NormalizeAddress(entry.TargetAddress)

	return domain.MetadataView{
		MetadataID:        record.ID,
		CompositeHash:     entry.CompositeHash,
		ScopedMetadataKey: strings.ToUpper(entry.ScopedMetadataKey),
		SourceAddress:     source,
		TargetAddress:     target,
		MetadataType:      MetadataTypeLabel(entry.MetadataType),
		TargetID:          formatTargetID(entry.TargetID),
		Value:             entry.Value,
		DecodedValue:      decoder.HexToUTF8(entry.Value),
	}
}

func MetadataTypeLabel(t domain.MetadataType) string {
	if label, ok := constants.MetadataTypeLabels[int(t)]; ok {
		return label
	}
	return constants.UnknownMetadataType
}

func formatTargetID(id string) string {
	if strings.Trim(id, "0") == "" {
		return constants.Unavailable
	}
	return strings.ToUpper(id)
}
