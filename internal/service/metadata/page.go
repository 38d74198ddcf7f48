package metadata

import (
	"context"
	"net/url"
	"strconv"

	"github.com/kapu/symbol-social-metadata-go/internal/constants"
	"github.com/kapu/symbol-social-metadata-go/internal/domain"
	"github.com/kapu/symbol-social-metadata-go/pkg/errors"
	"go.uber.org/zap"
)

// PageStatus explains why a page came back the way it did.
type PageStatus string

const (
	PageOK        PageStatus = "ok"
	PageNotReady  PageStatus = "not_ready"
	PageHTTPError PageStatus = "http_error"
	PageFailed    PageStatus = "failed"
)

func (s PageStatus) String() string {
	return string(s)
}

// PageResult is one social metadata page. Records is empty unless Status is PageOK.
type PageResult struct {
	PageNumber int
	Status     PageStatus
	StatusCode int
	Records    []domain.RawMetadataRecord
	Err        error
}

// FetchPage requests one page of social metadata records. It never returns an error;
// failures are reported through Status and Err with no records.
func (c *Client) FetchPage(ctx context.Context, pageNumber int) PageResult {
	if pageNumber < 1 {
		pageNumber = 1
	}
	result := PageResult{PageNumber: pageNumber, Records: []domain.RawMetadataRecord{}}

	nodeURL := c.nodeURL()
	if nodeURL == "" {
		c.logger.Warn("Node URL is not available yet")
		result.Status = PageNotReady
		result.Err = errors.NewNotReadyError("node URL is not available yet")
		c.metrics.PageFetched(result.Status.String())
		return result
	}

	params := url.Values{}
	params.Set("scopedMetadataKey", c.key)
	params.Set("pageSize", strconv.Itoa(c.pageSize))
	params.Set("pageNumber", strconv.Itoa(pageNumber))

	var page domain.MetadataPage
	statusCode, err := c.doRequest(ctx, nodeURL, constants.APIConfig.MetadataPath, params, &page)
	result.StatusCode = statusCode

	switch {
	case err != nil && statusCode != 0 && (statusCode < 200 || statusCode >= 300):
		c.logger.Error("Metadata API response not OK",
			zap.Int("status", statusCode),
			zap.Int("page", pageNumber),
			zap.Error(err),
		)
		result.Status = PageHTTPError
		result.Err = err
	case err != nil:
		c.logger.Error("Error fetching social metadata",
			zap.Int("page", pageNumber),
			zap.Error(err),
		)
		result.Status = PageFailed
		result.Err = err
	default:
		result.Status = PageOK
		if page.Data != nil {
			result.Records = page.Data
		}
	}

	c.metrics.PageFetched(result.Status.String())
	return result
}

// SocialMetadataPage is FetchPage reduced to its records.
func (c *Client) SocialMetadataPage(ctx context.Context, pageNumber int) []domain.RawMetadataRecord {
	return c.FetchPage(ctx, pageNumber).Records
}
