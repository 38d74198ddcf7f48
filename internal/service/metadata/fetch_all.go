package metadata

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kapu/symbol-social-metadata-go/internal/domain"
	"github.com/sourcegraph/conc/panics"
	"go.uber.org/zap"
)

// Outcome summarizes a full fetch so "nothing published" and "node unreachable"
// can be told apart even though both produce an empty list.
type Outcome string

const (
	OutcomeOK       Outcome = "ok"
	OutcomeEmpty    Outcome = "empty"
	OutcomeNotReady Outcome = "not_ready"
	OutcomeFailed   Outcome = "failed"
	OutcomePartial  Outcome = "partial"
)

func (o Outcome) String() string {
	return string(o)
}

type FetchResult struct {
	RunID      string
	Entries    []domain.SocialMetadataEntry
	Pages      int
	RawRecords int
	Skipped    int
	Outcome    Outcome
	Err        error
	Duration   time.Duration
}

// FetchAll walks the social metadata pages from page 1 until a short or empty page,
// then parses everything it collected. Pages are requested one at a time.
//
// A page that fails ends the walk; records gathered before it are still parsed.
func (c *Client) FetchAll(ctx context.Context) FetchResult {
	started := time.Now()
	result := FetchResult{RunID: uuid.NewString()}
	logger := c.logger.With(zap.String("run_id", result.RunID))

	var (
		all      []domain.RawMetadataRecord
		notReady bool
		failed   bool
	)

	for pageNumber := 1; ; pageNumber++ {
		if err := ctx.Err(); err != nil {
			logger.Warn("Fetch cancelled", zap.Int("page", pageNumber), zap.Error(err))
			result.Err = err
			failed = true
			break
		}

		var page PageResult
		var pc panics.Catcher
		pc.Try(func() { page = c.FetchPage(ctx, pageNumber) })
		if r := pc.Recovered(); r != nil {
			logger.Error("Error fetching page", zap.Int("page", pageNumber), zap.Any("panic", r.Value))
			result.Err = fmt.Errorf("page %d: %w", pageNumber, r.AsError())
			failed = true
			break
		}
		result.Pages++

		switch page.Status {
		case PageNotReady:
			notReady = true
			result.Err = page.Err
		case PageHTTPError, PageFailed:
			failed = true
			result.Err = page.Err
		}

		if len(page.Records) == 0 {
			break
		}
		all = append(all, page.Records...)
		if len(page.Records) < c.pageSize {
			break
		}
	}

	result.RawRecords = len(all)
	result.Entries, result.Skipped = c.parser.Parse(all)
	result.Outcome = outcomeOf(notReady, failed, len(all), len(result.Entries))
	result.Duration = time.Since(started)

	c.metrics.FetchCompleted(result.Outcome.String(), len(result.Entries), result.Duration)
	logger.Info("Fetched social metadata",
		zap.Int("pages", result.Pages),
		zap.Int("raw_records", result.RawRecords),
		zap.Int("entries", len(result.Entries)),
		zap.Int("skipped", result.Skipped),
		zap.String("outcome", result.Outcome.String()),
		zap.Duration("elapsed", result.Duration),
	)
	return result
}

// AllSocialMetadata runs FetchAll and returns only the entries. It never fails;
// any problem shows up as a shorter or empty list.
func (c *Client) AllSocialMetadata(ctx context.Context) []domain.SocialMetadataEntry {
	return c.FetchAll(ctx).Entries
}

func outcomeOf(notReady, failed bool, raw, entries int) Outcome {
	switch {
	case notReady:
		return OutcomeNotReady
	case failed && raw > 0:
		return OutcomePartial
	case failed:
		return OutcomeFailed
	case entries == 0:
		return OutcomeEmpty
	default:
		return OutcomeOK
	}
}
