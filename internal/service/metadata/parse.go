package metadata

import (
	"github.com/kapu/symbol-social-metadata-go/internal/constants"
	"github.com/kapu/symbol-social-metadata-go/internal/domain"
	"github.com/kapu/symbol-social-metadata-go/internal/ledger"
	"github.com/kapu/symbol-social-metadata-go/internal/metrics"
	"github.com/kapu/symbol-social-metadata-go/internal/service/decoder"
	"github.com/kapu/symbol-social-metadata-go/internal/util"
	"github.com/kapu/symbol-social-metadata-go/pkg/errors"
	"github.com/kapu/symbol-social-metadata-go/pkg/json"
	"github.com/sourcegraph/conc/panics"
	"go.uber.org/zap"
)

const (
	skipDecode  = "decode"
	skipInvalid = "invalid"
	skipPanic   = "panic"
)

// socialPayload is the JSON document stored, hex encoded, in a social metadata value.
// Keys are matched case-sensitively.
type socialPayload struct {
	URL       string `json:"url"`
	Name      string `json:"name"`
	ImageURL  string `json:"imageUrl"`
	Namespace string `json:"namespace"`
}

// Parser turns raw metadata records into social metadata entries.
type Parser struct {
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewParser(m *metrics.Metrics, logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{metrics: m, logger: logger}
}

// Parse decodes every record independently and returns the valid entries in input
// order together with the number of records it dropped. Entry ids are derived from
// the record's position in records, so dropped records leave gaps.
func (p *Parser) Parse(records []domain.RawMetadataRecord) ([]domain.SocialMetadataEntry, int) {
	parsed := make([]domain.SocialMetadataEntry, 0, len(records))
	skipped := 0

	for index, record := range records {
		var (
			entry  domain.SocialMetadataEntry
			reason string
			err    error
		)

		var pc panics.Catcher
		pc.Try(func() { entry, reason, err = p.parseRecord(index, record) })
		if r := pc.Recovered(); r != nil {
			reason = skipPanic
			err = errors.NewDecodeError("panic while parsing record", record.ID, r.AsError())
		}

		if reason != "" {
			skipped++
			p.metrics.RecordSkipped(reason)
			if err != nil {
				p.logger.Warn("Failed to parse social metadata",
					zap.Error(err),
					zap.String("id", record.ID),
					zap.String("value", util.TruncateString(record.MetadataEntry.Value, constants.APIConfig.PreviewLength)),
				)
			}
			continue
		}
		parsed = append(parsed, entry)
	}

	return parsed, skipped
}

// parseRecord returns a non-empty skip reason when the record must be dropped.
// Validation failures are dropped without an error so they are not logged.
func (p *Parser) parseRecord(index int, record domain.RawMetadataRecord) (domain.SocialMetadataEntry, string, error) {
	if err := record.DecodeErr(); err != nil {
		return domain.SocialMetadataEntry{}, skipDecode, errors.NewDecodeError("metadata record has an unexpected shape", record.ID, err)
	}

	value := record.MetadataEntry.Value
	p.logger.Debug("Processing hex value", zap.String("value", util.TruncateString(value, constants.APIConfig.PreviewLength)))

	text := decoder.HexToUTF8(value)
	p.logger.Debug("Decoded string", zap.String("text", util.TruncateString(text, constants.APIConfig.PreviewLength)))

	var payload socialPayload
	if err := json.UnmarshalStrict([]byte(text), &payload); err != nil {
		return domain.SocialMetadataEntry{}, skipDecode, errors.NewDecodeError("metadata value is not a social metadata document", record.ID, err)
	}

	if payload.Name != "" {
		if name, ok := decoder.RepairLegacyName(payload.Name); ok {
			payload.Name = name
		} else {
			p.logger.Debug("Failed to decode name field, using original", zap.String("name", payload.Name))
		}
	}

	if util.IsBlank(payload.URL) || util.IsBlank(payload.Name) {
		return domain.SocialMetadataEntry{}, skipInvalid, nil
	}

	target := record.MetadataEntry.TargetAddress
	formatted, err := NormalizeAddress(target)
	if err != nil {
		p.logger.Debug("Failed to convert target address", zap.String("address", target.String()), zap.Error(err))
	} else {
		p.logger.Debug("Target address conversion", zap.String("from", target.String()), zap.String("to", formatted))
	}

	return domain.SocialMetadataEntry{
		ID:            domain.SocialMetadataID(index),
		URL:           payload.URL,
		Name:          payload.Name,
		ImageURL:      payload.ImageURL,
		Namespace:     payload.Namespace,
		SourceAddress: record.MetadataEntry.SourceAddress.String(),
		TargetAddress: formatted,
	}, "", nil
}

// NormalizeAddress renders an address field in plain form. Structured addresses are
// rendered directly, 48 character hex strings are decoded, and anything else is
// re-validated as a plain address. On failure the original value is returned with the error.
func NormalizeAddress(field domain.AddressField) (string, error) {
	if field.IsObject() {
		return field.Address.Plain(), nil
	}

	var (
		addr *ledger.Address
		err  error
	)
	if ledger.IsEncodedAddress(field.Raw) {
		addr, err = ledger.AddressFromEncoded(field.Raw)
	} else {
		addr, err = ledger.AddressFromRaw(field.Raw)
	}
	if err != nil {
		return field.Raw, err
	}
	return addr.Plain(), nil
}
