package metadata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/kapu/symbol-social-metadata-go/internal/constants"
	"github.com/kapu/symbol-social-metadata-go/internal/metrics"
	"github.com/kapu/symbol-social-metadata-go/internal/util"
	"github.com/kapu/symbol-social-metadata-go/pkg/errors"
	"github.com/kapu/symbol-social-metadata-go/pkg/json"
	"go.uber.org/zap"
)

// NodeURLFunc returns the REST gateway base URL, or "" while no node has been selected.
type NodeURLFunc func() string

// StaticNodeURL always reports the same base URL.
func StaticNodeURL(baseURL string) NodeURLFunc {
	return func() string { return baseURL }
}

type ClientConfig struct {
	NodeURL           NodeURLFunc
	ScopedMetadataKey string
	PageSize          int
	HTTPClient        *http.Client
	Metrics           *metrics.Metrics
}

// Client talks to a Symbol REST gateway's /metadata endpoint.
type Client struct {
	nodeURL    NodeURLFunc
	key        string
	pageSize   int
	httpClient *http.Client
	metrics    *metrics.Metrics
	parser     *Parser
	logger     *zap.Logger
}

func NewClient(cfg ClientConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.NodeURL == nil {
		cfg.NodeURL = StaticNodeURL("")
	}
	if cfg.ScopedMetadataKey == "" {
		cfg.ScopedMetadataKey = constants.SocialMetadataConfig.ScopedMetadataKey
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = constants.SocialMetadataConfig.PageSize
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: constants.APIConfig.RequestTimeout}
	}

	return &Client{
		nodeURL:    cfg.NodeURL,
		key:        cfg.ScopedMetadataKey,
		pageSize:   cfg.PageSize,
		httpClient: cfg.HTTPClient,
		metrics:    cfg.Metrics,
		parser:     NewParser(cfg.Metrics, logger),
		logger:     logger,
	}
}

func (c *Client) PageSize() int {
	return c.pageSize
}

func (c *Client) ScopedMetadataKey() string {
	return c.key
}

// doRequest performs a GET against the node and decodes the JSON body into respBody.
// The returned status is the HTTP status code, or 0 when no response was received.
func (c *Client) doRequest(ctx context.Context, baseURL, path string, params url.Values, respBody any) (int, error) {
	reqURL := strings.TrimRight(baseURL, "/") + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	c.logger.Debug("Fetching from node", zap.String("url", reqURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, errors.NewAPIError("failed to create request", 0, map[string]any{
			"url": reqURL,
		}).WithCause(err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", constants.APIConfig.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, errors.NewAPIError("request failed", 0, map[string]any{
			"url": reqURL,
		}).WithCause(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, errors.NewAPIError("failed to read response", resp.StatusCode, map[string]any{
			"url": reqURL,
		}).WithCause(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, errors.NewAPIError(
			fmt.Sprintf("node API error: %s", resp.Status),
			resp.StatusCode,
			map[string]any{
				"url":  reqURL,
				"body": util.TruncateString(string(body), constants.APIConfig.PreviewLength),
			},
		)
	}

	c.logger.Debug("Raw response",
		zap.String("body", util.TruncateString(string(body), 2*constants.APIConfig.PreviewLength)),
	)

	if respBody != nil {
		if err := json.Unmarshal(body, respBody); err != nil {
			return resp.StatusCode, errors.NewAPIError("failed to decode response", resp.StatusCode, map[string]any{
				"url": reqURL,
			}).WithCause(err)
		}
	}

	return resp.StatusCode, nil
}
