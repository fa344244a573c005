// Package fdsn is an HTTP client for FDSN web services (fdsnws-station and
// fdsnws-dataselect). One Client per data centre base URL; the same client
// serves as both a station catalog and a waveform source.
package fdsn

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/Tejaji-0/earthquake-detector/internal/domain"
)

// fdsnTimeLayout is the timestamp format accepted by FDSN query parameters.
const fdsnTimeLayout = "2006-01-02T15:04:05"

// kmPerDegree converts a kilometre radius to the degree radius FDSN station
// queries expect (mean great-circle kilometres per degree of arc).
const kmPerDegree = 111.32

// Client queries one FDSN data centre.
type Client struct {
	sourceID   string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a client for one data centre, e.g.
// NewClient("IRIS", "https://service.iris.edu", 30*time.Second, logger).
func NewClient(sourceID, baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		sourceID: sourceID,
		baseURL:  baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

func (c *Client) SourceID() string { return c.sourceID }

// Fetch retrieves miniSEED waveform data for one (network, station, channel
// pattern) over the window. Returns domain.ErrNoData when the service has
// nothing for the request (HTTP 204/404); other failures are transient.
func (c *Client) Fetch(ctx context.Context, network, station, channelPattern string, window domain.TimeWindow) (domain.Waveform, error) {
	params := url.Values{
		"net":       {network},
		"sta":       {station},
		"loc":       {"*"},
		"cha":       {channelPattern},
		"starttime": {window.Start.UTC().Format(fdsnTimeLayout)},
		"endtime":   {window.End.UTC().Format(fdsnTimeLayout)},
	}
	fullURL := fmt.Sprintf("%s/fdsnws/dataselect/1/query?%s", c.baseURL, params.Encode())

	body, err := c.doRequest(ctx, fullURL, "dataselect")
	if err != nil {
		return domain.Waveform{}, err
	}
	if len(body) == 0 {
		return domain.Waveform{}, domain.ErrNoData
	}

	return domain.Waveform{
		Data:        body,
		RecordCount: domain.CountMiniSEEDRecords(body),
		SourceID:    c.sourceID,
		Channel:     channelPattern,
	}, nil
}

// doRequest performs one GET and classifies the response: 200 returns the
// body, 204 and 404 mean no data, anything else is a transient service error.
func (c *Client) doRequest(ctx context.Context, fullURL, service string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s request: %w", c.sourceID, service, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read %s response: %w", service, err)
		}
		return body, nil
	case http.StatusNoContent, http.StatusNotFound:
		return nil, domain.ErrNoData
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%s %s error: status %d: %s", c.sourceID, service, resp.StatusCode, body)
	}
}
