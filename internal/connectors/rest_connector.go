package connectors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
)

// RESTConnector implements SourceConnector against paginated REST list endpoints
// of the form GET {base}/{dataType}?page=&limit=.
type RESTConnector struct {
	client     *http.Client
	logger     *zap.Logger
	pageLimit  int
	maxRetries int
}

func NewRESTConnector(logger *zap.Logger, pageLimit, maxRetries int) *RESTConnector {
	if pageLimit <= 0 {
		pageLimit = 100
	}
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &RESTConnector{
		client:     &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
		pageLimit:  pageLimit,
		maxRetries: maxRetries,
	}
}

type listEnvelope struct {
	Data []RawRecord `json:"data"`
	Meta *struct {
		TotalPages int `json:"total_pages"`
	} `json:"meta"`
}

type fetchedPage struct {
	records    []RawRecord
	totalPages int // 0 when the source sends no meta
}

// FetchAll walks the pagination contract of the source until either the
// reported total_pages is exhausted or a short/empty page ends the listing.
// All pages are accumulated in memory; volumes are assumed small.
func (c *RESTConnector) FetchAll(ctx context.Context, creds Credentials, dataType string) ([]RawRecord, error) {
	var all []RawRecord

	for page := 1; ; page++ {
		fetched, err := c.fetchPageWithRetry(ctx, creds, dataType, page)
		if err != nil {
			return nil, err
		}

		all = append(all, fetched.records...)

		if fetched.totalPages > 0 {
			if page >= fetched.totalPages {
				break
			}
			continue
		}
		if len(fetched.records) < c.pageLimit {
			break
		}
	}

	return all, nil
}

// fetchPageWithRetry retries transient failures (network errors, 5xx) with
// exponential backoff; 4xx responses are permanent.
func (c *RESTConnector) fetchPageWithRetry(ctx context.Context, creds Credentials, dataType string, page int) (fetchedPage, error) {
	operation := func() (fetchedPage, error) {
		fetched, err := c.fetchPage(ctx, creds, dataType, page)
		if err == nil {
			return fetched, nil
		}

		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
			return fetchedPage{}, backoff.Permanent(err)
		}

		c.logger.Warn("retrying page fetch",
			zap.String("source", creds.Source),
			zap.String("data_type", dataType),
			zap.Int("page", page),
			zap.Error(err))
		return fetchedPage{}, err
	}

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(uint(c.maxRetries)))
}

func (c *RESTConnector) fetchPage(ctx context.Context, creds Credentials, dataType string, page int) (fetchedPage, error) {
	endpoint := fmt.Sprintf("%s/%s", strings.TrimRight(creds.BaseURL, "/"), dataType)
	params := url.Values{}
	params.Set("page", fmt.Sprintf("%d", page))
	params.Set("limit", fmt.Sprintf("%d", c.pageLimit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fetchedPage{}, err
	}
	req.Header.Set("Accept", "application/json")
	if creds.Token != "" {
		req.Header.Set("Authorization", "Bearer "+creds.Token)
	}
	for k, v := range creds.Headers {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fetchedPage{}, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fetchedPage{}, &APIError{
			Source: creds.Source,
			Status: resp.StatusCode,
			Body:   strings.TrimSpace(string(body)),
		}
	}

	return parseListBody(body)
}

// parseListBody accepts the three shapes the sources are known to return:
// {data: [...], meta: {total_pages}}, a bare array, or a single object.
func parseListBody(body []byte) (fetchedPage, error) {
	var envelope listEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Data != nil {
			fetched := fetchedPage{records: envelope.Data}
			if envelope.Meta != nil {
				fetched.totalPages = envelope.Meta.TotalPages
			}
			return fetched, nil
		}

		// Object without a data key: treat the whole object as one record.
		var single RawRecord
		if err := json.Unmarshal(body, &single); err == nil && len(single) > 0 {
			return fetchedPage{records: []RawRecord{single}, totalPages: 1}, nil
		}
		return fetchedPage{totalPages: 1}, nil
	}

	var bare []RawRecord
	if err := json.Unmarshal(body, &bare); err != nil {
		return fetchedPage{}, fmt.Errorf("unexpected list response shape: %w", err)
	}
	return fetchedPage{records: bare}, nil
}
