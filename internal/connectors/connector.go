package connectors

import (
	"context"
	"fmt"
)

// RawRecord is one record exactly as the external API returned it.
type RawRecord map[string]interface{}

// Credentials are the resolved connection parameters for one (tenant, source) pair.
type Credentials struct {
	Source  string
	BaseURL string
	Token   string
	Headers map[string]string // source-specific headers, e.g. X-Store-ID
}

// APIError is returned for non-2xx responses from a source API.
type APIError struct {
	Source string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error: %d - %s", e.Source, e.Status, e.Body)
}

// SourceConnector fetches all pages of one data type from an external API.
type SourceConnector interface {
	FetchAll(ctx context.Context, creds Credentials, dataType string) ([]RawRecord, error)
}
