package sync

import (
	"strconv"
	"time"

	"go-synchub/internal/connectors"
)

// Normalizer maps heterogeneous source payloads into ExternalRecords.
type Normalizer struct {
	now func() time.Time
}

func NewNormalizer() *Normalizer {
	return &Normalizer{now: time.Now}
}

// Normalize wraps the whole raw record as the opaque payload and derives the
// external id from its id/ID field. A record without one fails with
// MissingIDError. When the integration carries a transform script, it runs
// over the raw record first.
func (n *Normalizer) Normalize(tenantID, source, dataType, script string, raw connectors.RawRecord, index int) (ExternalRecord, error) {
	if script != "" {
		transformed, err := applyTransform(script, raw)
		if err != nil {
			return ExternalRecord{}, &TransformError{Source: source, DataType: dataType, Err: err}
		}
		raw = transformed
	}

	externalID := extractID(raw)
	if externalID == "" {
		return ExternalRecord{}, &MissingIDError{Source: source, DataType: dataType, Index: index}
	}

	now := n.now()
	return ExternalRecord{
		TenantID:   tenantID,
		Source:     source,
		DataType:   dataType,
		ExternalID: externalID,
		Payload:    raw,
		LastSync:   now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

func extractID(raw connectors.RawRecord) string {
	for _, key := range []string{"id", "ID"} {
		val, ok := raw[key]
		if !ok {
			continue
		}
		switch v := val.(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case int:
			return strconv.Itoa(v)
		case int64:
			return strconv.FormatInt(v, 10)
		}
	}
	return ""
}
