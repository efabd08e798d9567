package integration

// SourceSpec describes how to talk to one external source: which credential
// fields it needs, which field carries the bearer token, which fields are sent
// as extra headers, and which data types it serves by default.
type SourceSpec struct {
	Name             string
	RequiredFields   []string
	TokenField       string
	HeaderFields     map[string]string // credential key -> header name
	DefaultDataTypes []string
}

// Sources is the catalog of external APIs the pipeline knows how to poll,
// in the order data types are processed within a cycle.
var Sources = []SourceSpec{
	{
		Name:             "wbuy",
		RequiredFields:   []string{"api_url", "api_token", "store_id"},
		TokenField:       "api_token",
		HeaderFields:     map[string]string{"store_id": "X-Store-ID"},
		DefaultDataTypes: []string{"produtos", "pedidos", "clientes", "afiliados"},
	},
	{
		Name:             "activecampaign",
		RequiredFields:   []string{"api_url", "api_key"},
		TokenField:       "api_key",
		HeaderFields:     map[string]string{"api_key": "Api-Token"},
		DefaultDataTypes: []string{"contacts", "lists", "campaigns"},
	},
	{
		Name:             "facebook_ads",
		RequiredFields:   []string{"api_url", "access_token", "account_id"},
		TokenField:       "access_token",
		HeaderFields:     map[string]string{},
		DefaultDataTypes: []string{"campaigns", "insights"},
	},
	{
		Name:             "google_analytics",
		RequiredFields:   []string{"api_url", "access_token", "property_id"},
		TokenField:       "access_token",
		HeaderFields:     map[string]string{},
		DefaultDataTypes: []string{"sessions", "events"},
	},
	{
		Name:             "stape",
		RequiredFields:   []string{"api_url", "api_key"},
		TokenField:       "api_key",
		HeaderFields:     map[string]string{},
		DefaultDataTypes: []string{"containers"},
	},
	{
		Name:             "tiny",
		RequiredFields:   []string{"api_url", "api_token"},
		TokenField:       "api_token",
		HeaderFields:     map[string]string{},
		DefaultDataTypes: []string{"produtos", "pedidos"},
	},
}

// defaultCredentials keeps the pipeline runnable unattended in local/dev
// environments when a tenant has no connected integration for a source.
var defaultCredentials = map[string]map[string]string{
	"wbuy": {
		"api_url":   "https://sistema.sandbox.wbuy.com.br/api/v1",
		"api_token": "sandbox-token",
		"store_id":  "sandbox-store",
	},
	"activecampaign": {
		"api_url": "https://sandbox.api-us1.com/api/3",
		"api_key": "sandbox-key",
	},
	"facebook_ads": {
		"api_url":      "https://graph.facebook.com/v19.0",
		"access_token": "sandbox-token",
		"account_id":   "act_0",
	},
	"google_analytics": {
		"api_url":      "https://analyticsdata.googleapis.com/v1beta",
		"access_token": "sandbox-token",
		"property_id":  "0",
	},
	"stape": {
		"api_url": "https://api.stape.io/v2",
		"api_key": "sandbox-key",
	},
	"tiny": {
		"api_url":   "https://api.tiny.com.br/api2",
		"api_token": "sandbox-token",
	},
}

func specFor(source string) (SourceSpec, bool) {
	for _, spec := range Sources {
		if spec.Name == source {
			return spec, true
		}
	}
	return SourceSpec{}, false
}
