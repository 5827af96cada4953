package d1

import (
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/tarmac-project/d1/logging"
	"github.com/tarmac-project/d1/metrics"
)

// DefaultBaseURL is the Cloudflare API prefix the query endpoint is built on.
const DefaultBaseURL = "https://api.cloudflare.com/client/v4"

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// Doer sends a single HTTP request. *http.Client and httpclient.HostClient satisfy it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config controls how a Client reaches the D1 API.
type Config struct {
	// AccountID is the Cloudflare account identifier used in the URL path.
	AccountID string `validate:"required"`

	// APIKey is the API token sent as a bearer credential.
	APIKey string `validate:"required"`

	// DatabaseID is the D1 database identifier used in the URL path.
	DatabaseID string `validate:"required"`

	// BaseURL overrides DefaultBaseURL. A trailing slash is ignored.
	BaseURL string `validate:"omitempty,url"`

	// HTTPClient performs requests. Defaults to http.DefaultClient.
	HTTPClient Doer `validate:"-"`

	// Logger receives diagnostics. Defaults to logging.Nop.
	Logger logging.Logger `validate:"-"`

	// Metrics, when set, records query counts, failures, in-flight requests, and durations.
	Metrics metrics.Client `validate:"-"`
}

// Client executes SQL against a single D1 database. It is immutable after New
// and safe for concurrent use.
type Client struct {
	endpoint string
	apiKey   string
	http     Doer
	logger   logging.Logger
	recorder *metrics.QueryRecorder
}

// Ensure Client always satisfies the RawQuerier interface at compile time.
var _ RawQuerier = (*Client)(nil)

// New validates cfg and creates a Client. The credentials are checked for
// presence only; malformed values surface as API errors.
func New(cfg Config) (*Client, error) {
	if err := getValidator().Struct(cfg); err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}

	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	base = strings.TrimRight(base, "/")

	c := &Client{
		endpoint: base + "/accounts/" + cfg.AccountID + "/d1/database/" + cfg.DatabaseID + "/query",
		apiKey:   cfg.APIKey,
		http:     cfg.HTTPClient,
		logger:   cfg.Logger,
	}

	if c.http == nil {
		c.http = http.DefaultClient
	}
	if c.logger == nil {
		c.logger = logging.Nop()
	}

	if cfg.Metrics != nil {
		rec, err := metrics.NewQueryRecorder(cfg.Metrics)
		if err != nil {
			return nil, err
		}
		c.recorder = rec
	}

	return c, nil
}

// Endpoint returns the query URL requests are sent to.
func (c *Client) Endpoint() string { return c.endpoint }
