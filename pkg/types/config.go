package types

import "errors"

// Config holds backend selection and the ledger-wide parameters read from
// config.yaml.
type Config struct {
	Backend  string  `json:"backend" yaml:"backend"`
	DataDir  string  `json:"data_dir" yaml:"data_dir"`
	PageSize int     `json:"page_size" yaml:"page_size"`
	VATRate  float64 `json:"vat_rate" yaml:"vat_rate"`
	Locale   string  `json:"locale" yaml:"locale"`
	Language string  `json:"language" yaml:"language"`

	// SkipSeed disables the demo data inserted on first attach.
	SkipSeed bool `json:"skip_seed" yaml:"skip_seed"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
)

// Defaults applied when config.yaml leaves a key unset.
const (
	DefaultPageSize = 10
	DefaultVATRate  = 12.0
	DefaultLocale   = "uz"
	DefaultLanguage = "en"
)

// Config validation errors.
var (
	ErrBackendEmpty    = errors.New("backend must not be empty")
	ErrBackendUnknown  = errors.New("unknown backend")
	ErrPageSizeInvalid = errors.New("page size must be positive")
	ErrVATRateInvalid  = errors.New("vat rate must be between 0 and 100")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure. A zero PageSize is allowed and means
// DefaultPageSize; a negative one is rejected.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if c.PageSize < 0 {
		return ErrPageSizeInvalid
	}
	if c.VATRate < 0 || c.VATRate > 100 {
		return ErrVATRateInvalid
	}
	return nil
}

// WithDefaults returns a copy with unset optional fields filled in.
func (c Config) WithDefaults() Config {
	if c.PageSize == 0 {
		c.PageSize = DefaultPageSize
	}
	if c.Locale == "" {
		c.Locale = DefaultLocale
	}
	if c.Language == "" {
		c.Language = DefaultLanguage
	}
	return c
}
