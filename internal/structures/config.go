package structures

import "time"

type Server struct {
	Host        string   `yaml:"host" validate:"required"`
	Port        int      `yaml:"port" validate:"required|uint|min:1"`
	CorsOrigins []string `yaml:"corsOrigins"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// StorageConfig selects the persistence driver. The file driver keeps
// everything in memory and snapshots it to FilePath every SaveInterval.
type StorageConfig struct {
	Driver       string        `yaml:"driver" validate:"required|in:postgres,file"`
	FilePath     string        `yaml:"filePath"`
	SaveInterval time.Duration `yaml:"saveInterval"`
}

type DatabaseConfig struct {
	Url             string        `yaml:"url"`
	MaxConns        int32         `yaml:"maxConns"`
	MinConns        int32         `yaml:"minConns"`
	MaxConnLifetime time.Duration `yaml:"maxConnLifetime"`
	Migrate         bool          `yaml:"migrate"`
}

type LedgerConfig struct {
	Enabled        bool          `yaml:"enabled"`
	Url            string        `yaml:"url"`
	ApiKey         string        `yaml:"apiKey"`
	TotalFunction  string        `yaml:"totalFunction"`
	DetailFunction string        `yaml:"detailFunction"`
	Timeout        time.Duration `yaml:"timeout"`
	RetryMax       int           `yaml:"retryMax"`
}

type AuthConfig struct {
	JwtSecret string `yaml:"jwtSecret" validate:"required"`
	RoleClaim string `yaml:"roleClaim"`
	Issuer    string `yaml:"issuer"`
	Audience  string `yaml:"audience"`
}

// DiscountTier is one step of a traffic surcharge table. A zero UpTo marks
// the open-ended last step.
type DiscountTier struct {
	UpTo   float64 `yaml:"upTo"`
	Amount float64 `yaml:"amount"`
}

type DiscountsConfig struct {
	Currency string                    `yaml:"currency"`
	Tiers    map[string][]DiscountTier `yaml:"tiers"`
}

type Config struct {
	AppName   string
	Debug     bool
	Path      string
	WebServer Server          `yaml:"webServer"`
	Logger    LoggerConfig    `yaml:"logger"`
	Cache     CacheConfig     `yaml:"cache"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Storage   StorageConfig   `yaml:"storage"`
	Database  DatabaseConfig  `yaml:"database"`
	Ledger    LedgerConfig    `yaml:"ledger"`
	Auth      AuthConfig      `yaml:"auth"`
	Discounts DiscountsConfig `yaml:"discounts"`
}
