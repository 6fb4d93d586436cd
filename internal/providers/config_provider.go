package providers

import (
	"fmt"
	"path/filepath"
	"strings"
	"talentpay/internal/structures"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const AppName = "talentpay"

var envBindings = map[string]string{
	"webServer.host":        "TALENTPAY_HOST",
	"webServer.port":        "TALENTPAY_PORT",
	"logger.level":          "TALENTPAY_LOG_LEVEL",
	"logger.dir":            "TALENTPAY_LOG_DIR",
	"cache.enabled":         "TALENTPAY_CACHE_ENABLED",
	"cache.size":            "TALENTPAY_CACHE_SIZE",
	"cache.ttl":             "TALENTPAY_CACHE_TTL",
	"metrics.enabled":       "TALENTPAY_METRICS_ENABLED",
	"storage.driver":        "TALENTPAY_STORAGE_DRIVER",
	"storage.filePath":      "TALENTPAY_STORAGE_FILE",
	"storage.saveInterval":  "TALENTPAY_SAVE_INTERVAL",
	"database.url":          "TALENTPAY_DATABASE_URL",
	"database.migrate":      "TALENTPAY_DATABASE_MIGRATE",
	"ledger.enabled":        "TALENTPAY_LEDGER_ENABLED",
	"ledger.url":            "TALENTPAY_LEDGER_URL",
	"ledger.apiKey":         "TALENTPAY_LEDGER_API_KEY",
	"ledger.retryMax":       "TALENTPAY_LEDGER_RETRY_MAX",
	"auth.jwtSecret":        "TALENTPAY_JWT_SECRET",
	"auth.roleClaim":        "TALENTPAY_ROLE_CLAIM",
	"discounts.currency":    "TALENTPAY_LOCAL_CURRENCY",
	"ledger.totalFunction":  "TALENTPAY_LEDGER_TOTAL_FN",
	"ledger.detailFunction": "TALENTPAY_LEDGER_DETAIL_FN",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("webServer.host", "0.0.0.0")
	v.SetDefault("webServer.port", 8080)
	v.SetDefault("webServer.corsOrigins", []string{"https://*", "http://*"})
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.mode", 0644)
	v.SetDefault("cache.ttl", "60s")
	v.SetDefault("storage.driver", "file")
	v.SetDefault("storage.saveInterval", "30s")
	v.SetDefault("database.maxConns", 10)
	v.SetDefault("database.maxConnLifetime", "1h")
	v.SetDefault("ledger.totalFunction", "groceries_total_wrapper")
	v.SetDefault("ledger.detailFunction", "groceries_detail_wrapper_b")
	v.SetDefault("ledger.timeout", "10s")
	v.SetDefault("ledger.retryMax", 0)
	v.SetDefault("auth.roleClaim", "app_role")
	v.SetDefault("discounts.currency", "COP")
}

// NewConfigProvider reads the YAML file named by the flags, applies
// TALENTPAY_* environment overrides (a .env file next to the binary is
// loaded first) and validates the result.
func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	_ = godotenv.Load()

	v := viper.New()
	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	setDefaults(v)
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	conf.AppName = AppName
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	return &conf, nil
}
