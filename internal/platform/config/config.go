package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Gateway names accepted by GATEWAY.
const (
	GatewayNull         = "null"
	GatewayCellsynt     = "cellsynt"
	GatewayFortySixElks = "46elks"
	GatewayTwilio       = "twilio"
	GatewayVonage       = "vonage"
	GatewayNexmo        = "nexmo"
	GatewayTelenor      = "telenor"
)

// Config holds all configuration for the transceiver service. Every key is
// read from config.defaults.yaml and can be overridden with an APP_ prefixed
// environment variable, e.g. APP_GATEWAY=46elks.
type Config struct {
	LogLevel                 string `mapstructure:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	LogFormat                string `mapstructure:"LOG_FORMAT" validate:"oneof=json text"`
	HTTPPort                 int    `mapstructure:"HTTP_PORT" validate:"min=1,max=65535"`
	HTTPClientTimeoutSeconds int    `mapstructure:"HTTP_CLIENT_TIMEOUT_SECONDS" validate:"min=1,max=300"`

	// Gateway selects the active provider.
	Gateway     string `mapstructure:"GATEWAY" validate:"oneof=null cellsynt 46elks twilio vonage nexmo telenor"`
	DefaultFrom string `mapstructure:"DEFAULT_FROM"`

	// APIJWTSecret verifies the Bearer tokens on the send endpoints. When it
	// is empty those endpoints reject every request.
	APIJWTSecret string `mapstructure:"API_JWT_SECRET"`

	Cellsynt     CellsyntConfig     `mapstructure:",squash"`
	FortySixElks FortySixElksConfig `mapstructure:",squash"`
	Twilio       TwilioConfig       `mapstructure:",squash"`
	Vonage       VonageConfig       `mapstructure:",squash"`
	Nexmo        NexmoConfig        `mapstructure:",squash"`
	Telenor      TelenorConfig      `mapstructure:",squash"`
}

type CellsyntConfig struct {
	Username   string `mapstructure:"CELLSYNT_USERNAME"`
	Password   string `mapstructure:"CELLSYNT_PASSWORD"`
	SMSURL     string `mapstructure:"CELLSYNT_SMS_URL" validate:"url"`
	PremiumURL string `mapstructure:"CELLSYNT_PREMIUM_URL" validate:"url"`
}

type FortySixElksConfig struct {
	Username string `mapstructure:"ELKS_USERNAME"`
	Password string `mapstructure:"ELKS_PASSWORD"`
	URL      string `mapstructure:"ELKS_URL" validate:"url"`
}

type TwilioConfig struct {
	AccountSID string `mapstructure:"TWILIO_ACCOUNT_SID"`
	AuthToken  string `mapstructure:"TWILIO_AUTH_TOKEN"`
}

type VonageConfig struct {
	APIKey    string `mapstructure:"VONAGE_API_KEY"`
	APISecret string `mapstructure:"VONAGE_API_SECRET"`
}

type NexmoConfig struct {
	APIKey    string `mapstructure:"NEXMO_API_KEY"`
	APISecret string `mapstructure:"NEXMO_API_SECRET"`
	URL       string `mapstructure:"NEXMO_URL" validate:"url"`
}

type TelenorConfig struct {
	Username         string `mapstructure:"TELENOR_USERNAME"`
	Password         string `mapstructure:"TELENOR_PASSWORD"`
	CustomerID       string `mapstructure:"TELENOR_CUSTOMER_ID"`
	CustomerPassword string `mapstructure:"TELENOR_CUSTOMER_PASSWORD"`
	// SupplementaryInformation is sent as sub_id_1 when set.
	SupplementaryInformation string `mapstructure:"TELENOR_SUPPLEMENTARY_INFORMATION"`
	// StatusDeliveryURL is where Telenor posts delivery reports, e.g. this
	// service's /webhooks/dlr.
	StatusDeliveryURL string `mapstructure:"TELENOR_STATUS_DELIVERY_URL" validate:"omitempty,url"`
	// BaseURL is the services root; the customer id and /sendsms are appended.
	BaseURL string `mapstructure:"TELENOR_BASE_URL" validate:"url"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("HTTP_PORT", 8080)
	v.SetDefault("HTTP_CLIENT_TIMEOUT_SECONDS", 30)
	v.SetDefault("GATEWAY", GatewayNull)
	v.SetDefault("DEFAULT_FROM", "")
	v.SetDefault("API_JWT_SECRET", "")

	v.SetDefault("CELLSYNT_USERNAME", "")
	v.SetDefault("CELLSYNT_PASSWORD", "")
	v.SetDefault("CELLSYNT_SMS_URL", "https://se-1.cellsynt.net/sms.php")
	v.SetDefault("CELLSYNT_PREMIUM_URL", "https://se-2.cellsynt.net/sendsms.php")

	v.SetDefault("ELKS_USERNAME", "")
	v.SetDefault("ELKS_PASSWORD", "")
	v.SetDefault("ELKS_URL", "https://api.46elks.com/a1/SMS")

	v.SetDefault("TWILIO_ACCOUNT_SID", "")
	v.SetDefault("TWILIO_AUTH_TOKEN", "")

	v.SetDefault("VONAGE_API_KEY", "")
	v.SetDefault("VONAGE_API_SECRET", "")

	v.SetDefault("NEXMO_API_KEY", "")
	v.SetDefault("NEXMO_API_SECRET", "")
	v.SetDefault("NEXMO_URL", "https://rest.nexmo.com/sms/json")

	v.SetDefault("TELENOR_USERNAME", "")
	v.SetDefault("TELENOR_PASSWORD", "")
	v.SetDefault("TELENOR_CUSTOMER_ID", "")
	v.SetDefault("TELENOR_CUSTOMER_PASSWORD", "")
	v.SetDefault("TELENOR_SUPPLEMENTARY_INFORMATION", "")
	v.SetDefault("TELENOR_STATUS_DELIVERY_URL", "")
	v.SetDefault("TELENOR_BASE_URL", "https://sms-pro.net:44343/services")
}

// Load reads config.defaults.yaml, if one can be found, and overlays the
// environment.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config.defaults")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath("../../../configs")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.SetEnvPrefix("APP")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Printf("Base configuration file ('config.defaults.yaml') not found; using defaults and environment variables.")
		} else {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.Gateway = strings.ToLower(strings.TrimSpace(cfg.Gateway))
	return &cfg, nil
}

// Validate checks value ranges and enumerations. Missing gateway credentials
// are reported by the gateway constructors.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
