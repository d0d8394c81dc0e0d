package config

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, 30, cfg.HTTPClientTimeoutSeconds)
	assert.Equal(t, GatewayNull, cfg.Gateway)
	assert.Equal(t, "https://se-1.cellsynt.net/sms.php", cfg.Cellsynt.SMSURL)
	assert.Equal(t, "https://se-2.cellsynt.net/sendsms.php", cfg.Cellsynt.PremiumURL)
	assert.Equal(t, "https://api.46elks.com/a1/SMS", cfg.FortySixElks.URL)
	assert.Equal(t, "https://rest.nexmo.com/sms/json", cfg.Nexmo.URL)
	assert.Equal(t, "https://sms-pro.net:44343/services", cfg.Telenor.BaseURL)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("APP_GATEWAY", " 46ELKS ")
	t.Setenv("APP_ELKS_USERNAME", "u123")
	t.Setenv("APP_ELKS_PASSWORD", "secret")
	t.Setenv("APP_DEFAULT_FROM", "Tester")
	t.Setenv("APP_HTTP_PORT", "9090")
	t.Setenv("APP_TELENOR_CUSTOMER_ID", "1234")
	t.Setenv("APP_TELENOR_STATUS_DELIVERY_URL", "https://sms.example.test/webhooks/dlr")
	t.Setenv("APP_API_JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, GatewayFortySixElks, cfg.Gateway)
	assert.Equal(t, "u123", cfg.FortySixElks.Username)
	assert.Equal(t, "secret", cfg.FortySixElks.Password)
	assert.Equal(t, "Tester", cfg.DefaultFrom)
	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, "1234", cfg.Telenor.CustomerID)
	assert.Equal(t, "https://sms.example.test/webhooks/dlr", cfg.Telenor.StatusDeliveryURL)
	assert.Equal(t, "s3cret", cfg.APIJWTSecret)
	assert.NoError(t, cfg.Validate())
}

func TestValidate_RejectsUnknownValues(t *testing.T) {
	t.Setenv("APP_GATEWAY", "carrier-pigeon")
	t.Setenv("APP_HTTP_PORT", "0")
	t.Setenv("APP_TELENOR_STATUS_DELIVERY_URL", "not a url")

	cfg, err := Load()
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)

	var validationErrs validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrs)
	fields := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		fields = append(fields, fe.Field())
	}
	assert.ElementsMatch(t, []string{"Gateway", "HTTPPort", "StatusDeliveryURL"}, fields)
}
