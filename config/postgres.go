package config

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// PostgresConfig defines the configuration for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
	TimeZone string `mapstructure:"timezone"`

	// SSM parameter names consulted in prod
	HostParameter     string `mapstructure:"host_parameter"`
	UserParameter     string `mapstructure:"user_parameter"`
	PasswordParameter string `mapstructure:"password_parameter"`

	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN renders the connection string. In prod the host and credentials come from SSM.
func (cfg *PostgresConfig) DSN(ctx context.Context, env string) (string, error) {
	host, user, password := cfg.Host, cfg.User, cfg.Password

	if env == "prod" {
		var err error
		if host, err = getParameterStoreValue(ctx, cfg.HostParameter, true); err != nil {
			return "", err
		}
		if user, err = getParameterStoreValue(ctx, cfg.UserParameter, true); err != nil {
			return "", err
		}
		if password, err = getParameterStoreValue(ctx, cfg.PasswordParameter, true); err != nil {
			return "", err
		}
	}

	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		host, cfg.Port, user, password, cfg.DBName, cfg.SSLMode,
	)

	if cfg.TimeZone != "" {
		dsn += fmt.Sprintf(" TimeZone=%s", cfg.TimeZone)
	}

	return dsn, nil
}

func getParameterStoreValue(ctx context.Context, parameterName string, decrypt bool) (string, error) {
	if parameterName == "" {
		return "", fmt.Errorf("ssm parameter name is empty")
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cfg, err := config.LoadDefaultConfig(ctxWithTimeout)
	if err != nil {
		return "", fmt.Errorf("load aws config: %w", err)
	}

	client := ssm.NewFromConfig(cfg)

	input := &ssm.GetParameterInput{
		Name:           &parameterName,
		WithDecryption: &decrypt,
	}

	result, err := client.GetParameter(ctxWithTimeout, input)
	if err != nil {
		return "", fmt.Errorf("get parameter %s: %w", parameterName, err)
	}

	if result.Parameter == nil || result.Parameter.Value == nil {
		return "", fmt.Errorf("parameter %s has no value", parameterName)
	}

	return *result.Parameter.Value, nil
}
