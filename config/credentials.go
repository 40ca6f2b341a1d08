package config

import (
	"context"

	"schwabstream/pkg/schwab"
)

type AuthConfig struct {
	AccessToken  string `mapstructure:"access_token"`
	SSMParameter string `mapstructure:"ssm_parameter"` // parameter holding the current access token
}

// ssmToken reads the access token from Parameter Store at every login, so a token
// refreshed out of band is picked up on the next reconnect.
type ssmToken struct {
	parameter string
}

func (t ssmToken) AccessToken(ctx context.Context) (string, error) {
	return getParameterStoreValue(ctx, t.parameter, true)
}

// TokenSource prefers the SSM parameter and falls back to the static token.
func (a AuthConfig) TokenSource() schwab.TokenSource {
	if a.SSMParameter != "" {
		return ssmToken{parameter: a.SSMParameter}
	}
	return schwab.StaticToken(a.AccessToken)
}
