package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/foodgram/internal/flagx"
	"github.com/dmitrijs2005/foodgram/internal/timex"
)

// JsonConfig mirrors Config for JSON decoding. Durations use timex.Duration
// so both "24h" and integer nanoseconds are accepted. Only keys present in
// the file override the current values.
type JsonConfig struct {
	EndpointAddrHTTP            *string         `json:"endpoint_addr_http"`
	DatabaseDSN                 *string         `json:"database_dsn"`
	SecretKey                   *string         `json:"secret_key"`
	AccessTokenValidityDuration *timex.Duration `json:"access_token_validity_duration"`
	BaseURL                     *string         `json:"base_url"`
	MediaBaseURL                *string         `json:"media_base_url"`
	S3RootUser                  *string         `json:"s3_root_user"`
	S3RootPassword              *string         `json:"s3_root_password"`
	S3Bucket                    *string         `json:"s3_bucket"`
	S3Region                    *string         `json:"s3_region"`
	S3BaseEndpoint              *string         `json:"s3_base_endpoint"`
	CORSOrigins                 []string        `json:"cors_origins"`
	LogLevel                    *string         `json:"log_level"`
}

// parseJson overlays values from the JSON file named by -c/-config (or
// $FOODGRAM_CONFIG). Without a file nothing changes. An unreadable file or
// malformed JSON is a startup error and panics.
func parseJson(config *Config, args []string) {
	path := flagx.ConfigPath(args)
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	setString(&config.BaseURL, c.BaseURL)
	setString(&config.MediaBaseURL, c.MediaBaseURL)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	if c.CORSOrigins != nil {
		config.CORSOrigins = c.CORSOrigins
	}
	setString(&config.LogLevel, c.LogLevel)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
