package config

import (
	"encoding/json"
	"os"

	"profilesync/internal/flagx"
	"profilesync/internal/timex"
)

// jsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so intervals can be given as strings like "1h" or as
// integer nanoseconds. Pointer fields distinguish "absent" from zero values
// so the JSON layer only overrides what it names.
type jsonConfig struct {
	LogLevel  *string `json:"log_level"`
	LogFormat *string `json:"log_format"`
	LogFile   *string `json:"log_file"`

	DatabaseDSN *string `json:"database_dsn"`

	S3Region    *string `json:"s3_region"`
	S3Endpoint  *string `json:"s3_endpoint"`
	S3AccessKey *string `json:"s3_access_key"`
	S3SecretKey *string `json:"s3_secret_key"`
	S3Bucket    *string `json:"s3_bucket"`

	AuthSecret               *string         `json:"auth_secret"`
	AccessTokenTTL           *timex.Duration `json:"access_token_ttl"`
	RefreshTokenTTL          *timex.Duration `json:"refresh_token_ttl"`
	RequireEmailConfirmation *bool           `json:"require_email_confirmation"`
}

// parseJSON overlays cfg with values from the JSON file named by -c/-config.
// No flag, no file, no overlay. Read or unmarshal errors panic; the caller
// is the process entrypoint.
func parseJSON(cfg *Config) {
	path := flagx.JSONConfigFlag()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)
	setString(&cfg.LogFile, jc.LogFile)
	setString(&cfg.DatabaseDSN, jc.DatabaseDSN)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3Endpoint, jc.S3Endpoint)
	setString(&cfg.S3AccessKey, jc.S3AccessKey)
	setString(&cfg.S3SecretKey, jc.S3SecretKey)
	setString(&cfg.S3Bucket, jc.S3Bucket)
	setString(&cfg.AuthSecret, jc.AuthSecret)

	if jc.AccessTokenTTL != nil {
		cfg.AccessTokenTTL = jc.AccessTokenTTL.Duration
	}
	if jc.RefreshTokenTTL != nil {
		cfg.RefreshTokenTTL = jc.RefreshTokenTTL.Duration
	}
	if jc.RequireEmailConfirmation != nil {
		cfg.RequireEmailConfirmation = *jc.RequireEmailConfirmation
	}
}
