package config

import "fmt"

// validOutputFormats lists the result renderers the shell supports.
var validOutputFormats = map[string]bool{
	"table":    true,
	"csv":      true,
	"json":     true,
	"markdown": true,
}

// validKeywordCasings lists the accepted keyword_casing settings.
var validKeywordCasings = map[string]bool{
	"auto":  true,
	"upper": true,
	"lower": true,
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !validOutputFormats[c.OutputFormat] {
		return fmt.Errorf("invalid output_format: %q, must be one of: table, csv, json, markdown", c.OutputFormat)
	}
	if !validKeywordCasings[c.KeywordCasing] {
		return fmt.Errorf("invalid keyword_casing: %q, must be one of: auto, upper, lower", c.KeywordCasing)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}
