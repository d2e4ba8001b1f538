package config

import (
	"fmt"
	"net/url"
	"os"

	"github.com/hay-kot/criterio"

	"github.com/colonyops/catalog/internal/core/fetch"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// ValidateDeep performs comprehensive validation of the configuration including
// endpoint parsing and file accessibility. The configPath argument specifies the
// config file location to validate (empty string skips config file check).
// This calls Validate() first for basic structural validation, then adds I/O checks.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		c.validateFileAccess(configPath),
		c.validateSource(),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if iv, rl := c.Refresh.Interval, c.Source.RateLimit; iv > 0 && rl > iv {
		warnings = append(warnings, ValidationWarning{
			Category: "Refresh",
			Item:     "refresh.interval",
			Message:  fmt.Sprintf("interval %s is shorter than source.rate_limit %s; refreshes will queue behind the limiter", iv, rl),
		})
	}

	if !c.History.Enabled && c.History.Retain != DefaultConfig().History.Retain {
		warnings = append(warnings, ValidationWarning{
			Category: "History",
			Item:     "history.retain",
			Message:  "retain is set but history is disabled",
		})
	}

	if u, err := url.Parse(c.Source.BaseURL); err == nil && u.Scheme == "http" {
		warnings = append(warnings, ValidationWarning{
			Category: "Source",
			Item:     "source.base_url",
			Message:  "endpoint is not using https",
		})
	}

	return warnings
}

// validateFileAccess checks the config file and data directory.
func (c *Config) validateFileAccess(configPath string) error {
	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
	)
}

// validateSource checks that base_url and path resolve to a fetchable endpoint.
func (c *Config) validateSource() error {
	var errs criterio.FieldErrorsBuilder

	if _, err := fetch.ResolveEndpoint(c.Source.BaseURL, ""); err != nil {
		errs = errs.Append("source.base_url", err)
	} else if _, err := fetch.ResolveEndpoint(c.Source.BaseURL, c.Source.Path); err != nil {
		errs = errs.Append("source.path", err)
	}

	return errs.ToError()
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}
