package config

import (
	"fmt"
	"os"

	"github.com/leapstack-labs/sitenav/internal/cli/output"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := c.ProjectConfig.Validate(); err != nil {
		return err
	}
	if _, err := output.ParseMode(c.OutputFormat); err != nil {
		return err
	}
	return nil
}

// ValidatePaths checks that the navigation file and content directory exist.
// Commands that only print help or rules do not call it.
func (c *Config) ValidatePaths() error {
	if _, err := os.Stat(c.NavFile); os.IsNotExist(err) {
		return fmt.Errorf("navigation file does not exist: %s\nHint: Create it or use --nav-file to specify a different path", c.NavFile)
	}
	info, err := os.Stat(c.Content.Dir)
	if os.IsNotExist(err) {
		return fmt.Errorf("content directory does not exist: %s\nHint: Create the directory or use --content-dir to specify a different path", c.Content.Dir)
	}
	if err == nil && !info.IsDir() {
		return fmt.Errorf("content path is not a directory: %s", c.Content.Dir)
	}
	return nil
}
