package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeServer()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	expand := func(field, value string) (string, error) {
		expanded, err := expandPath(value)
		if err != nil {
			return "", fmt.Errorf("normalize %s: %w", field, err)
		}
		return expanded, nil
	}

	var err error
	if c.Paths.DataDir, err = expand("data_dir", c.Paths.DataDir); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expand("log_dir", c.Paths.LogDir); err != nil {
		return err
	}
	if strings.TrimSpace(c.Paths.StaticDir) != "" {
		if c.Paths.StaticDir, err = expand("static_dir", c.Paths.StaticDir); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) normalizeServer() {
	c.Server.Bind = strings.TrimSpace(c.Server.Bind)
	if c.Server.Bind == "" {
		c.Server.Bind = defaultBind
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
}
