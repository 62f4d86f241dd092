package config

import "fmt"

// Validate checks the values Load cannot default sensibly.
// Returns an error describing the first validation failure, or nil if valid.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server: port %d out of range", c.Server.Port)
	}
	if err := c.Lookup.Validate(); err != nil {
		return err
	}
	return c.Detector.Validate()
}

// Validate checks the lookup source selection.
func (l *LookupConfig) Validate() error {
	switch l.Source {
	case "csv":
		if l.Path == "" {
			return fmt.Errorf("lookup: path is required for source %q", l.Source)
		}
	case "s3":
		if l.Key == "" {
			return fmt.Errorf("lookup: key is required for source %q", l.Source)
		}
	case "database":
	default:
		return fmt.Errorf("lookup: unknown source %q", l.Source)
	}
	return nil
}

// Validate checks the detector settings. Provider-specific requirements such as the
// model artifact are checked when the backend is opened, since a missing model only
// degrades the service.
func (d *DetectorConfig) Validate() error {
	switch d.Provider {
	case "remote", "exec", "rekognition":
	default:
		return fmt.Errorf("detector: unknown provider %q", d.Provider)
	}
	if d.Confidence < 0 || d.Confidence > 1 {
		return fmt.Errorf("detector: confidence %.2f must be within [0,1]", d.Confidence)
	}
	if d.Workers <= 0 {
		return fmt.Errorf("detector: workers must be positive")
	}
	if d.QueueSize < 0 {
		return fmt.Errorf("detector: queue_size must not be negative")
	}
	return nil
}
