package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// ValidateConfig validates configuration values and returns an error if
// any are invalid. Call after viper has loaded the configuration.
func ValidateConfig() error {
	var errors []string

	if viper.GetString("cyclecloud_home") == "" {
		errors = append(errors, "cyclecloud_home must not be empty")
	}

	// Poll budget of zero is legal (a single probe); negatives are not.
	if budget := viper.GetInt("poll.budget"); budget < 0 {
		errors = append(errors, fmt.Sprintf("poll.budget must not be negative, got: %d", budget))
	}

	if interval := viper.GetDuration("poll.interval"); interval <= 0 {
		errors = append(errors, fmt.Sprintf("poll.interval must be positive, got: %v", interval))
	}

	switch driver := viper.GetString("state.driver"); driver {
	case "", "sqlite", "sqlite3", "postgres", "postgresql":
	default:
		errors = append(errors, fmt.Sprintf("state.driver must be sqlite or postgres, got: %s", driver))
	}

	if viper.GetString("state.driver") == "postgres" && viper.GetString("state.dsn") == "" {
		errors = append(errors, "state.dsn is required when state.driver is postgres")
	}

	for _, key := range []string{"services.auth", "services.worker"} {
		if viper.GetString(key) == "" {
			errors = append(errors, key+" must not be empty")
		}
	}

	if len(errors) > 0 {
		errorMsg := errors[0]
		for i := 1; i < len(errors); i++ {
			errorMsg += "\n  " + errors[i]
		}
		return fmt.Errorf("configuration validation failed:\n  %s", errorMsg)
	}
	return nil
}
