package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load initializes the configuration from file and environment variables.
func Load(cfgFile string) {
	// explicit .env loading; missing file is fine
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath("/etc/nodeboot")
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("NODEBOOT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// The base installation directory comes from the provisioning
	// environment when present.
	if home := os.Getenv("CYCLECLOUD_HOME"); home != "" {
		viper.SetDefault("cyclecloud_home", home)
	}

	SetDefaults()

	// A fresh node usually has no config file; defaults carry the run.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// SetDefaults installs the default value for every tool-level key.
func SetDefaults() {
	viper.SetDefault("cyclecloud_home", "/opt/cycle/jetpack")
	viper.SetDefault("jetpack.bin", "jetpack")
	viper.SetDefault("installer.dir", "azure-slurm-install")
	viper.SetDefault("installer.python", "python3")
	viper.SetDefault("installer.script", "install.py")
	viper.SetDefault("services.auth", "munged")
	viper.SetDefault("services.worker", "slurmd")
	viper.SetDefault("systemctl.bin", "systemctl")
	viper.SetDefault("poll.budget", 60)
	viper.SetDefault("poll.interval", "1s")
	viper.SetDefault("state.driver", "sqlite")
	viper.SetDefault("state.dsn", "")
	viper.SetDefault("metrics.pushgateway", "")
	viper.SetDefault("metrics.job", "nodeboot")
	viper.SetDefault("log_file", "")
	viper.SetDefault("verbose", false)

	// Notification defaults: enabled only when a bot token is present.
	slackEnabled := os.Getenv("SLACK_BOT_USER_TOKEN") != ""
	viper.SetDefault("notifications.slack.enabled", slackEnabled)
	viper.SetDefault("notifications.slack.channel", "#cluster-ops")
	viper.SetDefault("notifications.slack.events.on_start", true)
	viper.SetDefault("notifications.slack.events.on_success", true)
	viper.SetDefault("notifications.slack.events.on_failure", true)
}
