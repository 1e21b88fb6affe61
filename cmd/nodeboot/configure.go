package main

import (
	"fmt"
	"strconv"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Wrapper for survey functions to allow mocking in tests
var askOneFunc = survey.AskOne

// configureCmd represents the configure command
var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Interactively set up the nodeboot configuration",
	Long:  `Runs an interactive wizard for the tool-level settings: service names, poll budget, history backend and Slack notifications.`,
	RunE:  runConfigure,
}

func init() {
	rootCmd.AddCommand(configureCmd)
}

func runConfigure(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "nodeboot configuration")
	fmt.Fprintln(out, "----------------------")

	answers := struct {
		AuthService   string
		WorkerService string
		PollBudget    string
		StateDriver   string
		StateDSN      string
		EnableSlack   bool
		SlackChannel  string
	}{}

	if err := askOneFunc(&survey.Input{
		Message: "Authentication daemon unit:",
		Default: viper.GetString("services.auth"),
	}, &answers.AuthService); err != nil {
		return err
	}

	if err := askOneFunc(&survey.Input{
		Message: "Worker daemon unit:",
		Default: viper.GetString("services.worker"),
	}, &answers.WorkerService); err != nil {
		return err
	}

	if err := askOneFunc(&survey.Input{
		Message: "Readiness poll budget (countdown start):",
		Default: strconv.Itoa(viper.GetInt("poll.budget")),
	}, &answers.PollBudget); err != nil {
		return err
	}
	budget, err := strconv.Atoi(answers.PollBudget)
	if err != nil || budget < 0 {
		return fmt.Errorf("poll budget must be a non-negative integer, got %q", answers.PollBudget)
	}

	if err := askOneFunc(&survey.Select{
		Message: "History backend:",
		Options: []string{"sqlite", "postgres"},
		Default: "sqlite",
	}, &answers.StateDriver); err != nil {
		return err
	}

	if answers.StateDriver == "postgres" {
		if err := askOneFunc(&survey.Input{
			Message: "Postgres DSN:",
		}, &answers.StateDSN); err != nil {
			return err
		}
	}

	if err := askOneFunc(&survey.Confirm{
		Message: "Enable Slack notifications? (needs SLACK_BOT_USER_TOKEN)",
		Default: false,
	}, &answers.EnableSlack); err != nil {
		return err
	}
	if answers.EnableSlack {
		if err := askOneFunc(&survey.Input{
			Message: "Slack channel:",
			Default: viper.GetString("notifications.slack.channel"),
		}, &answers.SlackChannel); err != nil {
			return err
		}
	}

	viper.Set("services.auth", answers.AuthService)
	viper.Set("services.worker", answers.WorkerService)
	viper.Set("poll.budget", budget)
	viper.Set("state.driver", answers.StateDriver)
	if answers.StateDSN != "" {
		viper.Set("state.dsn", answers.StateDSN)
	}
	viper.Set("notifications.slack.enabled", answers.EnableSlack)
	if answers.SlackChannel != "" {
		viper.Set("notifications.slack.channel", answers.SlackChannel)
	}

	target := viper.ConfigFileUsed()
	if target == "" {
		target = "config.yaml"
	}
	viper.SetConfigType("yaml")
	if err := viper.WriteConfigAs(target); err != nil {
		return fmt.Errorf("failed to write config to %s: %w", target, err)
	}

	fmt.Fprintf(out, "Configuration saved to %s\n", target)
	return nil
}
