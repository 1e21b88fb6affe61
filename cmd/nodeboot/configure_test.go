package main

import (
	"os"
	"testing"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptAnswers replaces askOneFunc with a stub that plays back the
// given answers in prompt order.
func scriptAnswers(t *testing.T, answers []interface{}) {
	t.Helper()
	orig := askOneFunc
	t.Cleanup(func() { askOneFunc = orig })

	i := 0
	askOneFunc = func(p survey.Prompt, response interface{}, opts ...survey.AskOpt) error {
		require.Less(t, i, len(answers), "more prompts than scripted answers")
		switch v := response.(type) {
		case *string:
			*v = answers[i].(string)
		case *bool:
			*v = answers[i].(bool)
		default:
			t.Fatalf("unexpected response type %T", response)
		}
		i++
		return nil
	}
}

func TestConfigureCmd_WritesConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	scriptAnswers(t, []interface{}{
		"munged", // auth unit
		"slurmd", // worker unit
		"60",     // poll budget
		"sqlite", // history backend
		false,    // slack
	})

	out, code, err := executeCommand(rootCmd, "configure")
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Configuration saved to")

	data, err := os.ReadFile("config.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "services")
	assert.Contains(t, string(data), "munged")
	assert.Contains(t, string(data), "sqlite")
}

func TestConfigureCmd_PostgresAsksForDSN(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Cleanup(func() {
		viper.Set("state.driver", "sqlite")
		viper.Set("state.dsn", "")
	})
	scriptAnswers(t, []interface{}{
		"munged",
		"slurmd",
		"60",
		"postgres",
		"postgres://nodeboot:secret@db/nodeboot?sslmode=disable",
		false,
	})

	_, _, err := executeCommand(rootCmd, "configure")
	require.NoError(t, err)

	data, err := os.ReadFile("config.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "postgres")
	assert.Contains(t, string(data), "sslmode=disable")
}

func TestConfigureCmd_RejectsBadBudget(t *testing.T) {
	t.Chdir(t.TempDir())
	scriptAnswers(t, []interface{}{
		"munged",
		"slurmd",
		"-5",
	})

	_, _, err := executeCommand(rootCmd, "configure")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "poll budget")
}
