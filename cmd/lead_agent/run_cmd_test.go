package main

import (
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunCommand_FlagsValidation(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		errorString string
	}{
		{
			name:        "Invalid date format",
			args:        []string{"run", "--date", "2025/11/03", "--api-key", "test"},
			errorString: "invalid collection date",
		},
		{
			name:        "Out-of-range triage threshold",
			args:        []string{"run", "--date", "2025-11-03", "--triage-threshold", "9", "--api-key", "test"},
			errorString: "config error",
		},
		{
			name:        "Nonexistent config file",
			args:        []string{"run", "--date", "2025-11-03", "--config", "does-not-exist.json", "--api-key", "test"},
			errorString: "failed to load config",
		},
	}

	binaryPath := getBinaryPath(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := exec.Command(binaryPath, tt.args...)
			output, err := cmd.CombinedOutput()

			assert.Error(t, err)
			assert.Contains(t, string(output), tt.errorString)
		})
	}
}

func TestQualifyLeadsCommand_MissingRegistry(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath,
		"qualify-leads", "--date", "2025-11-03", "--data-dir", t.TempDir(), "--api-key", "test")
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "extract-orgs")
}
