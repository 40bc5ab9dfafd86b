//go:build integration

package integration

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestConfig holds configuration for integration tests.
type TestConfig struct {
	Instance    string
	AccessToken string
	BinaryPath  string
	AllowWrites bool
	Verbose     bool
}

// LoadTestConfig loads configuration from environment variables.
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		Instance:    os.Getenv("DAKTELA_INSTANCE"),
		AccessToken: os.Getenv("DAKTELA_ACCESS_TOKEN"),
		BinaryPath:  getBinaryPath(),
		AllowWrites: os.Getenv("DAKTELA_INTEGRATION_WRITES") == "true",
		Verbose:     os.Getenv("DAKTELA_INTEGRATION_VERBOSE") == "true",
	}
}

// getBinaryPath determines the path to the daktela binary.
func getBinaryPath() string {
	if path := os.Getenv("DAKTELA_BINARY_PATH"); path != "" {
		return path
	}

	candidates := []string{
		"../../daktela",
		"./daktela",
		"../daktela",
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return "daktela"
}

// SkipIfMissingConfig skips the test when no instance is configured.
func (config *TestConfig) SkipIfMissingConfig(t *testing.T) {
	t.Helper()

	if config.Instance == "" || config.AccessToken == "" {
		t.Skip("DAKTELA_INSTANCE or DAKTELA_ACCESS_TOKEN not set, skipping integration test")
	}
}

// SkipIfMissingBinary skips the test when the CLI binary cannot be found.
func (config *TestConfig) SkipIfMissingBinary(t *testing.T) {
	t.Helper()

	if _, err := exec.LookPath(config.BinaryPath); err != nil {
		t.Skipf("daktela binary not found at %s, skipping integration test", config.BinaryPath)
	}
}

// SkipUnlessWrites skips tests that create objects on the instance.
func (config *TestConfig) SkipUnlessWrites(t *testing.T) {
	t.Helper()

	if !config.AllowWrites {
		t.Skip("DAKTELA_INTEGRATION_WRITES not set, skipping write test")
	}
}

// CommandRunner runs the daktela binary against the configured instance
// with a throwaway config file.
type CommandRunner struct {
	config     *TestConfig
	configFile string
	t          *testing.T
}

// NewCommandRunner creates a new command runner.
func NewCommandRunner(config *TestConfig, t *testing.T) *CommandRunner {
	t.Helper()

	return &CommandRunner{
		config:     config,
		configFile: filepath.Join(t.TempDir(), "config.yml"),
		t:          t,
	}
}

// Run executes a daktela command and returns its output.
func (runner *CommandRunner) Run(args ...string) (stdout, stderr string, err error) {
	return runner.RunWithInput("", args...)
}

// RunWithInput executes a daktela command with stdin input.
func (runner *CommandRunner) RunWithInput(input string, args ...string) (stdout, stderr string, err error) {
	args = append([]string{"--config", runner.configFile}, args...)

	// #nosec G204
	cmd := exec.Command(runner.config.BinaryPath, args...)

	var stdoutBuf, stderrBuf bytes.Buffer

	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf
	cmd.Stdin = strings.NewReader(input)
	cmd.Env = append(os.Environ(),
		"DAKTELA_INSTANCE="+runner.config.Instance,
		"DAKTELA_ACCESS_TOKEN="+runner.config.AccessToken)

	if runner.config.Verbose {
		runner.t.Logf("Running: %s %s", runner.config.BinaryPath, strings.Join(args, " "))
	}

	err = cmd.Run()
	stdout = stdoutBuf.String()
	stderr = stderrBuf.String()

	if runner.config.Verbose && err != nil {
		runner.t.Logf("Command failed: %v\nStdout: %s\nStderr: %s", err, stdout, stderr)
	}

	return stdout, stderr, err
}

// GenerateTestName creates a unique object title.
func GenerateTestName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}
