package support

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// TestContext holds the state for integration tests.
type TestContext struct {
	// Command execution state
	LastCommand   string
	LastOutput    string
	LastError     error
	LastExitCode  int
	LastStartTime time.Time
	LastDuration  time.Duration

	// Test environment
	WorkingDir string
	TempDir    string
	EnvVars    []string

	// Test artifacts
	CreatedFiles []string
}

// NewTestContext creates a new test context.
func NewTestContext() (*TestContext, error) {
	workingDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	// Test execution might cd into a subdirectory; walk up to the go.mod.
	currentDir := workingDir
	for {
		if _, err := os.Stat(filepath.Join(currentDir, "go.mod")); err == nil {
			workingDir = currentDir
			break
		}
		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	tempDir, err := os.MkdirTemp("", "chartfile-test-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}

	return &TestContext{
		WorkingDir:   workingDir,
		TempDir:      tempDir,
		EnvVars:      []string{},
		CreatedFiles: []string{},
	}, nil
}

// AddEnvVar adds an environment variable for subsequent commands.
func (testCtx *TestContext) AddEnvVar(name, value string) {
	testCtx.EnvVars = append(testCtx.EnvVars, name+"="+value)
}

// TrackFile records a file for cleanup.
func (testCtx *TestContext) TrackFile(path string) {
	testCtx.CreatedFiles = append(testCtx.CreatedFiles, path)
}

// Cleanup removes all temporary files and directories created during tests.
func (testCtx *TestContext) Cleanup() error {
	var errs []error

	for _, file := range testCtx.CreatedFiles {
		if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
			errs = append(errs, fmt.Errorf("failed to remove file %s: %w", file, err))
		}
	}

	if testCtx.TempDir != "" {
		if err := os.RemoveAll(testCtx.TempDir); err != nil {
			errs = append(errs, fmt.Errorf("failed to remove temp directory: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("cleanup errors: %v", errs)
	}
	return nil
}
