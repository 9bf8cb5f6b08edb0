package support

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/cucumber/godog"
)

// RegisterSteps registers all step definitions on the scenario context.
func (testCtx *TestContext) RegisterSteps(sc *godog.ScenarioContext) {
	sc.Step(`^I run "([^"]*)"$`, testCtx.iRunCommand)
	sc.Step(`^the command should succeed$`, testCtx.theCommandShouldSucceed)
	sc.Step(`^the command should fail$`, testCtx.theCommandShouldFail)
	sc.Step(`^the output should contain "([^"]*)"$`, testCtx.theOutputShouldContain)
	sc.Step(`^the output should be valid JSON$`, testCtx.theOutputShouldBeValidJSON)
	sc.Step(`^the error should mention "([^"]*)"$`, testCtx.theErrorShouldMention)
	sc.Step(`^a rules file "([^"]*)" containing:$`, testCtx.aRulesFileContaining)
	sc.Step(`^no file named "([^"]*)" exists$`, testCtx.noFileNamedExists)
}

// iRunCommand executes a command and stores the result. Paths of files the
// scenario created in the temp directory may be referenced as {temp_dir}.
func (testCtx *TestContext) iRunCommand(command string) error {
	command = strings.ReplaceAll(command, "{temp_dir}", testCtx.TempDir)

	testCtx.LastCommand = command
	testCtx.LastStartTime = time.Now()

	parts := strings.Fields(command)
	if len(parts) == 0 {
		return errors.New("empty command")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, parts[0], parts[1:]...)
	cmd.Dir = testCtx.WorkingDir
	cmd.Env = append(os.Environ(), testCtx.EnvVars...)

	output, err := cmd.CombinedOutput()
	testCtx.LastOutput = string(output)
	testCtx.LastError = err
	testCtx.LastDuration = time.Since(testCtx.LastStartTime)

	if err != nil {
		exitError := &exec.ExitError{}
		if errors.As(err, &exitError) {
			testCtx.LastExitCode = exitError.ExitCode()
		} else {
			testCtx.LastExitCode = -1
		}
	} else {
		testCtx.LastExitCode = 0
	}

	return nil
}

// theCommandShouldSucceed verifies the command succeeded.
func (testCtx *TestContext) theCommandShouldSucceed() error {
	if testCtx.LastExitCode != 0 {
		return fmt.Errorf("command failed with exit code %d: %w\nOutput: %s",
			testCtx.LastExitCode, testCtx.LastError, testCtx.LastOutput)
	}
	return nil
}

// theCommandShouldFail verifies the command failed.
func (testCtx *TestContext) theCommandShouldFail() error {
	if testCtx.LastExitCode == 0 {
		return fmt.Errorf("command succeeded when it should have failed\nOutput: %s", testCtx.LastOutput)
	}
	return nil
}

// theOutputShouldContain verifies the output contains the expected text.
func (testCtx *TestContext) theOutputShouldContain(expected string) error {
	if !strings.Contains(testCtx.LastOutput, expected) {
		return fmt.Errorf("output does not contain %q\nOutput: %s", expected, testCtx.LastOutput)
	}
	return nil
}

// theOutputShouldBeValidJSON verifies the output parses as JSON.
func (testCtx *TestContext) theOutputShouldBeValidJSON() error {
	var parsed any
	if err := json.Unmarshal([]byte(testCtx.LastOutput), &parsed); err != nil {
		return fmt.Errorf("output is not valid JSON: %w\nOutput: %s", err, testCtx.LastOutput)
	}
	return nil
}

// theErrorShouldMention verifies the failure output mentions the text.
func (testCtx *TestContext) theErrorShouldMention(expected string) error {
	if testCtx.LastExitCode == 0 {
		return errors.New("command succeeded, no error output to check")
	}
	if !strings.Contains(testCtx.LastOutput, expected) {
		return fmt.Errorf("error output does not mention %q\nOutput: %s", expected, testCtx.LastOutput)
	}
	return nil
}

// aRulesFileContaining writes a rules file into the temp directory.
func (testCtx *TestContext) aRulesFileContaining(name string, content *godog.DocString) error {
	path := filepath.Join(testCtx.TempDir, name)
	if err := os.WriteFile(path, []byte(content.Content), 0o600); err != nil {
		return fmt.Errorf("failed to write rules file: %w", err)
	}
	testCtx.TrackFile(path)
	return nil
}

// noFileNamedExists ensures the named file is absent in the working dir.
func (testCtx *TestContext) noFileNamedExists(name string) error {
	path := filepath.Join(testCtx.WorkingDir, name)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("file %s exists but the scenario requires it absent", path)
	}
	return nil
}
