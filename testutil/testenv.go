// Package testutil provides shared test environment helpers for E2E
// tests. It depends only on stdlib so that E2E tests (which cannot import
// internal/) can use it.
package testutil

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// EnvAllowErase names the variable that must list a test directory before
// the E2E suite may run the real client against it. The harness erases the
// remote store behind that directory.
const EnvAllowErase = "DRIVECHECK_ALLOW_ERASE"

// LoadDotEnv reads KEY=VALUE pairs from a .env file at the given path.
// Missing file is not an error (CI sets env vars directly).
// Existing env vars take precedence over .env values.
func LoadDotEnv(envPath string) {
	f, err := os.Open(envPath)
	if err != nil {
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}

		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		value = strings.Trim(value, "\"'")

		// Env vars take precedence over .env file.
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}

// EraseAllowed reports whether testDir is listed (comma-separated) in
// DRIVECHECK_ALLOW_ERASE.
func EraseAllowed(testDir string) bool {
	for _, d := range strings.Split(os.Getenv(EnvAllowErase), ",") {
		if d = strings.TrimSpace(d); d != "" && d == testDir {
			return true
		}
	}

	return false
}

// FindModuleRoot walks up from the current directory to find go.mod.
// Returns the fallback if the root is not found.
func FindModuleRoot(fallback string) string {
	dir, err := os.Getwd()
	if err != nil {
		return fallback
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return fallback
		}

		dir = parent
	}
}

// BuildBinary runs `go build -o dst pkg` in moduleRoot. Crashes on failure
// because no E2E test can proceed without the binary.
func BuildBinary(moduleRoot, pkg, dst string) {
	cmd := exec.Command("go", "build", "-o", dst, pkg)
	cmd.Dir = moduleRoot
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: building %s: %v\n", pkg, err)
		os.Exit(1)
	}
}
