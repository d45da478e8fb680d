package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleFeature = `Feature: withdraw cash

Scenario: successful withdrawal
  Given: an account with balance 100
  When: the customer withdraws 40
  Then: the balance is 60
`

const malformedFeature = `Feature: broken

Scenario: missing body
  Section: not allowed here
`

// runCLI executes rootCmd with args against fresh in/out buffers and
// returns (stdout, stderr, exit code), mirroring how main.go drives it.
func runCLI(args ...string) (string, string, int) {
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)

	code := 0
	if err := rootCmd.Execute(); err != nil {
		errOut.WriteString(err.Error() + "\n")
		if ec, ok := err.(exitCoder); ok {
			code = ec.ExitCode()
		} else {
			code = 1
		}
	}
	return out.String(), errOut.String(), code
}

func TestVersionCommandPrintsVersion(t *testing.T) {
	out, _, code := runCLI("version")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if strings.TrimSpace(out) != version {
		t.Errorf("expected version output %q, got %q", version, out)
	}
}

func TestGenTranslatesFeatureFileToCatchHeader(t *testing.T) {
	dir := t.TempDir()
	featuresDir := filepath.Join(dir, "features")
	testsDir := filepath.Join(dir, "tests")
	if err := os.MkdirAll(featuresDir, 0o755); err != nil {
		t.Fatal(err)
	}
	featurePath := filepath.Join(featuresDir, "withdraw.feature")
	if err := os.WriteFile(featurePath, []byte(sampleFeature), 0o644); err != nil {
		t.Fatal(err)
	}

	_, stderr, code := runCLI("gen", featuresDir, "-o", testsDir, "--log-db", "")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d, stderr=%s", code, stderr)
	}

	outPath := filepath.Join(testsDir, "withdraw.h")
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("expected generated file at %s: %v", outPath, err)
	}
	if !strings.Contains(string(data), `SCENARIO( "successful withdrawal"`) {
		t.Errorf("generated output missing SCENARIO macro:\n%s", data)
	}
	if !strings.Contains(string(data), "GIVEN(") || !strings.Contains(string(data), "WHEN(") || !strings.Contains(string(data), "THEN(") {
		t.Errorf("generated output missing expected macros:\n%s", data)
	}
}

func TestGenReportsParseErrorAndExitsOne(t *testing.T) {
	dir := t.TempDir()
	featurePath := filepath.Join(dir, "broken.feature")
	if err := os.WriteFile(featurePath, []byte(malformedFeature), 0o644); err != nil {
		t.Fatal(err)
	}

	_, stderr, code := runCLI("gen", featurePath, "-o", filepath.Join(dir, "tests"), "--log-db", "")
	if code != 1 {
		t.Fatalf("expected exit 1 for parse error, got %d, stderr=%s", code, stderr)
	}
}

func TestCheckRoundTripsCleanFeature(t *testing.T) {
	dir := t.TempDir()
	featurePath := filepath.Join(dir, "withdraw.feature")
	if err := os.WriteFile(featurePath, []byte(sampleFeature), 0o644); err != nil {
		t.Fatal(err)
	}

	out, stderr, code := runCLI("check", featurePath)
	if code != 0 {
		t.Fatalf("expected exit 0, got %d, stderr=%s", code, stderr)
	}
	if !strings.Contains(out, "round-trip ok") {
		t.Errorf("expected round-trip confirmation, got %q", out)
	}
}

func TestRecoverPrintsTreeFromCatchSource(t *testing.T) {
	dir := t.TempDir()
	catchPath := filepath.Join(dir, "withdraw.h")
	catchSrc := `SCENARIO( "successful withdrawal" ) {
    GIVEN( "an account with balance 100" ) {
        WHEN( "the customer withdraws 40" ) {
            THEN( "the balance is 60" ) {
                REQUIRE(false);
            }
        }
    }
}
`
	if err := os.WriteFile(catchPath, []byte(catchSrc), 0o644); err != nil {
		t.Fatal(err)
	}

	out, _, code := runCLI("recover", catchPath)
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.Contains(out, "scenario") || !strings.Contains(out, "given") || !strings.Contains(out, "when") || !strings.Contains(out, "then") {
		t.Errorf("expected tree dump with all node kinds, got %q", out)
	}
}
