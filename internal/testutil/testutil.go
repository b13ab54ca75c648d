package testutil

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"testing"

	"github.com/joho/godotenv"
)

const skipMockTests = "SKIP_MOCK_TESTS"

// CheckTestServer reports whether the API server at url is reachable. When it
// is not, the test is skipped if SKIP_MOCK_TESTS is true and failed otherwise.
func CheckTestServer(t *testing.T, url string) bool {
	if _, err := http.Get(url); err != nil {
		if str, ok := os.LookupEnv(skipMockTests); ok {
			skip, err := strconv.ParseBool(str)
			if err != nil {
				t.Fatalf("strconv.ParseBool(os.LookupEnv(%s)) failed: %s", skipMockTests, err)
			}
			if skip {
				t.Skip("The test will not run without a mock API server running")
				return false
			}
		}
		t.Errorf("The test will not run without a mock API server running. You can set the environment variable %s to true to skip running any tests that require the mock server", skipMockTests)
		return false
	}
	return true
}

// LoadEnv loads the first .env file found in the usual locations relative to
// a package directory. Missing files are ignored.
func LoadEnv() {
	_ = godotenv.Load("../../.env")
	_ = godotenv.Load("../.env")
	_ = godotenv.Load(".env")
}

// RequireEnv returns an error naming the first unset variable.
func RequireEnv(vars ...string) error {
	for _, v := range vars {
		if os.Getenv(v) == "" {
			return fmt.Errorf("required environment variable %s is not set", v)
		}
	}
	return nil
}

// SkipIfMissingEnv reports whether any of vars is unset.
func SkipIfMissingEnv(vars ...string) bool {
	return RequireEnv(vars...) != nil
}
