package telemetry

import (
	"context"
	"testing"
)

var setupTestEnvironments = map[string]bool{}

// SetupForTesting initializes slog and in-process trace/metric providers for
// a test, ensuring a given service name is only set up once. No exporters are
// attached so tests stay hermetic.
func SetupForTesting(t testing.TB, serviceName string) func() {
	if setupTestEnvironments[serviceName] {
		return func() {}
	}
	setupTestEnvironments[serviceName] = true

	InitSlog(true)
	tel, err := Setup(context.Background(), serviceName, Config{})
	if err != nil {
		t.Fatal(err)
	}
	return func() {
		err := tel.Shutdown(context.Background())
		if err != nil {
			t.Fatal(err)
		}
	}
}
