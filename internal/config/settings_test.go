package config

import (
	"errors"
	"testing"
)

func TestDeploymentEndpoint(t *testing.T) {
	t.Setenv(EnvDeploymentEndpoint, "https://deployment.example.com:8529")

	endpoint, err := DeploymentEndpoint()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if endpoint != "https://deployment.example.com:8529" {
		t.Fatalf("unexpected endpoint: %q", endpoint)
	}
}

func TestDeploymentEndpointMissing(t *testing.T) {
	t.Setenv(EnvDeploymentEndpoint, "")

	_, err := DeploymentEndpoint()
	if !errors.Is(err, ErrEndpointNotSet) {
		t.Fatalf("expected ErrEndpointNotSet, got %v", err)
	}
	if err.Error() != "ARANGO_DEPLOYMENT_ENDPOINT environment variable not set" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}
