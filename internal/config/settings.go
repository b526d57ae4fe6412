package config

import (
	"errors"
	"os"
)

// EnvDeploymentEndpoint names the required environment variable holding the
// ArangoDB deployment endpoint (e.g. https://deployment.example.com:8529).
const EnvDeploymentEndpoint = "ARANGO_DEPLOYMENT_ENDPOINT"

const (
	// DatabaseName is the fixed logical database every operation targets.
	DatabaseName = "test-service"

	// CollectionName is the fixed collection inside DatabaseName.
	CollectionName = "test"
)

// ErrEndpointNotSet is returned when the deployment endpoint variable is
// missing or empty at the time a connection is built.
var ErrEndpointNotSet = errors.New(EnvDeploymentEndpoint + " environment variable not set")

// DeploymentEndpoint reads the ArangoDB deployment endpoint from the
// environment. Callers treat ErrEndpointNotSet as fatal at startup and as an
// internal error mid-request.
func DeploymentEndpoint() (string, error) {
	endpoint := os.Getenv(EnvDeploymentEndpoint)
	if endpoint == "" {
		return "", ErrEndpointNotSet
	}
	return endpoint, nil
}
