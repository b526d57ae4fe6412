package arango

import (
	"crypto/tls"

	driver "github.com/arangodb/go-driver"
	driverhttp "github.com/arangodb/go-driver/http"

	"github.com/arangodb/arango-test-service/internal/config"
)

// newClient builds a driver client bound to the caller's bearer token. A
// fresh connection is built per request; the token is forwarded unmodified as
// an ArangoDB JWT and never inspected locally.
func newClient(token string) (driver.Client, error) {
	endpoint, err := config.DeploymentEndpoint()
	if err != nil {
		return nil, err
	}

	// Deployments commonly terminate TLS with self-signed certificates.
	conn, err := driverhttp.NewConnection(driverhttp.ConnectionConfig{
		Endpoints: []string{endpoint},
		TLSConfig: &tls.Config{InsecureSkipVerify: true},
	})
	if err != nil {
		return nil, err
	}

	return driver.NewClient(driver.ClientConfig{
		Connection:     conn,
		Authentication: driver.RawAuthentication("bearer " + token),
	})
}
