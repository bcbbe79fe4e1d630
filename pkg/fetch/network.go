package fetch

import (
	"net"
	"time"

	"github.com/arthur-debert/rgpatch/pkg/errors"
)

// Probe checks whether the network is reachable within the timeout.
type Probe func(address string, timeout time.Duration) error

// dialProbe is the default probe: a bounded TCP connection attempt to a
// well-known endpoint. Downloads fail fast on a dead network instead of
// hanging partway through a long recursive tree fetch.
func dialProbe(address string, timeout time.Duration) error {
	conn, err := net.DialTimeout("tcp", address, timeout)
	if err != nil {
		return err
	}
	return conn.Close()
}

// CheckNetwork runs the reachability probe. The returned error message
// carries the "No Network" marker surfaced to operators.
func (c *Client) CheckNetwork() error {
	addr := c.cfg.Network.ProbeAddress
	if err := c.probe(addr, c.cfg.Network.ProbeTimeout()); err != nil {
		c.logger.Warn().Err(err).Str("probe", addr).Msg("network probe failed")
		return errors.Wrapf(err, errors.ErrNoNetwork, "No Network: cannot reach %s", addr)
	}
	return nil
}
