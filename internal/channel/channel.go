package channel

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nkeys"

	"hrdesk/internal/common"
	"hrdesk/internal/session"
)

// natsConn is the slice of *nats.Conn the channel needs; tests substitute
// a fake.
type natsConn interface {
	Subscribe(subject string, handler nats.MsgHandler) (*nats.Subscription, error)
	Drain() error
	IsConnected() bool
}

type dialFunc func(addr string, opts ...nats.Option) (natsConn, error)

func defaultDial(addr string, opts ...nats.Option) (natsConn, error) {
	conn, err := nats.Connect("nats://"+addr, opts...)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

type NewChannelOpts struct {
	// Addr is the host:port of the portal's push endpoint
	Addr string

	// NkeySeed, when set, signs the server nonce during the handshake
	NkeySeed string

	// SessionToken authenticates the connection as the current session
	SessionToken string

	ServiceLogs chan<- common.ServiceLog
}

// Channel holds the single persistent push connection for a session.
// Opening it is idempotent per session epoch; opening for a new epoch
// tears the previous connection down first. Disconnect recovery is left
// to the transport's own reconnect handling - ordering and dedup of
// delivered events is the inbox's contract, not this one's.
type Channel struct {
	addr         string
	nkeySeed     string
	sessionToken string
	serviceLogs  chan<- common.ServiceLog

	dial dialFunc

	mu    sync.Mutex
	conn  natsConn
	epoch uint64
}

func NewChannel(opts NewChannelOpts) *Channel {
	serviceLogs := opts.ServiceLogs
	if serviceLogs == nil {
		serviceLogs = common.GetNoopServiceLog()
	}
	return &Channel{
		addr:         opts.Addr,
		nkeySeed:     opts.NkeySeed,
		sessionToken: opts.SessionToken,
		serviceLogs:  serviceLogs,
		dial:         defaultDial,
	}
}

type OpenOpts struct {
	// Epoch is the session epoch this connection belongs to
	Epoch uint64

	Role   session.Role
	UserId string

	Handler Handler
}

// Open establishes the push connection and subscribes to the caller's
// notification subject. Calling Open again with the same epoch while the
// connection is live is a no-op; a different epoch closes the previous
// connection before dialing.
func (c *Channel) Open(opts OpenOpts) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil && c.conn.IsConnected() {
		if c.epoch == opts.Epoch {
			c.serviceLogs <- common.ServiceLogf(common.LogLevelDebug, "push channel already open for epoch[%v]", opts.Epoch)
			return nil
		}
		c.serviceLogs <- common.ServiceLogf(common.LogLevelDebug, "closing push channel for stale epoch[%v]", c.epoch)
		if err := c.conn.Drain(); err != nil {
			c.serviceLogs <- common.ServiceLogf(common.LogLevelWarn, "failed to drain stale push channel: %s", err)
		}
		c.conn = nil
	}

	natsOpts := []nats.Option{
		nats.Name(fmt.Sprintf("hrdesk/%s", opts.UserId)),
	}
	if c.sessionToken != "" {
		natsOpts = append(natsOpts, nats.Token(c.sessionToken))
	}
	if c.nkeySeed != "" {
		keyPair, err := nkeys.FromSeed([]byte(c.nkeySeed))
		if err != nil {
			return fmt.Errorf("failed to parse nkey seed: %s", err)
		}
		publicKey, err := keyPair.PublicKey()
		if err != nil {
			return fmt.Errorf("failed to derive nkey public key: %s", err)
		}
		natsOpts = append(natsOpts, nats.Nkey(publicKey, func(nonce []byte) ([]byte, error) {
			return keyPair.Sign(nonce)
		}))
	}

	conn, err := c.dial(c.addr, natsOpts...)
	if err != nil {
		return fmt.Errorf("failed to connect to push channel at addr[%s]: %s", c.addr, err)
	}

	subject := Subject(opts.Role, opts.UserId)
	if _, err := conn.Subscribe(subject, func(msg *nats.Msg) {
		var event Event
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			c.serviceLogs <- common.ServiceLogf(common.LogLevelWarn, "failed to decode pushed event on subject[%s]: %s", msg.Subject, err)
			return
		}
		opts.Handler(event)
	}); err != nil {
		if drainErr := conn.Drain(); drainErr != nil {
			c.serviceLogs <- common.ServiceLogf(common.LogLevelWarn, "failed to drain push channel: %s", drainErr)
		}
		return fmt.Errorf("failed to subscribe to subject[%s]: %s", subject, err)
	}

	c.conn = conn
	c.epoch = opts.Epoch
	c.serviceLogs <- common.ServiceLogf(common.LogLevelDebug, "push channel open on subject[%s] for epoch[%v]", subject, opts.Epoch)
	return nil
}

// IsOpen reports whether a live connection is held.
func (c *Channel) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil && c.conn.IsConnected()
}

// Close drains and releases the connection; call it on logout.
func (c *Channel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	if err := c.conn.Drain(); err != nil {
		return fmt.Errorf("failed to drain push channel: %s", err)
	}
	c.conn = nil
	return nil
}
