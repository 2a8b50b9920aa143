package channel

import (
	"testing"
	"time"

	"github.com/nats-io/nats.go"

	"hrdesk/internal/session"
)

type fakeConn struct {
	subjects []string
	handlers []nats.MsgHandler
	drained  bool
}

func (f *fakeConn) Subscribe(subject string, handler nats.MsgHandler) (*nats.Subscription, error) {
	f.subjects = append(f.subjects, subject)
	f.handlers = append(f.handlers, handler)
	return &nats.Subscription{}, nil
}

func (f *fakeConn) Drain() error {
	f.drained = true
	return nil
}

func (f *fakeConn) IsConnected() bool {
	return !f.drained
}

type fakeDialer struct {
	dials int
	conns []*fakeConn
}

func (f *fakeDialer) dial(_ string, _ ...nats.Option) (natsConn, error) {
	f.dials++
	conn := &fakeConn{}
	f.conns = append(f.conns, conn)
	return conn, nil
}

func newTestChannel(dialer *fakeDialer) *Channel {
	c := NewChannel(NewChannelOpts{
		Addr:         "localhost:4222",
		SessionToken: "token",
	})
	c.dial = dialer.dial
	return c
}

func TestSubject(t *testing.T) {
	subject := Subject(session.RoleEmployee, "u-1")
	if subject != "hrdesk.notifications.employee.u-1" {
		t.Fatalf("unexpected subject %q", subject)
	}
}

func TestOpenSubscribesToCallerSubject(t *testing.T) {
	dialer := &fakeDialer{}
	c := newTestChannel(dialer)

	err := c.Open(OpenOpts{
		Epoch:   1,
		Role:    session.RoleAdmin,
		UserId:  "u-9",
		Handler: func(Event) {},
	})
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if !c.IsOpen() {
		t.Fatalf("expected the channel to be open")
	}
	conn := dialer.conns[0]
	if len(conn.subjects) != 1 || conn.subjects[0] != "hrdesk.notifications.admin.u-9" {
		t.Errorf("unexpected subscriptions: %v", conn.subjects)
	}
}

func TestOpenIsIdempotentPerEpoch(t *testing.T) {
	dialer := &fakeDialer{}
	c := newTestChannel(dialer)

	opts := OpenOpts{Epoch: 1, Role: session.RoleEmployee, UserId: "u-1", Handler: func(Event) {}}
	if err := c.Open(opts); err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if err := c.Open(opts); err != nil {
		t.Fatalf("second Open returned error: %v", err)
	}
	if dialer.dials != 1 {
		t.Fatalf("expected a single dial for the same epoch, got %d", dialer.dials)
	}
}

func TestOpenNewEpochDrainsStaleConnection(t *testing.T) {
	dialer := &fakeDialer{}
	c := newTestChannel(dialer)

	if err := c.Open(OpenOpts{Epoch: 1, Role: session.RoleEmployee, UserId: "u-1", Handler: func(Event) {}}); err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if err := c.Open(OpenOpts{Epoch: 2, Role: session.RoleEmployee, UserId: "u-1", Handler: func(Event) {}}); err != nil {
		t.Fatalf("Open for new epoch returned error: %v", err)
	}

	if dialer.dials != 2 {
		t.Fatalf("expected a fresh dial for the new epoch, got %d dials", dialer.dials)
	}
	if !dialer.conns[0].drained {
		t.Errorf("the stale epoch's connection must be drained")
	}
	if dialer.conns[1].drained {
		t.Errorf("the live connection must not be drained")
	}
	if !c.IsOpen() {
		t.Errorf("expected the channel to stay open on the new connection")
	}
}

func TestSubscriptionDecodesEvents(t *testing.T) {
	dialer := &fakeDialer{}
	c := newTestChannel(dialer)

	received := make(chan Event, 1)
	err := c.Open(OpenOpts{
		Epoch:  1,
		Role:   session.RoleEmployee,
		UserId: "u-1",
		Handler: func(event Event) {
			received <- event
		},
	})
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}

	handler := dialer.conns[0].handlers[0]
	handler(&nats.Msg{
		Subject: "hrdesk.notifications.employee.u-1",
		Data:    []byte(`{"kind":"deductionAdded","message":"A deduction was added","userId":"u-1","emittedAt":"2026-08-30T08:00:00Z"}`),
	})

	select {
	case event := <-received:
		if event.Kind != "deductionAdded" || event.Message != "A deduction was added" {
			t.Errorf("unexpected event: %+v", event)
		}
	case <-time.After(time.Second):
		t.Fatalf("handler was never invoked")
	}

	// malformed payloads are dropped without invoking the handler
	handler(&nats.Msg{Subject: "hrdesk.notifications.employee.u-1", Data: []byte("{")})
	select {
	case event := <-received:
		t.Errorf("handler must not run for a malformed payload, got %+v", event)
	default:
	}
}

func TestCloseDrains(t *testing.T) {
	dialer := &fakeDialer{}
	c := newTestChannel(dialer)

	if err := c.Open(OpenOpts{Epoch: 1, Role: session.RoleEmployee, UserId: "u-1", Handler: func(Event) {}}); err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if !dialer.conns[0].drained {
		t.Errorf("Close must drain the connection")
	}
	if c.IsOpen() {
		t.Errorf("the channel must report closed")
	}
}
