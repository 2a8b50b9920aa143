package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

type fakeConfirmer struct {
	calls     int
	err       error
	transport bool
}

func (f *fakeConfirmer) ConfirmRead(_ context.Context, _ string) error {
	f.calls++
	return f.err
}

func (f *fakeConfirmer) IsTransportError(_ error) bool {
	return f.transport
}

func fetchedNotification(id string, kind Kind, message string, read bool, createdAt time.Time) Notification {
	return Notification{
		Id:        id,
		Kind:      kind,
		Message:   message,
		Read:      read,
		CreatedAt: createdAt,
		Origin:    OriginFetch,
	}
}

func TestHandleEventPrependsUnread(t *testing.T) {
	inbox := NewInbox(&fakeConfirmer{}, nil)
	inbox.ApplySnapshot([]Notification{
		fetchedNotification(uuid.NewString(), KindPayrollFinalized, "Payroll for July is finalized", true, time.Now().Add(-time.Hour)),
	})

	received, err := inbox.HandleEvent(string(KindDeductionAdded), "A deduction was added", time.Now())
	if err != nil {
		t.Fatalf("HandleEvent returned error: %v", err)
	}
	if received.Read {
		t.Errorf("a pushed notification must arrive unread")
	}
	if _, err := uuid.Parse(received.Id); err != nil {
		t.Errorf("a pushed notification must get a locally generated uuid, got %q", received.Id)
	}

	items := inbox.List()
	if len(items) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(items))
	}
	if items[0].Id != received.Id {
		t.Errorf("the pushed notification must sit at the head of the list")
	}
	if inbox.UnreadCount() != 1 {
		t.Errorf("expected 1 unread, got %d", inbox.UnreadCount())
	}
}

func TestHandleEventDropsUnknownKind(t *testing.T) {
	inbox := NewInbox(&fakeConfirmer{}, nil)
	if _, err := inbox.HandleEvent("salaryDoubled", "too good to be true", time.Now()); err == nil {
		t.Fatalf("expected an error for an unrecognised kind")
	}
	if len(inbox.List()) != 0 {
		t.Errorf("an unrecognised kind must not create an entry")
	}
}

func TestApplySnapshotSeedsList(t *testing.T) {
	inbox := NewInbox(&fakeConfirmer{}, nil)
	now := time.Now()
	inbox.ApplySnapshot([]Notification{
		fetchedNotification(uuid.NewString(), KindIncentiveAssigned, "You got an incentive", false, now),
		fetchedNotification(uuid.NewString(), KindPayrollFinalized, "Payroll for July is finalized", true, now.Add(-time.Hour)),
	})
	if len(inbox.List()) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(inbox.List()))
	}
	if inbox.UnreadCount() != 1 {
		t.Errorf("expected 1 unread, got %d", inbox.UnreadCount())
	}
}

func TestApplySnapshotKeepsUnmatchedPushEntries(t *testing.T) {
	inbox := NewInbox(&fakeConfirmer{}, nil)
	received, err := inbox.HandleEvent(string(KindRequestStatusUpdated), "Your leave request was approved", time.Now())
	if err != nil {
		t.Fatalf("HandleEvent returned error: %v", err)
	}

	// a snapshot fetched before the event reached the server
	inbox.ApplySnapshot([]Notification{
		fetchedNotification(uuid.NewString(), KindPayrollFinalized, "Payroll for July is finalized", true, time.Now().Add(-2*time.Hour)),
	})

	items := inbox.List()
	if len(items) != 2 {
		t.Fatalf("the fetch must not clobber the pushed entry, got %d entries", len(items))
	}
	if items[0].Id != received.Id {
		t.Errorf("the unaccounted pushed entry must stay at the head of the list")
	}
	if inbox.UnreadCount() != 1 {
		t.Errorf("expected 1 unread, got %d", inbox.UnreadCount())
	}
}

func TestApplySnapshotReconcilesPushedEntryWithServerId(t *testing.T) {
	inbox := NewInbox(&fakeConfirmer{}, nil)
	emittedAt := time.Now()
	if _, err := inbox.HandleEvent(string(KindDeductionAdded), "A deduction was added", emittedAt); err != nil {
		t.Fatalf("HandleEvent returned error: %v", err)
	}

	// the same logical event arrives in a fetch under the server's id
	serverId := uuid.NewString()
	inbox.ApplySnapshot([]Notification{
		fetchedNotification(serverId, KindDeductionAdded, "A deduction was added", false, emittedAt.Add(2*time.Second)),
	})

	items := inbox.List()
	if len(items) != 1 {
		t.Fatalf("expected the pushed entry to be absorbed, got %d entries", len(items))
	}
	if items[0].Id != serverId {
		t.Errorf("the server-assigned id must win, got %q", items[0].Id)
	}
}

func TestApplySnapshotPreservesPendingRead(t *testing.T) {
	confirmer := &fakeConfirmer{err: errors.New("portal unreachable"), transport: true}
	inbox := NewInbox(confirmer, nil)
	id := uuid.NewString()
	inbox.ApplySnapshot([]Notification{
		fetchedNotification(id, KindIncentiveAssigned, "You got an incentive", false, time.Now()),
	})

	// the confirmation never reached the portal, the optimistic state holds
	if err := inbox.MarkAsRead(context.Background(), id); err != nil {
		t.Fatalf("MarkAsRead returned error: %v", err)
	}

	// a subsequent fetch still reports the entry unread
	inbox.ApplySnapshot([]Notification{
		fetchedNotification(id, KindIncentiveAssigned, "You got an incentive", false, time.Now()),
	})

	items := inbox.List()
	if !items[0].Read {
		t.Errorf("a fetch must not clobber a locally read entry awaiting confirmation")
	}
	if inbox.UnreadCount() != 0 {
		t.Errorf("expected 0 unread, got %d", inbox.UnreadCount())
	}
}

func TestMarkAsReadRejectsMalformedId(t *testing.T) {
	confirmer := &fakeConfirmer{}
	inbox := NewInbox(confirmer, nil)
	inbox.ApplySnapshot([]Notification{
		fetchedNotification(uuid.NewString(), KindPayrollFinalized, "Payroll for July is finalized", false, time.Now()),
	})

	if err := inbox.MarkAsRead(context.Background(), "not-a-uuid"); err == nil {
		t.Fatalf("expected an error for a malformed id")
	}
	if confirmer.calls != 0 {
		t.Errorf("a malformed id must be rejected before any network call, got %d calls", confirmer.calls)
	}
	if inbox.UnreadCount() != 1 {
		t.Errorf("a malformed id must mutate nothing")
	}
}

func TestMarkAsReadUnknownId(t *testing.T) {
	confirmer := &fakeConfirmer{}
	inbox := NewInbox(confirmer, nil)
	if err := inbox.MarkAsRead(context.Background(), uuid.NewString()); err == nil {
		t.Fatalf("expected an error for an unknown id")
	}
	if confirmer.calls != 0 {
		t.Errorf("an unknown id must not trigger a network call")
	}
}

func TestMarkAsReadAlreadyReadIsNoop(t *testing.T) {
	confirmer := &fakeConfirmer{}
	inbox := NewInbox(confirmer, nil)
	id := uuid.NewString()
	inbox.ApplySnapshot([]Notification{
		fetchedNotification(id, KindPayrollFinalized, "Payroll for July is finalized", true, time.Now()),
	})

	if err := inbox.MarkAsRead(context.Background(), id); err != nil {
		t.Fatalf("MarkAsRead returned error: %v", err)
	}
	if confirmer.calls != 0 {
		t.Errorf("marking an already-read entry must not trigger a network call")
	}
}

func TestMarkAsReadConfirmed(t *testing.T) {
	confirmer := &fakeConfirmer{}
	inbox := NewInbox(confirmer, nil)
	id := uuid.NewString()
	inbox.ApplySnapshot([]Notification{
		fetchedNotification(id, KindIncentiveAssigned, "You got an incentive", false, time.Now()),
	})

	if err := inbox.MarkAsRead(context.Background(), id); err != nil {
		t.Fatalf("MarkAsRead returned error: %v", err)
	}
	if confirmer.calls != 1 {
		t.Fatalf("expected 1 confirmation call, got %d", confirmer.calls)
	}
	items := inbox.List()
	if !items[0].Read || items[0].PendingRead {
		t.Errorf("a confirmed entry must be read with no pending flag, got %+v", items[0])
	}
	if inbox.UnreadCount() != 0 {
		t.Errorf("expected 0 unread, got %d", inbox.UnreadCount())
	}
}

func TestMarkAsReadRejectionReverts(t *testing.T) {
	confirmer := &fakeConfirmer{err: errors.New("not_found")}
	inbox := NewInbox(confirmer, nil)
	id := uuid.NewString()
	inbox.ApplySnapshot([]Notification{
		fetchedNotification(id, KindIncentiveAssigned, "You got an incentive", false, time.Now()),
	})

	if err := inbox.MarkAsRead(context.Background(), id); err == nil {
		t.Fatalf("an explicit rejection must surface as an error")
	}
	items := inbox.List()
	if items[0].Read {
		t.Errorf("an explicit rejection must revert the optimistic flip")
	}
	if inbox.UnreadCount() != 1 {
		t.Errorf("expected 1 unread after the revert, got %d", inbox.UnreadCount())
	}
}

func TestMarkAsReadTransportFailureKeepsOptimisticState(t *testing.T) {
	confirmer := &fakeConfirmer{err: errors.New("connection refused"), transport: true}
	inbox := NewInbox(confirmer, nil)
	id := uuid.NewString()
	inbox.ApplySnapshot([]Notification{
		fetchedNotification(id, KindIncentiveAssigned, "You got an incentive", false, time.Now()),
	})

	if err := inbox.MarkAsRead(context.Background(), id); err != nil {
		t.Fatalf("a transport failure must not surface as an error, got: %v", err)
	}
	items := inbox.List()
	if !items[0].Read {
		t.Errorf("a transport failure must keep the optimistic read state")
	}
	if !items[0].PendingRead {
		t.Errorf("an unconfirmed entry must keep its pending flag")
	}
}

func TestUnreadCountRecomputed(t *testing.T) {
	inbox := NewInbox(&fakeConfirmer{}, nil)
	now := time.Now()
	ids := []string{uuid.NewString(), uuid.NewString(), uuid.NewString()}
	inbox.ApplySnapshot([]Notification{
		fetchedNotification(ids[0], KindDeductionAdded, "one", false, now),
		fetchedNotification(ids[1], KindIncentiveAssigned, "two", false, now.Add(-time.Minute)),
		fetchedNotification(ids[2], KindPayrollFinalized, "three", true, now.Add(-time.Hour)),
	})
	if inbox.UnreadCount() != 2 {
		t.Fatalf("expected 2 unread, got %d", inbox.UnreadCount())
	}
	if err := inbox.MarkAsRead(context.Background(), ids[0]); err != nil {
		t.Fatalf("MarkAsRead returned error: %v", err)
	}
	if inbox.UnreadCount() != 1 {
		t.Errorf("expected 1 unread, got %d", inbox.UnreadCount())
	}
}

func TestResetDropsState(t *testing.T) {
	inbox := NewInbox(&fakeConfirmer{}, nil)
	inbox.ApplySnapshot([]Notification{
		fetchedNotification(uuid.NewString(), KindDeductionAdded, "one", false, time.Now()),
	})
	inbox.Reset()
	if len(inbox.List()) != 0 || inbox.UnreadCount() != 0 {
		t.Errorf("reset must drop all local state")
	}
}

func TestTimeElapsed(t *testing.T) {
	now := time.Now()
	tests := []struct {
		age      time.Duration
		expected string
	}{
		{30 * time.Second, "just now"},
		{5 * time.Minute, "5m ago"},
		{3 * time.Hour, "3h ago"},
		{48 * time.Hour, "2d ago"},
	}
	for _, tt := range tests {
		n := Notification{CreatedAt: now.Add(-tt.age)}
		if got := n.TimeElapsed(now); got != tt.expected {
			t.Errorf("TimeElapsed(age=%s) = %q, expected %q", tt.age, got, tt.expected)
		}
	}
}
