package notifications

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"hrdesk/internal/common"
)

// ReadConfirmer issues the server-side acknowledgement for a mark-as-read;
// implemented by the portal SDK, faked in tests.
type ReadConfirmer interface {
	ConfirmRead(ctx context.Context, notificationId string) error

	// IsTransportError distinguishes "the portal never saw the call" from
	// an explicit rejection.
	IsTransportError(err error) bool
}

// Inbox is the authoritative local view of the user's notifications. It
// exclusively owns the in-memory list: channel events, fetch snapshots
// and mark-as-read all mutate state through it and nothing else writes to
// the list directly.
type Inbox struct {
	confirmer   ReadConfirmer
	serviceLogs chan<- common.ServiceLog

	mu    sync.Mutex
	items []Notification
}

func NewInbox(confirmer ReadConfirmer, serviceLogs chan<- common.ServiceLog) *Inbox {
	if serviceLogs == nil {
		serviceLogs = common.GetNoopServiceLog()
	}
	return &Inbox{
		confirmer:   confirmer,
		serviceLogs: serviceLogs,
	}
}

// HandleEvent converts a pushed event into an unread notification and
// prepends it (most-recent-first). Push-origin entries get a locally
// generated id until a later fetch supersedes them. Unrecognised kinds
// are dropped with a warning.
func (i *Inbox) HandleEvent(rawKind string, message string, emittedAt time.Time) (*Notification, error) {
	kind, err := ParseKind(rawKind)
	if err != nil {
		i.serviceLogs <- common.ServiceLogf(common.LogLevelWarn, "dropping pushed event: %s", err)
		return nil, err
	}
	if emittedAt.IsZero() {
		emittedAt = time.Now()
	}
	notification := Notification{
		Id:        uuid.NewString(),
		Kind:      kind,
		Message:   message,
		Read:      false,
		CreatedAt: emittedAt,
		Origin:    OriginPush,
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	i.items = append([]Notification{notification}, i.items...)
	return &notification, nil
}

// ApplySnapshot merges a fetch result into the list. The fetch seeds or
// replaces server-known entries, but push-origin entries that arrived
// before or during the fetch are never clobbered: an entry the snapshot
// doesn't account for (by id, or by reconciliation against the same
// logical event) stays at the head of the list.
func (i *Inbox) ApplySnapshot(snapshot []Notification) {
	i.mu.Lock()
	defer i.mu.Unlock()

	merged := make([]Notification, 0, len(snapshot)+len(i.items))
	for _, fetched := range snapshot {
		fetched.Origin = OriginFetch
		// A locally read entry with its confirmation still in flight
		// keeps its read state; everything else defers to the server.
		for _, existing := range i.items {
			if existing.Id == fetched.Id && existing.PendingRead {
				fetched.Read = existing.Read
				fetched.PendingRead = true
				break
			}
		}
		merged = append(merged, fetched)
	}

	var unaccounted []Notification
	for _, existing := range i.items {
		if existing.Origin != OriginPush {
			continue
		}
		matched := false
		for _, fetched := range merged {
			if existing.Id == fetched.Id || existing.reconcilesWith(fetched) {
				matched = true
				break
			}
		}
		if !matched {
			unaccounted = append(unaccounted, existing)
		}
	}

	i.items = append(unaccounted, merged...)
}

// MarkAsRead optimistically flips the entry to read, then confirms with
// the portal. A malformed id is rejected before any network call and
// mutates nothing. An explicit portal rejection reverts the optimistic
// flip; a transport failure is logged and the optimistic state kept
// (notifications are best-effort). Marking an already-read entry is a
// no-op success with no network call.
func (i *Inbox) MarkAsRead(ctx context.Context, notificationId string) error {
	if _, err := uuid.Parse(notificationId); err != nil {
		return fmt.Errorf("invalid notification id[%s]: %s", notificationId, err)
	}

	i.mu.Lock()
	index := -1
	for n := range i.items {
		if i.items[n].Id == notificationId {
			index = n
			break
		}
	}
	if index < 0 {
		i.mu.Unlock()
		return fmt.Errorf("no notification with id[%s]", notificationId)
	}
	if i.items[index].Read && !i.items[index].PendingRead {
		i.mu.Unlock()
		return nil
	}
	i.items[index].Read = true
	i.items[index].PendingRead = true
	i.mu.Unlock()

	err := i.confirmer.ConfirmRead(ctx, notificationId)

	i.mu.Lock()
	defer i.mu.Unlock()
	// The list may have been re-ordered while the call was in flight.
	index = -1
	for n := range i.items {
		if i.items[n].Id == notificationId {
			index = n
			break
		}
	}
	if index < 0 {
		return err
	}
	switch {
	case err == nil:
		i.items[index].PendingRead = false
	case i.confirmer.IsTransportError(err):
		i.serviceLogs <- common.ServiceLogf(common.LogLevelWarn, "mark-as-read for notification[%s] unconfirmed: %s", notificationId, err)
		err = nil
	default:
		i.items[index].Read = false
		i.items[index].PendingRead = false
	}
	return err
}

// UnreadCount is always recomputed from the list so it can't drift from
// the entries it summarises.
func (i *Inbox) UnreadCount() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	count := 0
	for _, item := range i.items {
		if !item.Read {
			count++
		}
	}
	return count
}

// List returns a copy of the current notifications, most recent first.
func (i *Inbox) List() []Notification {
	i.mu.Lock()
	defer i.mu.Unlock()
	items := make([]Notification, len(i.items))
	copy(items, i.items)
	return items
}

// Reset drops all local state; call it on session switches.
func (i *Inbox) Reset() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.items = nil
}
