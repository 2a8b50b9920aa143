package notifications

import (
	"fmt"
	"strings"
	"time"
)

// Kind enumerates the event kinds the portal pushes; anything else is
// dropped at the inbox boundary.
type Kind string

const (
	KindDeductionAdded       Kind = "deductionAdded"
	KindIncentiveAssigned    Kind = "incentiveAssigned"
	KindRequestStatusUpdated Kind = "requestStatusUpdated"
	KindPayrollFinalized     Kind = "payrollFinalized"
)

var Kinds = []Kind{
	KindDeductionAdded,
	KindIncentiveAssigned,
	KindRequestStatusUpdated,
	KindPayrollFinalized,
}

func ParseKind(raw string) (Kind, error) {
	for _, kind := range Kinds {
		if string(kind) == raw {
			return kind, nil
		}
	}
	return "", fmt.Errorf("unrecognised notification kind[%s]", raw)
}

// Origin records where an entry came from; push-origin entries carry a
// locally generated id until a fetch supersedes them with the server's.
type Origin string

const (
	OriginFetch Origin = "fetch"
	OriginPush  Origin = "push"
)

type Notification struct {
	Id        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
	Origin    Origin    `json:"-"`

	// PendingRead marks an optimistic mark-as-read that the portal has
	// not acknowledged yet; it reverts on an explicit rejection.
	PendingRead bool `json:"-"`
}

// TimeElapsed is a display-only derivation of CreatedAt.
func (n Notification) TimeElapsed(now time.Time) string {
	elapsed := now.Sub(n.CreatedAt)
	switch {
	case elapsed < time.Minute:
		return "just now"
	case elapsed < time.Hour:
		return fmt.Sprintf("%dm ago", int(elapsed.Minutes()))
	case elapsed < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(elapsed.Hours()))
	}
	return fmt.Sprintf("%dd ago", int(elapsed.Hours()/24))
}

// reconciliationKey matches a push-origin entry against the same logical
// event arriving later in a fetch under a server-assigned id. The portal
// doesn't echo client ids back, so kind+message plus a timestamp window
// is the strongest identity available.
func (n Notification) reconciliationKey() string {
	return string(n.Kind) + "\x00" + strings.TrimSpace(n.Message)
}

const reconciliationWindow = 30 * time.Second

func (n Notification) reconcilesWith(other Notification) bool {
	if n.reconciliationKey() != other.reconciliationKey() {
		return false
	}
	delta := n.CreatedAt.Sub(other.CreatedAt)
	if delta < 0 {
		delta = -delta
	}
	return delta <= reconciliationWindow
}
