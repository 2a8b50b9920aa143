package cli

import (
	"testing"
	"time"

	"hrdesk/internal/notifications"
	"hrdesk/pkg/portal"
)

func TestFromPortalNotifications(t *testing.T) {
	createdAt := time.Date(2026, 8, 30, 8, 0, 0, 0, time.UTC)
	converted := FromPortalNotifications([]portal.NotificationV1{
		{Id: "n-1", Kind: "deductionAdded", Message: "A deduction was added", Read: false, CreatedAt: createdAt},
		{Id: "n-2", Kind: "payrollFinalized", Message: "Payroll finalized", Read: true, CreatedAt: createdAt},
	})

	if len(converted) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(converted))
	}
	first := converted[0]
	if first.Id != "n-1" || first.Kind != notifications.KindDeductionAdded || first.Read {
		t.Errorf("unexpected conversion: %+v", first)
	}
	if first.Origin != notifications.OriginFetch {
		t.Errorf("fetched entries must carry the fetch origin, got %s", first.Origin)
	}
	if !first.CreatedAt.Equal(createdAt) {
		t.Errorf("unexpected createdAt %s", first.CreatedAt)
	}
}
