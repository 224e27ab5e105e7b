package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"findash/internal/amqp"
	"findash/internal/cache"
	"findash/internal/core"
	"findash/internal/services"
	"findash/internal/snapshot"
	"findash/internal/storage"
	"findash/internal/storage/memory"
)

type stubReporter struct {
	violations []string
	missing    bool
	err        error
	calls      int
}

func (s *stubReporter) StoredViolations(context.Context) ([]string, bool, error) {
	s.calls++
	return s.violations, !s.missing, s.err
}

func TestAuditWorker_HandleSnapshotChanged(t *testing.T) {
	ctx := context.Background()
	rep := &stubReporter{violations: []string{"payments: successful + pending = 90, want 100"}}
	w := NewAuditWorker(map[string]ViolationReporter{"financeData": rep}, 10, nil)

	if err := w.HandleSnapshotChanged(ctx, amqp.NewSnapshotChangedMessage("financeData", "update")); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if err := w.HandleSnapshotChanged(ctx, amqp.NewSnapshotChangedMessage("dashboardData", "save")); err != nil {
		t.Fatalf("handle without reporter: %v", err)
	}

	h := w.History()
	if len(h) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(h))
	}
	if h[0].Key != "financeData" || len(h[0].Violations) != 1 {
		t.Fatalf("unexpected first entry %+v", h[0])
	}
	if h[1].Key != "dashboardData" || h[1].Violations != nil {
		t.Fatalf("unexpected second entry %+v", h[1])
	}
	if rep.calls != 1 {
		t.Fatalf("expected reporter called once, got %d", rep.calls)
	}
}

func TestAuditWorker_ReporterErrorRequeues(t *testing.T) {
	boom := errors.New("medium down")
	w := NewAuditWorker(map[string]ViolationReporter{"financeData": &stubReporter{err: boom}}, 10, nil)

	err := w.HandleSnapshotChanged(context.Background(), amqp.NewSnapshotChangedMessage("financeData", "reset"))
	if !errors.Is(err, boom) {
		t.Fatalf("expected reporter error, got %v", err)
	}
	if len(w.History()) != 0 {
		t.Fatalf("failed events must not be recorded")
	}
}

func TestAuditWorker_HistoryIsBounded(t *testing.T) {
	w := NewAuditWorker(nil, 3, nil)
	for i := 0; i < 5; i++ {
		msg := amqp.NewSnapshotChangedMessage("financeData", "save")
		if err := w.HandleSnapshotChanged(context.Background(), msg); err != nil {
			t.Fatal(err)
		}
	}
	if got := len(w.History()); got != 3 {
		t.Fatalf("expected 3 retained entries, got %d", got)
	}
}

func TestAuditWorker_StartupCheck(t *testing.T) {
	ok := &stubReporter{}
	bad := &stubReporter{violations: []string{"goals[0]: percentage 120 outside [0,100]"}}
	w := NewAuditWorker(map[string]ViolationReporter{"a": ok, "b": bad}, 10, nil)

	if err := w.StartupCheck(context.Background()); err != nil {
		t.Fatalf("startup check: %v", err)
	}
	if ok.calls != 1 || bad.calls != 1 {
		t.Fatalf("expected each reporter called once, got %d/%d", ok.calls, bad.calls)
	}

	failing := NewAuditWorker(map[string]ViolationReporter{"a": &stubReporter{err: errors.New("x")}}, 10, nil)
	if err := failing.StartupCheck(context.Background()); err == nil {
		t.Fatalf("expected startup error")
	}
}

func TestAuditWorker_ClearSkipsReporter(t *testing.T) {
	rep := &stubReporter{}
	w := NewAuditWorker(map[string]ViolationReporter{"financeData": rep}, 10, nil)

	msg := amqp.NewSnapshotChangedMessage("financeData", string(snapshot.OpClear))
	if err := w.HandleSnapshotChanged(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if rep.calls != 0 {
		t.Fatalf("clear events must not be audited, reporter called %d times", rep.calls)
	}
	if h := w.History(); len(h) != 1 || h[0].Operation != "clear" {
		t.Fatalf("unexpected history %+v", h)
	}
}

func TestAuditWorker_MissingSnapshot(t *testing.T) {
	w := NewAuditWorker(map[string]ViolationReporter{"financeData": &stubReporter{missing: true}}, 10, nil)

	if err := w.HandleSnapshotChanged(context.Background(), amqp.NewSnapshotChangedMessage("financeData", "save")); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if h := w.History(); len(h) != 1 || !h[0].Missing {
		t.Fatalf("expected a missing entry, got %+v", h)
	}
}

// newSharedStores returns a writer store over shared and an auditing store
// that reads shared through its own read-through cache, as a second process
// would.
func newSharedStores(shared storage.Medium) (writer, auditor *snapshot.Store[core.FinanceData]) {
	cached := storage.NewCachedMedium(shared, cache.NewLRUCache[string](4, time.Minute))
	writer = snapshot.New(shared, core.FinanceKey, core.DefaultFinanceData, nil)
	auditor = snapshot.New(cached, core.FinanceKey, core.DefaultFinanceData, nil)
	return writer, auditor
}

func TestAuditWorker_SharedMediumSeesFreshWrites(t *testing.T) {
	ctx := context.Background()
	shared := memory.New(nil)
	writer, auditStore := newSharedStores(shared)
	w := NewAuditWorker(map[string]ViolationReporter{
		core.FinanceKey: services.NewDashboardService(auditStore),
	}, 10, nil)

	if _, err := writer.Get(ctx); err != nil {
		t.Fatal(err)
	}
	// Warm the auditor's cache with the seeded blob.
	if _, err := auditStore.Get(ctx); err != nil {
		t.Fatal(err)
	}
	if err := w.StartupCheck(ctx); err != nil {
		t.Fatalf("startup check: %v", err)
	}

	d := core.DefaultFinanceData()
	d.Payments.Pending = 90
	if err := writer.Save(ctx, d); err != nil {
		t.Fatal(err)
	}
	if err := w.HandleSnapshotChanged(ctx, amqp.NewSnapshotChangedMessage(core.FinanceKey, string(snapshot.OpSave))); err != nil {
		t.Fatalf("handle: %v", err)
	}

	h := w.History()
	if len(h) != 1 || len(h[0].Violations) == 0 {
		t.Fatalf("expected the payments violation of the saved record, got %+v", h)
	}
}

func TestAuditWorker_NeverWritesSharedMedium(t *testing.T) {
	ctx := context.Background()
	shared := memory.New(nil)
	writer, auditStore := newSharedStores(shared)
	w := NewAuditWorker(map[string]ViolationReporter{
		core.FinanceKey: services.NewDashboardService(auditStore),
	}, 10, nil)

	if err := w.StartupCheck(ctx); err != nil {
		t.Fatalf("startup check on empty medium: %v", err)
	}
	if n := shared.Writes(); n != 0 {
		t.Fatalf("startup check wrote %d times to an empty medium", n)
	}

	if _, err := writer.Get(ctx); err != nil {
		t.Fatal(err)
	}
	if err := writer.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	writes := shared.Writes()

	for _, op := range []snapshot.Operation{snapshot.OpClear, snapshot.OpSave} {
		if err := w.HandleSnapshotChanged(ctx, amqp.NewSnapshotChangedMessage(core.FinanceKey, string(op))); err != nil {
			t.Fatalf("handle %s: %v", op, err)
		}
	}

	if _, ok, _ := shared.GetItem(ctx, core.FinanceKey); ok {
		t.Fatalf("auditing restored the cleared snapshot")
	}
	if n := shared.Writes(); n != writes {
		t.Fatalf("auditing wrote to the medium: %d writes, want %d", n, writes)
	}
	if h := w.History(); !h[1].Missing {
		t.Fatalf("expected the save audit to find nothing stored, got %+v", h[1])
	}
}
