package pgstore_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/dalemusser/projecthub/internal/app/store"
	pgstore "github.com/dalemusser/projecthub/internal/app/store/postgres"
	"github.com/dalemusser/projecthub/internal/domain/models"
	"github.com/dalemusser/projecthub/internal/testutil"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// setupPool returns a pool whose search_path points at a fresh schema that
// is dropped after the test. Skips unless PROJECTHUB_TEST_POSTGRES_DSN is set.
func setupPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("PROJECTHUB_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("PROJECTHUB_TEST_POSTGRES_DSN not set")
	}
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin, err := pgstore.Connect(ctx, dsn, 2)
	if err != nil {
		t.Skipf("postgres unavailable: %v", err)
	}
	schema := fmt.Sprintf("projecthub_test_%d", time.Now().UnixNano())
	if _, err := admin.Exec(ctx, "CREATE SCHEMA "+schema); err != nil {
		admin.Close()
		t.Fatalf("create schema: %v", err)
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		t.Fatalf("parse dsn: %v", err)
	}
	cfg.ConnConfig.RuntimeParams["search_path"] = schema
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		_, _ = admin.Exec(context.Background(), "DROP SCHEMA "+schema+" CASCADE")
		admin.Close()
	})

	if err := pgstore.EnsureSchema(ctx, pool, zap.NewNop()); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}
	return pool
}

func TestEnsureSchema_Idempotent(t *testing.T) {
	pool := setupPool(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := pgstore.EnsureSchema(ctx, pool, zap.NewNop()); err != nil {
		t.Fatalf("second EnsureSchema failed: %v", err)
	}
}

func TestProjects_Lifecycle(t *testing.T) {
	set := pgstore.New(setupPool(t))
	fx := testutil.NewFixtures(t, set)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p := fx.CreateProject(ctx, "Well A")
	if p.ID <= 0 || p.RequestStatus != 0 || p.Status != testutil.PendingStatus {
		t.Fatalf("unexpected created project: %+v", p)
	}

	err := set.Projects.ApplyRequest(ctx, p.ID, models.RequestUpdate{
		ProjectDescription: "Add borehole",
		StartDate:          "2024-01-01",
		EndDate:            "2024-06-01",
	}, true)
	if err != nil {
		t.Fatalf("ApplyRequest failed: %v", err)
	}
	got, err := set.Projects.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.RequestStatus != 1 || got.StartDate == nil || *got.StartDate != "2024-01-01" || *got.EndDate != "2024-06-01" {
		t.Errorf("unexpected project after request: %+v", got)
	}

	if err := set.Projects.ApplyRequest(ctx, p.ID, models.RequestUpdate{ProjectDescription: "x", StartDate: "2024-01-01", EndDate: "2024-01-02"}, false); !errors.Is(err, store.ErrAlreadySubmitted) {
		t.Errorf("expected ErrAlreadySubmitted, got %v", err)
	}

	submitted, err := set.Projects.ListSubmitted(ctx)
	if err != nil || len(submitted) != 1 {
		t.Errorf("ListSubmitted: got %d, err %v", len(submitted), err)
	}

	if err := set.Projects.UpdateStatus(ctx, p.ID, "ຂັ້ນຕອນການເຮັດສັນຍາ"); err != nil {
		t.Errorf("UpdateStatus failed: %v", err)
	}

	fx.CreateAttachment(ctx, p.ID, "fileA", "uploads/project_requests/1_fileA")
	if err := set.Projects.Delete(ctx, p.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	rows, err := set.Attachments.ListByRequest(ctx, p.ID)
	if err != nil || len(rows) != 0 {
		t.Errorf("expected attachment rows removed, got %d (err %v)", len(rows), err)
	}
}

func TestProjects_NotFound(t *testing.T) {
	set := pgstore.New(setupPool(t))
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := set.Projects.GetByID(ctx, 9999); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetByID: expected ErrNotFound, got %v", err)
	}
	if err := set.Projects.UpdateStatus(ctx, 9999, "x"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("UpdateStatus: expected ErrNotFound, got %v", err)
	}
	if err := set.Projects.Delete(ctx, 9999); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Delete: expected ErrNotFound, got %v", err)
	}
	err := set.Projects.ApplyRequest(ctx, 9999, models.RequestUpdate{ProjectDescription: "x", StartDate: "2024-01-01", EndDate: "2024-01-02"}, false)
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("ApplyRequest: expected ErrNotFound, got %v", err)
	}
}

func TestGeo(t *testing.T) {
	pool := setupPool(t)
	set := pgstore.New(pool)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := pool.Exec(ctx, `
		INSERT INTO erp_province (code, name_1) VALUES ('02', 'Phongsaly'), ('01', 'Vientiane Capital');
		INSERT INTO erp_amper (code, name_1, province) VALUES ('0101', 'Chanthabouly', '01'), ('0201', 'Phongsaly', '02');
		INSERT INTO erp_tambon (code, name_1, province, amper) VALUES ('010101', 'Haysok', '01', '0101');`)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	provinces, err := set.Geo.Provinces(ctx)
	if err != nil || len(provinces) != 2 || provinces[0].Code != "01" {
		t.Errorf("Provinces: got %+v, err %v", provinces, err)
	}
	districts, err := set.Geo.Districts(ctx, "02")
	if err != nil || len(districts) != 1 || districts[0].Name1 != "Phongsaly" {
		t.Errorf("Districts: got %+v, err %v", districts, err)
	}
	villages, err := set.Geo.Villages(ctx, "01", "0102")
	if err != nil || villages == nil || len(villages) != 0 {
		t.Errorf("Villages: expected empty, got %+v, err %v", villages, err)
	}
}

func TestEvents(t *testing.T) {
	set := pgstore.New(setupPool(t))
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := set.Events.Log(ctx, models.ProjectEvent{
		EventType: "project_created",
		ProjectID: 4,
		Success:   true,
		Details:   map[string]string{"project_name": "Well A"},
	})
	if err != nil {
		t.Fatalf("Log failed: %v", err)
	}
	events, err := set.Events.ListByProject(ctx, 4, 10)
	if err != nil {
		t.Fatalf("ListByProject failed: %v", err)
	}
	if len(events) != 1 || events[0].Details["project_name"] != "Well A" {
		t.Errorf("unexpected events: %+v", events)
	}
}
