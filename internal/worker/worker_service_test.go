package worker_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"sort"
	"testing"
	"time"

	"go-attendance/internal/audit"
	"go-attendance/internal/events"
	"go-attendance/internal/messaging/kafka"
	"go-attendance/internal/scope"
	"go-attendance/internal/worker"
	workererrors "go-attendance/internal/worker/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRepo struct {
	workers map[string]*worker.Worker
	areas   map[string]bool

	findAllCalls int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		workers: make(map[string]*worker.Worker),
		areas:   make(map[string]bool),
	}
}

func (f *fakeRepo) WithTx(tx *sql.Tx) worker.Repository { return f }

func (f *fakeRepo) Create(ctx context.Context, w *worker.Worker) error {
	f.workers[w.ID] = w
	return nil
}

func (f *fakeRepo) FindAll(ctx context.Context, s scope.Set) ([]worker.Worker, error) {
	f.findAllCalls++
	var out []worker.Worker
	for _, w := range f.workers {
		if !s.Contains(w.AreaID.String()) {
			continue
		}
		out = append(out, *w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRepo) FindByID(ctx context.Context, id string) (*worker.Worker, error) {
	w, ok := f.workers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *w
	return &cp, nil
}

func (f *fakeRepo) ExistsByID(ctx context.Context, id string) (bool, error) {
	_, ok := f.workers[id]
	return ok, nil
}

func (f *fakeRepo) AreaExists(ctx context.Context, areaID string) (bool, error) {
	return f.areas[areaID], nil
}

func (f *fakeRepo) Update(ctx context.Context, w *worker.Worker) error {
	f.workers[w.ID] = w
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, id string) error {
	delete(f.workers, id)
	return nil
}

type fakeAuditRepo struct {
	entries []audit.Entry
}

func (f *fakeAuditRepo) WithTx(tx *sql.Tx) audit.Repository { return f }

func (f *fakeAuditRepo) Create(ctx context.Context, e *audit.Entry) error {
	f.entries = append(f.entries, *e)
	return nil
}

func (f *fakeAuditRepo) Search(ctx context.Context, q audit.Query) ([]audit.Entry, error) {
	return f.entries, nil
}

type fakeOutbox struct {
	created []kafka.OutboxEvent
}

func (f *fakeOutbox) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutbox) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.created = append(f.created, event)
	return nil
}

func (f *fakeOutbox) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return f.created, nil
}

func (f *fakeOutbox) MarkSent(ctx context.Context, id string) error            { return nil }
func (f *fakeOutbox) MarkFailed(ctx context.Context, id, reason string) error { return nil }

type serviceDeps struct {
	sqlMock   sqlmock.Sqlmock
	redisMock redismock.ClientMock
	repo      *fakeRepo
	auditRepo *fakeAuditRepo
	outbox    *fakeOutbox
	service   worker.Service
}

func setupServiceTest(t *testing.T) *serviceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	rdb, redisMock := redismock.NewClientMock()

	repo := newFakeRepo()
	auditRepo := &fakeAuditRepo{}
	outbox := &fakeOutbox{}
	return &serviceDeps{
		sqlMock:   sqlMock,
		redisMock: redisMock,
		repo:      repo,
		auditRepo: auditRepo,
		outbox:    outbox,
		service:   worker.NewService(db, repo, auditRepo, outbox, rdb),
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func adminActor() scope.Actor {
	return scope.Actor{UserID: uuid.New().String(), Role: scope.RoleAdmin, Scope: scope.Set{All: true}}
}

func seedWorker(deps *serviceDeps, id string, areaID uuid.UUID, nationality string) *worker.Worker {
	deps.repo.areas[areaID.String()] = true
	w := &worker.Worker{
		ID:          id,
		Name:        "Worker " + id,
		AreaID:      areaID,
		DayValue:    10,
		Nationality: nationality,
	}
	deps.repo.workers[id] = w
	return w
}

func TestWorkerService_Create(t *testing.T) {
	ctx := context.Background()
	areaID := uuid.New()

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.areas[areaID.String()] = true
		expectTx(t, deps.sqlMock, true)
		deps.redisMock.ExpectDel(worker.GetWorkerOptionsKey(areaID.String())).SetVal(1)

		resp, err := deps.service.Create(ctx, adminActor(), worker.CreateWorkerRequest{
			ID:       "W-001",
			Name:     "Ali Hassan",
			AreaID:   areaID.String(),
			DayValue: 12.5,
		})

		assert.NoError(t, err)
		assert.Equal(t, "W-001", resp.ID)
		assert.Equal(t, areaID.String(), resp.AreaID)

		assert.Len(t, deps.auditRepo.entries, 1)
		assert.Equal(t, audit.ActionInsert, deps.auditRepo.entries[0].Action)
		assert.Len(t, deps.outbox.created, 1)
		assert.Equal(t, string(events.FamilyWorkers), deps.outbox.created[0].Family)
		assert.NoError(t, deps.redisMock.ExpectationsWereMet())
	})

	t.Run("duplicate id", func(t *testing.T) {
		deps := setupServiceTest(t)
		seedWorker(deps, "W-001", areaID, "")
		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Create(ctx, adminActor(), worker.CreateWorkerRequest{
			ID: "W-001", Name: "Ali Hassan", AreaID: areaID.String(), DayValue: 12.5,
		})

		assert.ErrorIs(t, err, workererrors.ErrDuplicateWorkerID)
	})

	t.Run("unknown area", func(t *testing.T) {
		deps := setupServiceTest(t)
		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Create(ctx, adminActor(), worker.CreateWorkerRequest{
			ID: "W-002", Name: "Ali Hassan", AreaID: uuid.New().String(), DayValue: 12.5,
		})

		assert.ErrorIs(t, err, workererrors.ErrAreaNotFound)
	})

	t.Run("area outside actor scope", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.areas[areaID.String()] = true
		expectTx(t, deps.sqlMock, false)

		actor := scope.Actor{Role: scope.RoleSupervisor, Scope: scope.Set{AreaIDs: []string{uuid.New().String()}}}
		_, err := deps.service.Create(ctx, actor, worker.CreateWorkerRequest{
			ID: "W-003", Name: "Ali Hassan", AreaID: areaID.String(), DayValue: 12.5,
		})

		assert.ErrorIs(t, err, workererrors.ErrWorkerOutOfScope)
	})
}

func TestWorkerService_GetAll(t *testing.T) {
	ctx := context.Background()
	areaNorth := uuid.New()
	areaSouth := uuid.New()

	deps := setupServiceTest(t)
	seedWorker(deps, "W-001", areaNorth, "PH")
	seedWorker(deps, "W-002", areaSouth, "ID")

	t.Run("scope filters by area", func(t *testing.T) {
		actor := scope.Actor{Role: scope.RoleSupervisor, Scope: scope.Set{AreaIDs: []string{areaNorth.String()}}}
		resp, err := deps.service.GetAll(ctx, actor)
		assert.NoError(t, err)
		if assert.Len(t, resp, 1) {
			assert.Equal(t, "W-001", resp[0].ID)
		}
	})

	t.Run("nationality restriction filters rows", func(t *testing.T) {
		actor := adminActor()
		actor.Nationality = "ID"
		resp, err := deps.service.GetAll(ctx, actor)
		assert.NoError(t, err)
		if assert.Len(t, resp, 1) {
			assert.Equal(t, "W-002", resp[0].ID)
		}
	})
}

func TestWorkerService_GetOptions(t *testing.T) {
	ctx := context.Background()
	areaID := uuid.New()
	key := worker.GetWorkerOptionsKey(areaID.String())

	t.Run("cache miss populates redis", func(t *testing.T) {
		deps := setupServiceTest(t)
		seedWorker(deps, "W-001", areaID, "")

		want := []worker.WorkerResponse{{
			ID:       "W-001",
			Name:     "Worker W-001",
			AreaID:   areaID.String(),
			DayValue: 10,
		}}
		raw, err := json.Marshal(want)
		assert.NoError(t, err)

		deps.redisMock.ExpectGet(key).RedisNil()
		deps.redisMock.ExpectSet(key, raw, 10*time.Minute).SetVal("OK")

		resp, err := deps.service.GetOptions(ctx, adminActor(), areaID.String())

		assert.NoError(t, err)
		assert.Equal(t, want, resp)
		assert.Equal(t, 1, deps.repo.findAllCalls)
		assert.NoError(t, deps.redisMock.ExpectationsWereMet())
	})

	t.Run("cache hit skips storage", func(t *testing.T) {
		deps := setupServiceTest(t)
		seedWorker(deps, "W-001", areaID, "")

		cached := []worker.WorkerResponse{{ID: "W-001", Name: "Worker W-001", AreaID: areaID.String(), DayValue: 10}}
		raw, err := json.Marshal(cached)
		assert.NoError(t, err)
		deps.redisMock.ExpectGet(key).SetVal(string(raw))

		resp, err := deps.service.GetOptions(ctx, adminActor(), areaID.String())

		assert.NoError(t, err)
		assert.Equal(t, cached, resp)
		assert.Zero(t, deps.repo.findAllCalls)
	})

	t.Run("area outside actor scope", func(t *testing.T) {
		deps := setupServiceTest(t)
		actor := scope.Actor{Role: scope.RoleSupervisor, Scope: scope.Set{AreaIDs: []string{uuid.New().String()}}}

		_, err := deps.service.GetOptions(ctx, actor, areaID.String())
		assert.ErrorIs(t, err, workererrors.ErrWorkerOutOfScope)
	})
}

func TestWorkerService_Update(t *testing.T) {
	ctx := context.Background()
	areaNorth := uuid.New()
	areaSouth := uuid.New()

	t.Run("moving areas invalidates both option caches", func(t *testing.T) {
		deps := setupServiceTest(t)
		seedWorker(deps, "W-001", areaNorth, "")
		deps.repo.areas[areaSouth.String()] = true
		expectTx(t, deps.sqlMock, true)
		deps.redisMock.ExpectDel(worker.GetWorkerOptionsKey(areaNorth.String())).SetVal(1)
		deps.redisMock.ExpectDel(worker.GetWorkerOptionsKey(areaSouth.String())).SetVal(1)

		resp, err := deps.service.Update(ctx, adminActor(), "W-001", worker.UpdateWorkerRequest{
			Name:     "Renamed",
			AreaID:   areaSouth.String(),
			DayValue: 15,
		})

		assert.NoError(t, err)
		assert.Equal(t, areaSouth.String(), resp.AreaID)
		assert.Equal(t, 15.0, resp.DayValue)
		assert.NoError(t, deps.redisMock.ExpectationsWereMet())
	})

	t.Run("missing worker", func(t *testing.T) {
		deps := setupServiceTest(t)
		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Update(ctx, adminActor(), "W-404", worker.UpdateWorkerRequest{
			Name: "X", AreaID: areaNorth.String(), DayValue: 1,
		})
		assert.ErrorIs(t, err, workererrors.ErrWorkerNotFound)
	})
}

func TestWorkerService_Delete(t *testing.T) {
	ctx := context.Background()
	areaID := uuid.New()

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)
		seedWorker(deps, "W-001", areaID, "")
		expectTx(t, deps.sqlMock, true)
		deps.redisMock.ExpectDel(worker.GetWorkerOptionsKey(areaID.String())).SetVal(1)

		err := deps.service.Delete(ctx, adminActor(), "W-001")

		assert.NoError(t, err)
		assert.NotContains(t, deps.repo.workers, "W-001")
		assert.Len(t, deps.auditRepo.entries, 1)
		assert.Equal(t, audit.ActionDelete, deps.auditRepo.entries[0].Action)
		assert.Len(t, deps.outbox.created, 1)
	})

	t.Run("out of scope", func(t *testing.T) {
		deps := setupServiceTest(t)
		seedWorker(deps, "W-001", areaID, "")
		expectTx(t, deps.sqlMock, false)

		actor := scope.Actor{Role: scope.RoleSupervisor, Scope: scope.Set{AreaIDs: []string{uuid.New().String()}}}
		err := deps.service.Delete(ctx, actor, "W-001")

		assert.ErrorIs(t, err, workererrors.ErrWorkerOutOfScope)
		assert.Contains(t, deps.repo.workers, "W-001")
	})
}
