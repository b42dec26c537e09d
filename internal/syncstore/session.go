// Package syncstore keeps a client-side working set of attendance
// records, workers and users in step with the server. Reads come from
// the local set, writes go through to the server and land back in the
// set from the server's response, and change notifications trigger a
// refetch of the affected family.
package syncstore

import (
	"context"
	"sync"

	"go-attendance/internal/attendance"
	"go-attendance/internal/events"
	"go-attendance/internal/user"
	"go-attendance/internal/worker"

	"go.uber.org/zap"
)

// Fetcher pulls the actor's visible slice of each data family.
type Fetcher interface {
	FetchRecords(ctx context.Context, month, year int) ([]attendance.RecordResponse, error)
	FetchWorkers(ctx context.Context) ([]worker.WorkerResponse, error)
	FetchUsers(ctx context.Context) ([]user.UserResponse, error)
}

// Writer applies mutations on the server. Every call returns the
// server's authoritative row, which the session writes through into
// the working set.
type Writer interface {
	SaveRecord(ctx context.Context, req attendance.SaveRecordRequest) (attendance.RecordResponse, error)
	ApproveRecord(ctx context.Context, key attendance.RecordKey) (attendance.RecordResponse, error)
	RejectRecord(ctx context.Context, key attendance.RecordKey, reason string) (attendance.RecordResponse, error)
	ReopenRecord(ctx context.Context, key attendance.RecordKey) (attendance.RecordResponse, error)
}

type period struct {
	Month int
	Year  int
}

type Session struct {
	fetcher Fetcher
	writer  Writer
	bus     *events.Bus
	logger  *zap.Logger

	mu      sync.Mutex
	current period
	records map[attendance.RecordKey]attendance.RecordResponse
	workers map[string]worker.WorkerResponse
	users   map[string]user.UserResponse
	// gen is bumped per family on every change notification. A fetch
	// that started before a bump is stale and its result is discarded.
	gen map[events.Family]uint64

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

func NewSession(fetcher Fetcher, writer Writer, bus *events.Bus, logger ...*zap.Logger) *Session {
	l := zap.L().Named("syncstore.session")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("syncstore.session")
	}
	return &Session{
		fetcher: fetcher,
		writer:  writer,
		bus:     bus,
		logger:  l,
		records: make(map[attendance.RecordKey]attendance.RecordResponse),
		workers: make(map[string]worker.WorkerResponse),
		users:   make(map[string]user.UserResponse),
		gen:     make(map[events.Family]uint64),
	}
}

// Start subscribes to the change feed and begins refetching on
// notifications. Stop with Close.
func (s *Session) Start(ctx context.Context) {
	if s.bus == nil {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)

	sub := s.bus.Subscribe(16)
	s.wg.Add(1)
	go s.watch(ctx, sub)
}

func (s *Session) watch(ctx context.Context, sub *events.Subscription) {
	defer s.wg.Done()
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case family, ok := <-sub.C:
			if !ok {
				return
			}
			s.bump(family)
			if err := s.refresh(ctx, family); err != nil && ctx.Err() == nil {
				s.logger.Warn("refetch after change notification failed",
					zap.String("family", string(family)),
					zap.Error(err),
				)
			}
		}
	}
}

func (s *Session) Close() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *Session) bump(family events.Family) {
	s.mu.Lock()
	s.gen[family]++
	s.mu.Unlock()
}

// SetPeriod switches the attendance working set to a new month and
// loads it. Records of the previous period are dropped.
func (s *Session) SetPeriod(ctx context.Context, month, year int) error {
	s.mu.Lock()
	s.current = period{Month: month, Year: year}
	s.records = make(map[attendance.RecordKey]attendance.RecordResponse)
	s.gen[events.FamilyAttendance]++
	s.mu.Unlock()
	return s.refresh(ctx, events.FamilyAttendance)
}

// RefreshAll loads every family.
func (s *Session) RefreshAll(ctx context.Context) error {
	for _, family := range []events.Family{
		events.FamilyWorkers,
		events.FamilyUsers,
		events.FamilyAttendance,
	} {
		if err := s.refresh(ctx, family); err != nil {
			return err
		}
	}
	return nil
}

// refresh fetches one family and merges it in, retrying from scratch
// whenever a change notification raced the fetch.
func (s *Session) refresh(ctx context.Context, family events.Family) error {
	for {
		s.mu.Lock()
		startGen := s.gen[family]
		p := s.current
		s.mu.Unlock()

		var apply func()
		switch family {
		case events.FamilyAttendance:
			if p == (period{}) {
				return nil
			}
			rows, err := s.fetcher.FetchRecords(ctx, p.Month, p.Year)
			if err != nil {
				return err
			}
			apply = func() { s.mergeRecords(rows) }
		case events.FamilyWorkers:
			rows, err := s.fetcher.FetchWorkers(ctx)
			if err != nil {
				return err
			}
			apply = func() { s.replaceWorkers(rows) }
		case events.FamilyUsers:
			rows, err := s.fetcher.FetchUsers(ctx)
			if err != nil {
				return err
			}
			apply = func() { s.replaceUsers(rows) }
		default:
			return nil
		}

		s.mu.Lock()
		if s.gen[family] != startGen || s.current != p {
			s.mu.Unlock()
			s.logger.Debug("discarding stale fetch", zap.String("family", string(family)))
			continue
		}
		apply()
		s.mu.Unlock()
		return nil
	}
}

// mergeRecords upserts fetched rows without evicting rows the fetch
// did not return: a row can leave the actor's visible slice while a
// decision elsewhere is in flight, and dropping it here would lose the
// local echo of that decision.
func (s *Session) mergeRecords(rows []attendance.RecordResponse) {
	for _, row := range rows {
		s.records[row.Key()] = row
	}
}

func (s *Session) replaceWorkers(rows []worker.WorkerResponse) {
	s.workers = make(map[string]worker.WorkerResponse, len(rows))
	for _, row := range rows {
		s.workers[row.ID] = row
	}
}

func (s *Session) replaceUsers(rows []user.UserResponse) {
	s.users = make(map[string]user.UserResponse, len(rows))
	for _, row := range rows {
		s.users[row.ID] = row
	}
}
