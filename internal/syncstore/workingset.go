package syncstore

import (
	"context"
	"sort"

	"go-attendance/internal/attendance"
	"go-attendance/internal/user"
	"go-attendance/internal/worker"
)

// Record returns one record from the working set.
func (s *Session) Record(key attendance.RecordKey) (attendance.RecordResponse, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[key]
	return rec, ok
}

// Records returns the working set's records ordered by worker id.
func (s *Session) Records() []attendance.RecordResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]attendance.RecordResponse, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].WorkerID != out[j].WorkerID {
			return out[i].WorkerID < out[j].WorkerID
		}
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out
}

func (s *Session) Workers() []worker.WorkerResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]worker.WorkerResponse, 0, len(s.workers))
	for _, w := range s.workers {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Session) Users() []user.UserResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]user.UserResponse, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out
}

// putRecord writes a server response through into the working set.
func (s *Session) putRecord(rec attendance.RecordResponse) {
	s.mu.Lock()
	s.records[rec.Key()] = rec
	s.mu.Unlock()
}

// Save submits figures to the server and immediately reflects the
// authoritative row locally, without waiting for the change feed.
func (s *Session) Save(ctx context.Context, req attendance.SaveRecordRequest) (attendance.RecordResponse, error) {
	rec, err := s.writer.SaveRecord(ctx, req)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	s.putRecord(rec)
	return rec, nil
}

func (s *Session) Approve(ctx context.Context, key attendance.RecordKey) (attendance.RecordResponse, error) {
	rec, err := s.writer.ApproveRecord(ctx, key)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	s.putRecord(rec)
	return rec, nil
}

func (s *Session) Reject(ctx context.Context, key attendance.RecordKey, reason string) (attendance.RecordResponse, error) {
	rec, err := s.writer.RejectRecord(ctx, key, reason)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	s.putRecord(rec)
	return rec, nil
}

func (s *Session) Reopen(ctx context.Context, key attendance.RecordKey) (attendance.RecordResponse, error) {
	rec, err := s.writer.ReopenRecord(ctx, key)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	s.putRecord(rec)
	return rec, nil
}
