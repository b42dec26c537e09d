package attendance

import (
	"bytes"
	"context"
	"encoding/csv"
	"strconv"

	"go-attendance/internal/scope"
)

var exportHeader = []string{
	"worker_id", "worker_name", "area",
	"normal_days", "overtime_days", "holiday_days", "festival_days",
	"day_total", "amount", "status",
}

// ExportCSV renders the actor's visible slice of a period as a payroll
// CSV. Rows follow the same scope and nationality filtering as the
// period listing.
func (s *service) ExportCSV(ctx context.Context, actor scope.Actor, month, year int) ([]byte, error) {
	rows, err := s.ListForPeriod(ctx, actor, month, year)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	for _, r := range rows {
		rec := []string{
			r.WorkerID,
			r.WorkerName,
			r.AreaName,
			strconv.Itoa(r.NormalDays),
			strconv.Itoa(r.OvertimeDays),
			strconv.Itoa(r.HolidayDays),
			strconv.Itoa(r.FestivalDays),
			strconv.FormatFloat(r.DayTotal, 'f', 1, 64),
			strconv.FormatFloat(r.Amount, 'f', 2, 64),
			r.Status,
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
