package attendance

import "time"

// SaveRecordRequest carries the raw figures for one worker-month. The
// binding caps are an input-layer sanity net; the service re-validates
// against the actual calendar month.
type SaveRecordRequest struct {
	WorkerID     string `json:"worker_id" binding:"required,max=64"`
	Month        int    `json:"month" binding:"required,min=1,max=12"`
	Year         int    `json:"year" binding:"required,min=2000,max=2100"`
	NormalDays   int    `json:"normal_days" binding:"min=0,max=31"`
	OvertimeDays int    `json:"overtime_days" binding:"min=0,max=31"`
	HolidayDays  int    `json:"holiday_days" binding:"min=0,max=31"`
	FestivalDays int    `json:"festival_days" binding:"min=0,max=10"`
}

// RejectRecordRequest carries the optional free-text rejection note.
type RejectRecordRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

type RecordResponse struct {
	WorkerID        string  `json:"worker_id"`
	WorkerName      string  `json:"worker_name,omitempty"`
	AreaID          string  `json:"area_id,omitempty"`
	AreaName        string  `json:"area_name,omitempty"`
	Month           int     `json:"month"`
	Year            int     `json:"year"`
	NormalDays      int     `json:"normal_days"`
	OvertimeDays    int     `json:"overtime_days"`
	HolidayDays     int     `json:"holiday_days"`
	FestivalDays    int     `json:"festival_days"`
	DayTotal        float64 `json:"day_total"`
	Amount          float64 `json:"amount"`
	Status          string  `json:"status"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
	UpdatedAt       string  `json:"updated_at,omitempty"`
}

func (r RecordResponse) Key() RecordKey {
	return RecordKey{WorkerID: r.WorkerID, Month: r.Month, Year: r.Year}
}

func mapToResponse(rec Record) RecordResponse {
	// The day total is recomputed from the raw counts on every read so
	// a stale stored value can never leak out.
	total := DayTotal(rec.NormalDays, rec.OvertimeDays, rec.HolidayDays, rec.FestivalDays)
	resp := RecordResponse{
		WorkerID:        rec.WorkerID,
		Month:           rec.Month,
		Year:            rec.Year,
		NormalDays:      rec.NormalDays,
		OvertimeDays:    rec.OvertimeDays,
		HolidayDays:     rec.HolidayDays,
		FestivalDays:    rec.FestivalDays,
		DayTotal:        total,
		Status:          string(rec.Status),
		RejectionReason: rec.RejectionReason,
	}
	if !rec.UpdatedAt.IsZero() {
		resp.UpdatedAt = rec.UpdatedAt.UTC().Format(time.RFC3339)
	}
	if rec.Worker != nil {
		resp.WorkerName = rec.Worker.Name
		resp.AreaID = rec.Worker.AreaID.String()
		resp.Amount = PayableAmount(total, rec.Worker.DayValue)
		if rec.Worker.Area != nil {
			resp.AreaName = rec.Worker.Area.Name
		}
	}
	return resp
}
