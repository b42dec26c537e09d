package events

import "time"

// Family identifies one of the watched entity families. A change
// notification carries the family and nothing else: consumers refetch,
// they never patch.
type Family string

const (
	FamilyAttendance Family = "attendance"
	FamilyWorkers    Family = "workers"
	FamilyUsers      Family = "users"
)

const (
	AttendanceChangedTopic = "muni.attendance.changed.v1"
	WorkersChangedTopic    = "muni.workers.changed.v1"
	UsersChangedTopic      = "muni.users.changed.v1"
)

// Topic maps a family to its broker topic.
func (f Family) Topic() string {
	switch f {
	case FamilyAttendance:
		return AttendanceChangedTopic
	case FamilyWorkers:
		return WorkersChangedTopic
	case FamilyUsers:
		return UsersChangedTopic
	}
	return ""
}

// FamilyForTopic is the inverse of Topic; unknown topics return "".
func FamilyForTopic(topic string) Family {
	switch topic {
	case AttendanceChangedTopic:
		return FamilyAttendance
	case WorkersChangedTopic:
		return FamilyWorkers
	case UsersChangedTopic:
		return FamilyUsers
	}
	return ""
}

// ChangedEvent is the wire payload published per mutation. It is a
// signal, not a delta.
type ChangedEvent struct {
	EventType  string    `json:"event_type"`
	Family     string    `json:"family"`
	OccurredAt time.Time `json:"occurred_at"`
}
