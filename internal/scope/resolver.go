// Package scope resolves which areas, workers and attendance records a
// role holder may see or act on. Resolution is pure: it depends only on
// the user's role and area assignments, never on storage.
package scope

import "gorm.io/gorm"

// Set is a resolved visibility scope. When All is true the AreaIDs slice
// is ignored and every area is in scope, including areas created after
// the user's assignment.
type Set struct {
	All     bool
	AreaIDs []string
}

// Actor is the acting user as seen by services: identity plus resolved
// scope and the optional nationality-handling restriction.
type Actor struct {
	UserID      string
	Role        Role
	Scope       Set
	Nationality string
}

// Resolve computes the visibility scope for a role and its area
// assignments. ADMIN and any user assigned the ALL area get full scope;
// explicit assignments yield the union of primary and additional areas;
// no assignment yields an empty scope.
func Resolve(role Role, primaryAreaID string, extraAreaIDs []string) Set {
	if role == RoleAdmin || primaryAreaID == AreaAll {
		return Set{All: true}
	}
	for _, id := range extraAreaIDs {
		if id == AreaAll {
			return Set{All: true}
		}
	}

	seen := make(map[string]struct{}, len(extraAreaIDs)+1)
	ids := make([]string, 0, len(extraAreaIDs)+1)
	if primaryAreaID != "" {
		seen[primaryAreaID] = struct{}{}
		ids = append(ids, primaryAreaID)
	}
	for _, id := range extraAreaIDs {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return Set{AreaIDs: ids}
}

func (s Set) Contains(areaID string) bool {
	if s.All {
		return true
	}
	for _, id := range s.AreaIDs {
		if id == areaID {
			return true
		}
	}
	return false
}

func (s Set) Empty() bool {
	return !s.All && len(s.AreaIDs) == 0
}

// MatchesNationality reports whether a worker's nationality tag falls
// within the actor's handled-nationality restriction. An empty or
// wildcard restriction matches every worker.
func MatchesNationality(handled, workerTag string) bool {
	if handled == "" || handled == NationalityAll {
		return true
	}
	return handled == workerTag
}

// AreaFilter restricts a query to the given scope. An empty scope
// matches nothing rather than everything.
func AreaFilter(s Set) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if s.All {
			return db
		}
		if len(s.AreaIDs) == 0 {
			return db.Where("1 = 0")
		}
		return db.Where("area_id IN ?", s.AreaIDs)
	}
}

// AreaFilterOn is AreaFilter with an explicit column, for queries that
// join the workers table.
func AreaFilterOn(s Set, column string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if s.All {
			return db
		}
		if len(s.AreaIDs) == 0 {
			return db.Where("1 = 0")
		}
		return db.Where(column+" IN ?", s.AreaIDs)
	}
}
