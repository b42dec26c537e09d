package scope

// AreaClaim is the slice of a user relevant to supervision coverage:
// whether an active field supervisor claims an area as primary or
// additional.
type AreaClaim struct {
	Role    Role
	Active  bool
	AreaIDs []string
}

// UnsupervisedAreas returns the area ids within the given scope for
// which no active SUPERVISOR claims the area. Several surfaces depend on
// this exact answer, so it lives here rather than in any view layer.
func UnsupervisedAreas(s Set, allAreaIDs []string, claims []AreaClaim) []string {
	claimed := make(map[string]struct{})
	for _, c := range claims {
		if c.Role != RoleSupervisor || !c.Active {
			continue
		}
		for _, id := range c.AreaIDs {
			claimed[id] = struct{}{}
		}
	}

	out := make([]string, 0, len(allAreaIDs))
	for _, id := range allAreaIDs {
		if !s.Contains(id) {
			continue
		}
		if _, ok := claimed[id]; ok {
			continue
		}
		out = append(out, id)
	}
	return out
}
