package employee

import "sort"

// BuildOrgChart groups nodes under their managers and returns the roots.
// Employees whose manager is missing from the set (inactive, deleted, or
// null) surface as roots instead of disappearing.
//
// The input comes from a self-referencing column with no database-level
// cycle guard, so the build walks each manager chain with a visited set
// and fails loudly on a loop rather than recursing forever.
func BuildOrgChart(nodes []*OrgNode) ([]*OrgUnit, error) {
	units := make(map[int64]*OrgUnit, len(nodes))
	for _, node := range nodes {
		units[node.ID] = &OrgUnit{OrgNode: *node, Children: []*OrgUnit{}}
	}

	if err := detectCycles(units); err != nil {
		return nil, err
	}

	var roots []*OrgUnit
	for _, node := range nodes {
		unit := units[node.ID]
		if node.ManagerID == nil {
			roots = append(roots, unit)
			continue
		}
		parent, ok := units[*node.ManagerID]
		if !ok {
			roots = append(roots, unit)
			continue
		}
		parent.Children = append(parent.Children, unit)
	}

	sortUnits(roots)
	for _, unit := range units {
		sortUnits(unit.Children)
	}

	if roots == nil {
		roots = []*OrgUnit{}
	}
	return roots, nil
}

// detectCycles walks every manager chain once. Nodes proven acyclic are
// memoized so the whole pass is linear.
func detectCycles(units map[int64]*OrgUnit) error {
	safe := make(map[int64]bool, len(units))

	for id := range units {
		visited := make(map[int64]bool)
		current := id
		for {
			if safe[current] {
				break
			}
			if visited[current] {
				return ErrManagerCycle
			}
			visited[current] = true

			unit := units[current]
			if unit.ManagerID == nil {
				break
			}
			parent, ok := units[*unit.ManagerID]
			if !ok {
				break
			}
			current = parent.ID
		}
		for visitedID := range visited {
			safe[visitedID] = true
		}
	}

	return nil
}

func sortUnits(units []*OrgUnit) {
	sort.Slice(units, func(i, j int) bool {
		return units[i].Name < units[j].Name
	})
}
