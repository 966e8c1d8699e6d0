package engine

import (
	"sort"

	"github.com/piwi3910/rackmap/internal/model"
)

// AggregateRacks groups containers by rack row and computes each row's
// bounding volume. Racks come out in the order their row first appears.
func AggregateRacks(containers []model.Container) []model.Rack {
	var order []string
	groups := make(map[string][]model.Container)
	for _, c := range containers {
		if _, seen := groups[c.Row]; !seen {
			order = append(order, c.Row)
		}
		groups[c.Row] = append(groups[c.Row], c)
	}

	racks := make([]model.Rack, 0, len(order))
	for _, row := range order {
		members := groups[row]

		minCorner := members[0].Position
		maxCorner := members[0].Max()
		maxLevel := members[0].Level
		sectionSet := make(map[string]bool)
		for _, c := range members {
			minCorner = minCorner.Min(c.Position)
			maxCorner = maxCorner.Max(c.Max())
			maxLevel = max(maxLevel, c.Level)
			sectionSet[c.Section] = true
		}

		sections := make([]string, 0, len(sectionSet))
		for s := range sectionSet {
			sections = append(sections, s)
		}
		sort.Strings(sections)

		racks = append(racks, model.Rack{
			ID:             "R" + row,
			Row:            row,
			Sections:       sections,
			MaxLevel:       maxLevel,
			ContainerCount: len(members),
			BoundsMin:      minCorner,
			BoundsMax:      maxCorner,
		})
	}
	return racks
}
