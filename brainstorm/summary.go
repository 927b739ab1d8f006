package brainstorm

import "sort"

const (
	summaryTopGroups = 3
	summaryTopIdeas  = 5
)

// BuildSummary ranks a snapshot for end-of-session reporting. If any group
// exists the summary ranks groups (top 3); otherwise it ranks ungrouped ideas
// (top 5). Sorting is stable, so ties keep the encounter order of the
// underlying index (newest first).
func BuildSummary(snapshot *Snapshot) *Summary {
	summary := &Summary{
		TotalVotes:   snapshot.Counters.TotalVotes,
		TotalIdeas:   snapshot.Counters.TotalIdeas,
		Participants: snapshot.Counters.ActiveUsers,
	}

	if len(snapshot.Groups) > 0 {
		groups := make([]Group, len(snapshot.Groups))
		copy(groups, snapshot.Groups)
		sort.SliceStable(groups, func(i, j int) bool {
			return groups[i].Votes > groups[j].Votes
		})
		if len(groups) > summaryTopGroups {
			groups = groups[:summaryTopGroups]
		}
		summary.Type = "groups"
		summary.TopGroups = groups
		return summary
	}

	ungrouped := make([]Idea, 0, len(snapshot.Ideas))
	for _, idea := range snapshot.Ideas {
		if idea.GroupID == "" {
			ungrouped = append(ungrouped, idea)
		}
	}
	sort.SliceStable(ungrouped, func(i, j int) bool {
		return ungrouped[i].Votes > ungrouped[j].Votes
	})
	if len(ungrouped) > summaryTopIdeas {
		ungrouped = ungrouped[:summaryTopIdeas]
	}
	summary.Type = "ideas"
	summary.TopItems = ungrouped
	return summary
}
