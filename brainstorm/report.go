package brainstorm

import (
	"fmt"
	"strings"
)

// DefaultReportTitle is used when the admin saves a summary without a title.
const DefaultReportTitle = "Brainstorm Results"

// FormatReport renders a summary as the markdown body of the announcement a
// saved session leaves behind. For group summaries each ranked group lists
// its highest-voted member idea as a representative.
func FormatReport(title string, summary *Summary, snapshot *Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "**Participants**: %d\n", summary.Participants)
	fmt.Fprintf(&b, "**Total ideas**: %d\n", summary.TotalIdeas)

	if summary.Type == "groups" {
		fmt.Fprintf(&b, "**Total votes**: %d\n\n", summary.TotalVotes)
		b.WriteString("## Top groups\n\n")
		for i, group := range summary.TopGroups {
			fmt.Fprintf(&b, "%d. **%s** (votes: %d)\n", i+1, group.Title, group.Votes)
			if top, ok := representativeIdea(group.ID, snapshot.Ideas); ok {
				fmt.Fprintf(&b, "   - Representative idea: %q\n", top.Text)
			}
			b.WriteString("\n")
		}
		return b.String()
	}

	b.WriteString("\n## Top ideas\n\n")
	for i, idea := range summary.TopItems {
		fmt.Fprintf(&b, "%d. %q (votes: %d)\n", i+1, idea.Text, idea.Votes)
	}
	return b.String()
}

func representativeIdea(groupID string, ideas []Idea) (Idea, bool) {
	var top Idea
	found := false
	for _, idea := range ideas {
		if idea.GroupID != groupID {
			continue
		}
		if !found || idea.Votes > top.Votes {
			top = idea
			found = true
		}
	}
	return top, found
}
