package brainstorm

import (
	"encoding/json"
	"strconv"
)

type Phase string

const (
	PhaseOpen   Phase = "open"
	PhaseVoting Phase = "voting"
	PhaseClosed Phase = "closed"
)

// TargetType tags what a vote lands on.
type TargetType string

const (
	TargetIdea  TargetType = "idea"
	TargetGroup TargetType = "group"
)

// MaxIdeaLength is the hard cap on idea text; overflow is truncated, not
// rejected.
const MaxIdeaLength = 50

// Idea is one submitted idea. Authorship is recorded only as the submitter's
// session pseudonym.
type Idea struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	AnonID    string `json:"anon_id"`
	GroupID   string `json:"group_id"`
	Votes     int    `json:"votes"`
	CreatedAt string `json:"created_at"`
}

func (i *Idea) toHash() map[string]string {
	return map[string]string{
		"text":       i.Text,
		"anon_id":    i.AnonID,
		"group_id":   i.GroupID,
		"votes":      strconv.Itoa(i.Votes),
		"created_at": i.CreatedAt,
	}
}

func ideaFromHash(id string, fields map[string]string) Idea {
	return Idea{
		ID:        id,
		Text:      fields["text"],
		AnonID:    fields["anon_id"],
		GroupID:   fields["group_id"],
		Votes:     atoi(fields["votes"]),
		CreatedAt: fields["created_at"],
	}
}

// Group is an admin-curated cluster of ideas. An idea belongs to at most one
// group; the member list preserves insertion order.
type Group struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	IdeaIDs   []string `json:"idea_ids"`
	Votes     int      `json:"votes"`
	CreatedAt string   `json:"created_at"`
}

func (g *Group) toHash() map[string]string {
	ideaIDs := g.IdeaIDs
	if ideaIDs == nil {
		ideaIDs = []string{}
	}
	encoded, _ := json.Marshal(ideaIDs)
	return map[string]string{
		"title":      g.Title,
		"idea_ids":   string(encoded),
		"votes":      strconv.Itoa(g.Votes),
		"created_at": g.CreatedAt,
	}
}

func groupFromHash(id string, fields map[string]string) Group {
	ideaIDs := []string{}
	if raw := fields["idea_ids"]; raw != "" {
		// Corrupt member lists degrade to empty rather than failing the read.
		_ = json.Unmarshal([]byte(raw), &ideaIDs)
	}
	return Group{
		ID:        id,
		Title:     fields["title"],
		IdeaIDs:   ideaIDs,
		Votes:     atoi(fields["votes"]),
		CreatedAt: fields["created_at"],
	}
}

// Counters are the session-level aggregates kept in a single store hash and
// mutated only with atomic hash increments.
type Counters struct {
	TotalIdeas  int `json:"total_ideas"`
	TotalVotes  int `json:"total_votes"`
	ActiveUsers int `json:"active_users"`
}

func countersFromHash(fields map[string]string) Counters {
	return Counters{
		TotalIdeas:  atoi(fields["total_ideas"]),
		TotalVotes:  atoi(fields["total_votes"]),
		ActiveUsers: atoi(fields["active_users"]),
	}
}

// Snapshot is the full materialized view of a session: the participant's view
// on join and the summary generator's input.
type Snapshot struct {
	SessionID string   `json:"session_id"`
	Phase     Phase    `json:"phase"`
	Ideas     []Idea   `json:"ideas"`
	Groups    []Group  `json:"groups"`
	Counters  Counters `json:"counters"`
}

// Summary ranks a finished session's output: top 3 groups when any group
// exists, otherwise top 5 ungrouped ideas.
type Summary struct {
	Type         string  `json:"type"`
	TopGroups    []Group `json:"top_groups,omitempty"`
	TopItems     []Idea  `json:"top_items,omitempty"`
	TotalVotes   int     `json:"total_votes"`
	TotalIdeas   int     `json:"total_ideas"`
	Participants int     `json:"participants"`
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
