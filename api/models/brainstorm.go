package models

import "github.com/Monmon-1020/CampusFlow/brainstorm"

type ErrorResponse struct {
	Error string `json:"error"`
}

type SessionCreateRequest struct {
	StreamID string `json:"stream_id" binding:"required"`
}

type SessionCreateResponse struct {
	SessionID string           `json:"session_id"`
	Phase     brainstorm.Phase `json:"phase"`
}

// SessionResponse is the snapshot returned on join, extended with the
// caller's own pseudonym.
type SessionResponse struct {
	brainstorm.Snapshot
	AnonID string `json:"anon_id"`
}

type IdeaSubmitRequest struct {
	Text string `json:"text" binding:"required"`
}

type IdeaSubmitResponse struct {
	IdeaID string `json:"idea_id"`
}

type GroupCreateRequest struct {
	Title string `json:"title" binding:"required"`
}

type GroupCreateResponse struct {
	GroupID string `json:"group_id"`
}

type MoveIdeaRequest struct {
	IdeaID  string `json:"idea_id" binding:"required"`
	GroupID string `json:"group_id" binding:"required"`
}

type StartVotingResponse struct {
	Phase brainstorm.Phase `json:"phase"`
}

type VoteRequest struct {
	TargetID   string                `json:"target_id" binding:"required"`
	TargetType brainstorm.TargetType `json:"target_type" binding:"required"`
}

type VoteResponse struct {
	RemainingVotes int `json:"remaining_votes"`
}

type SaveSummaryRequest struct {
	Title string `json:"title"`
}

type SaveSummaryResponse struct {
	AnnouncementID string              `json:"announcement_id"`
	Summary        *brainstorm.Summary `json:"summary"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
