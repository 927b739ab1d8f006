package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Monmon-1020/CampusFlow/api/models"
	"github.com/Monmon-1020/CampusFlow/api/transport"
	"github.com/Monmon-1020/CampusFlow/auth"
	"github.com/Monmon-1020/CampusFlow/brainstorm"
	"github.com/Monmon-1020/CampusFlow/logging"
	"github.com/Monmon-1020/CampusFlow/storage"
	"github.com/Monmon-1020/CampusFlow/ws"
)

type BrainstormController struct {
	service       *brainstorm.Service
	announcements storage.AnnouncementStorage
	hub           *ws.Hub
	tokens        auth.TokenValidator
}

func NewBrainstormController(service *brainstorm.Service, announcements storage.AnnouncementStorage, hub *ws.Hub, tokens auth.TokenValidator) *BrainstormController {
	return &BrainstormController{
		service:       service,
		announcements: announcements,
		hub:           hub,
		tokens:        tokens,
	}
}

func (c *BrainstormController) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api/brainstorm", transport.IdentityMiddleware())

	group.POST("/sessions", c.createSession)
	group.GET("/sessions/:id", c.getSession)
	group.POST("/sessions/:id/ideas", c.submitIdea)
	group.POST("/sessions/:id/groups", c.createGroup)
	group.POST("/sessions/:id/move", c.moveIdea)
	group.POST("/sessions/:id/start-voting", c.startVoting)
	group.POST("/sessions/:id/vote", c.castVote)
	group.POST("/sessions/:id/end", c.endSession)
	group.POST("/sessions/:id/save", c.saveSummary)
	group.DELETE("/sessions/:id", c.deleteSession)

	// The websocket upgrade authenticates with a connect token instead of the
	// gateway headers, so it stays outside the identity group.
	engine.GET("/api/brainstorm/sessions/:id/ws", c.connect)
}

// writeEngineError maps the engine's error taxonomy onto HTTP statuses.
func writeEngineError(g *gin.Context, err error) {
	switch {
	case errors.Is(err, brainstorm.ErrSessionNotFound), errors.Is(err, brainstorm.ErrTargetNotFound):
		g.JSON(http.StatusNotFound, &models.ErrorResponse{Error: err.Error()})
	case errors.Is(err, brainstorm.ErrForbidden):
		g.JSON(http.StatusForbidden, &models.ErrorResponse{Error: err.Error()})
	case errors.Is(err, brainstorm.ErrInvalidState), errors.Is(err, brainstorm.ErrNotInSession),
		errors.Is(err, brainstorm.ErrNoVotesRemaining), errors.Is(err, brainstorm.ErrAlreadyVoted):
		g.JSON(http.StatusConflict, &models.ErrorResponse{Error: err.Error()})
	case errors.Is(err, brainstorm.ErrRateLimited):
		g.JSON(http.StatusTooManyRequests, &models.ErrorResponse{Error: err.Error()})
	case errors.Is(err, storage.ErrUnavailable):
		logging.Log.Errorf("engine operation failed, store unreachable: %v", err)
		g.JSON(http.StatusBadGateway, &models.ErrorResponse{Error: "session store unavailable"})
	default:
		logging.Log.Errorf("unexpected engine error: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "internal error"})
	}
}

// createSession godoc
// @Summary Create a brainstorm session
// @Description Opens a new session for a stream; the caller becomes its admin
// @Tags brainstorm
// @Accept json
// @Produce json
// @Param session body models.SessionCreateRequest true "Target stream"
// @Success 200 {object} models.SessionCreateResponse
// @Failure 400 {object} models.ErrorResponse "Invalid request body"
// @Failure 403 {object} models.ErrorResponse "Caller is not a stream admin"
// @Router /api/brainstorm/sessions [post]
func (c *BrainstormController) createSession(g *gin.Context) {
	var req models.SessionCreateRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid request format"})
		return
	}

	if !auth.IsStreamAdmin(transport.StreamRole(g)) {
		g.JSON(http.StatusForbidden, &models.ErrorResponse{Error: "user is not admin of this stream"})
		return
	}

	sessionID, err := c.service.CreateSession(g.Request.Context(), req.StreamID, transport.UserID(g))
	if err != nil {
		writeEngineError(g, err)
		return
	}

	event := ws.NewEvent("session:open")
	event.SessionID = sessionID
	event.Phase = brainstorm.PhaseOpen
	c.hub.Broadcast(sessionID, event)

	g.JSON(http.StatusOK, &models.SessionCreateResponse{SessionID: sessionID, Phase: brainstorm.PhaseOpen})
}

// getSession godoc
// @Summary Join a session and fetch its snapshot
// @Description Joins the caller (idempotent) and returns ideas, groups, counters and the caller's pseudonym
// @Tags brainstorm
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} models.SessionResponse
// @Failure 404 {object} models.ErrorResponse "Unknown or expired session"
// @Router /api/brainstorm/sessions/{id} [get]
func (c *BrainstormController) getSession(g *gin.Context) {
	sessionID := g.Param("id")

	anonID, err := c.service.JoinSession(g.Request.Context(), sessionID, transport.UserID(g))
	if err != nil {
		writeEngineError(g, err)
		return
	}
	snapshot, err := c.service.GetSessionData(g.Request.Context(), sessionID)
	if err != nil {
		writeEngineError(g, err)
		return
	}

	g.JSON(http.StatusOK, &models.SessionResponse{Snapshot: *snapshot, AnonID: anonID})
}

// submitIdea godoc
// @Summary Submit an idea
// @Description Stores a new idea under the caller's pseudonym; text is capped at 50 characters
// @Tags brainstorm
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param idea body models.IdeaSubmitRequest true "Idea text"
// @Success 200 {object} models.IdeaSubmitResponse
// @Failure 409 {object} models.ErrorResponse "Session not collecting ideas"
// @Failure 429 {object} models.ErrorResponse "Submission throttle exceeded"
// @Router /api/brainstorm/sessions/{id}/ideas [post]
func (c *BrainstormController) submitIdea(g *gin.Context) {
	sessionID := g.Param("id")
	var req models.IdeaSubmitRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid request format"})
		return
	}

	idea, err := c.service.SubmitIdea(g.Request.Context(), sessionID, transport.UserID(g), req.Text)
	if err != nil {
		writeEngineError(g, err)
		return
	}

	event := ws.NewEvent("idea:new")
	event.Idea = &idea
	c.hub.Broadcast(sessionID, event)

	g.JSON(http.StatusOK, &models.IdeaSubmitResponse{IdeaID: idea.ID})
}

// createGroup godoc
// @Summary Create an idea group
// @Description Admin-only; creates an empty group ideas can be moved into
// @Tags brainstorm
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param group body models.GroupCreateRequest true "Group title"
// @Success 200 {object} models.GroupCreateResponse
// @Failure 403 {object} models.ErrorResponse "Caller is not the session admin"
// @Router /api/brainstorm/sessions/{id}/groups [post]
func (c *BrainstormController) createGroup(g *gin.Context) {
	sessionID := g.Param("id")
	var req models.GroupCreateRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid request format"})
		return
	}

	group, err := c.service.CreateGroup(g.Request.Context(), sessionID, transport.UserID(g), req.Title)
	if err != nil {
		writeEngineError(g, err)
		return
	}

	event := ws.NewEvent("group:new")
	event.Group = &group
	c.hub.Broadcast(sessionID, event)

	g.JSON(http.StatusOK, &models.GroupCreateResponse{GroupID: group.ID})
}

// moveIdea godoc
// @Summary Move an idea into a group
// @Description Admin-only; assigning an idea to a group it is already in is a no-op
// @Tags brainstorm
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param move body models.MoveIdeaRequest true "Idea and target group"
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} models.ErrorResponse "Idea or group not found"
// @Router /api/brainstorm/sessions/{id}/move [post]
func (c *BrainstormController) moveIdea(g *gin.Context) {
	sessionID := g.Param("id")
	var req models.MoveIdeaRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid request format"})
		return
	}

	err := c.service.MoveIdeaToGroup(g.Request.Context(), sessionID, transport.UserID(g), req.IdeaID, req.GroupID)
	if err != nil {
		writeEngineError(g, err)
		return
	}

	event := ws.NewEvent("idea:update")
	event.IdeaID = req.IdeaID
	event.Patch = map[string]string{"group_id": req.GroupID}
	c.hub.Broadcast(sessionID, event)

	g.JSON(http.StatusOK, &models.MessageResponse{Message: "idea moved"})
}

// startVoting godoc
// @Summary Start the voting phase
// @Description Admin-only; seeds every participant's pseudonym with 3 votes
// @Tags brainstorm
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} models.StartVotingResponse
// @Failure 409 {object} models.ErrorResponse "Session is not open"
// @Router /api/brainstorm/sessions/{id}/start-voting [post]
func (c *BrainstormController) startVoting(g *gin.Context) {
	sessionID := g.Param("id")

	if err := c.service.StartVoting(g.Request.Context(), sessionID, transport.UserID(g)); err != nil {
		writeEngineError(g, err)
		return
	}

	event := ws.NewEvent("session:phase")
	event.Phase = brainstorm.PhaseVoting
	c.hub.Broadcast(sessionID, event)

	g.JSON(http.StatusOK, &models.StartVotingResponse{Phase: brainstorm.PhaseVoting})
}

// castVote godoc
// @Summary Cast a vote
// @Description Spends one of the caller's votes on an idea or group, once per target
// @Tags brainstorm
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param vote body models.VoteRequest true "Vote target"
// @Success 200 {object} models.VoteResponse
// @Failure 409 {object} models.ErrorResponse "Not voting phase, budget spent, or duplicate vote"
// @Router /api/brainstorm/sessions/{id}/vote [post]
func (c *BrainstormController) castVote(g *gin.Context) {
	sessionID := g.Param("id")
	var req models.VoteRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid request format"})
		return
	}
	if req.TargetType != brainstorm.TargetIdea && req.TargetType != brainstorm.TargetGroup {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid target type"})
		return
	}

	remaining, err := c.service.CastVote(g.Request.Context(), sessionID, transport.UserID(g), req.TargetID, req.TargetType)
	if err != nil {
		writeEngineError(g, err)
		return
	}

	event := ws.NewEvent("vote:cast")
	event.TargetID = req.TargetID
	event.TargetType = req.TargetType
	c.hub.Broadcast(sessionID, event)

	g.JSON(http.StatusOK, &models.VoteResponse{RemainingVotes: remaining})
}

// endSession godoc
// @Summary End the session
// @Description Admin-only; closes a voting session and returns the ranked summary
// @Tags brainstorm
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} brainstorm.Summary
// @Failure 409 {object} models.ErrorResponse "Session is not voting"
// @Router /api/brainstorm/sessions/{id}/end [post]
func (c *BrainstormController) endSession(g *gin.Context) {
	sessionID := g.Param("id")

	summary, err := c.service.EndSession(g.Request.Context(), sessionID, transport.UserID(g))
	if err != nil {
		writeEngineError(g, err)
		return
	}

	event := ws.NewEvent("session:summary")
	event.Summary = summary
	c.hub.Broadcast(sessionID, event)

	g.JSON(http.StatusOK, summary)
}

// saveSummary godoc
// @Summary Save the summary and delete the session
// @Description Admin-only; posts the summary report as a stream announcement, then purges all session state
// @Tags brainstorm
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param save body models.SaveSummaryRequest false "Optional report title"
// @Success 200 {object} models.SaveSummaryResponse
// @Failure 403 {object} models.ErrorResponse "Caller lacks the stream admin role"
// @Router /api/brainstorm/sessions/{id}/save [post]
func (c *BrainstormController) saveSummary(g *gin.Context) {
	sessionID := g.Param("id")
	var req models.SaveSummaryRequest
	if g.Request.ContentLength > 0 {
		if err := g.ShouldBindJSON(&req); err != nil {
			g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid request format"})
			return
		}
	}

	ctx := g.Request.Context()
	userID := transport.UserID(g)

	// The final DeleteSession is admin-only; checking up front keeps a
	// non-admin caller from persisting the announcement first.
	if err := c.service.EnsureAdmin(ctx, sessionID, userID); err != nil {
		writeEngineError(g, err)
		return
	}

	summary, err := c.service.GenerateSummary(ctx, sessionID)
	if err != nil {
		writeEngineError(g, err)
		return
	}
	streamID, err := c.service.StreamID(ctx, sessionID)
	if err != nil {
		writeEngineError(g, err)
		return
	}
	if !auth.IsStreamAdmin(transport.StreamRole(g)) {
		g.JSON(http.StatusForbidden, &models.ErrorResponse{Error: "user is not admin of this stream"})
		return
	}

	snapshot, err := c.service.GetSessionData(ctx, sessionID)
	if err != nil {
		writeEngineError(g, err)
		return
	}

	title := req.Title
	if title == "" {
		title = brainstorm.DefaultReportTitle
	}
	announcement := &storage.Announcement{
		StreamID:  streamID,
		Title:     title,
		Content:   brainstorm.FormatReport(title, summary, snapshot),
		CreatedBy: userID,
	}
	if err := c.announcements.Create(ctx, announcement); err != nil {
		logging.Log.Errorf("failed to persist summary for session %s: %v", sessionID, err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not save summary"})
		return
	}

	if err := c.service.DeleteSession(ctx, sessionID, userID); err != nil {
		writeEngineError(g, err)
		return
	}

	event := ws.NewEvent("session:saved_and_deleted")
	event.AnnouncementID = announcement.ID
	c.hub.Broadcast(sessionID, event)

	g.JSON(http.StatusOK, &models.SaveSummaryResponse{AnnouncementID: announcement.ID, Summary: summary})
}

// deleteSession godoc
// @Summary Delete the session
// @Description Admin-only; purges every key scoped to the session
// @Tags brainstorm
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} models.MessageResponse
// @Failure 403 {object} models.ErrorResponse "Caller is not the session admin"
// @Router /api/brainstorm/sessions/{id} [delete]
func (c *BrainstormController) deleteSession(g *gin.Context) {
	sessionID := g.Param("id")

	if err := c.service.DeleteSession(g.Request.Context(), sessionID, transport.UserID(g)); err != nil {
		writeEngineError(g, err)
		return
	}

	c.hub.Broadcast(sessionID, ws.NewEvent("session:deleted"))

	g.JSON(http.StatusOK, &models.MessageResponse{Message: "session deleted"})
}
