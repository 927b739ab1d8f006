package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	testutils "github.com/Monmon-1020/CampusFlow/api/controllers/testing"
	"github.com/Monmon-1020/CampusFlow/api/models"
	"github.com/Monmon-1020/CampusFlow/api/transport"
	"github.com/Monmon-1020/CampusFlow/auth"
	"github.com/Monmon-1020/CampusFlow/brainstorm"
	"github.com/Monmon-1020/CampusFlow/logging"
	"github.com/Monmon-1020/CampusFlow/storage"
	"github.com/Monmon-1020/CampusFlow/ws"
)

// fakeAnnouncementStorage records announcements instead of hitting DynamoDB.
type fakeAnnouncementStorage struct {
	created []*storage.Announcement
	err     error
}

func (f *fakeAnnouncementStorage) Create(_ context.Context, a *storage.Announcement) error {
	if f.err != nil {
		return f.err
	}
	if a.ID == "" {
		a.ID = fmt.Sprintf("announcement-%d", len(f.created)+1)
	}
	f.created = append(f.created, a)
	return nil
}

func setupTestBrainstormController(t *testing.T) (*gin.Engine, *fakeAnnouncementStorage, *auth.HMACTokenValidator, *miniredis.Miniredis) {
	t.Helper()
	logging.Log = logrus.New()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := storage.NewRedisEphemeralStore(client, 2*time.Hour)

	announcements := &fakeAnnouncementStorage{}
	tokens := &auth.HMACTokenValidator{Secret: "test-secret"}
	controller := NewBrainstormController(brainstorm.NewService(store, "test-secret"), announcements, ws.NewHub(), tokens)

	engine := transport.NewRouter(gin.TestMode)
	controller.RegisterRoutes(engine)
	return engine, announcements, tokens, mr
}

func adminHeaders(userID string) map[string]string {
	return map[string]string{
		auth.UserIDHeader:     userID,
		auth.StreamRoleHeader: auth.RoleStreamAdmin,
	}
}

func studentHeaders(userID string) map[string]string {
	return map[string]string{
		auth.UserIDHeader:     userID,
		auth.StreamRoleHeader: auth.RoleStudent,
	}
}

func createTestSession(t *testing.T, engine *gin.Engine) string {
	t.Helper()
	res := testutils.PerformRequest(engine, http.MethodPost, "/api/brainstorm/sessions",
		&models.SessionCreateRequest{StreamID: "stream-1"}, adminHeaders("admin-1"))
	require.Equal(t, http.StatusOK, res.Code)

	var created models.SessionCreateResponse
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &created))
	require.NotEmpty(t, created.SessionID)
	return created.SessionID
}

func TestCreateSession(t *testing.T) {
	engine, _, _, _ := setupTestBrainstormController(t)

	t.Run("Happy path - stream admin opens a session", func(t *testing.T) {
		res := testutils.PerformRequest(engine, http.MethodPost, "/api/brainstorm/sessions",
			&models.SessionCreateRequest{StreamID: "stream-1"}, adminHeaders("admin-1"))
		assert.Equal(t, http.StatusOK, res.Code)

		var created models.SessionCreateResponse
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &created))
		assert.Equal(t, brainstorm.PhaseOpen, created.Phase)
	})

	t.Run("Unhappy path - student may not open a session", func(t *testing.T) {
		res := testutils.PerformRequest(engine, http.MethodPost, "/api/brainstorm/sessions",
			&models.SessionCreateRequest{StreamID: "stream-1"}, studentHeaders("user-a"))
		assert.Equal(t, http.StatusForbidden, res.Code)
	})

	t.Run("Unhappy path - missing identity header", func(t *testing.T) {
		res := testutils.PerformRequest(engine, http.MethodPost, "/api/brainstorm/sessions",
			&models.SessionCreateRequest{StreamID: "stream-1"}, nil)
		assert.Equal(t, http.StatusUnauthorized, res.Code)
	})

	t.Run("Unhappy path - missing stream id", func(t *testing.T) {
		res := testutils.PerformRequest(engine, http.MethodPost, "/api/brainstorm/sessions",
			map[string]string{}, adminHeaders("admin-1"))
		assert.Equal(t, http.StatusBadRequest, res.Code)
	})
}

func TestGetSession(t *testing.T) {
	engine, _, _, _ := setupTestBrainstormController(t)
	sessionID := createTestSession(t, engine)

	t.Run("Happy path - joining returns the snapshot and a pseudonym", func(t *testing.T) {
		res := testutils.PerformRequest(engine, http.MethodGet, "/api/brainstorm/sessions/"+sessionID,
			nil, studentHeaders("user-a"))
		require.Equal(t, http.StatusOK, res.Code)

		var session models.SessionResponse
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &session))
		assert.Equal(t, brainstorm.PhaseOpen, session.Phase)
		assert.Len(t, session.AnonID, 16)
		assert.Equal(t, 1, session.Counters.ActiveUsers)
	})

	t.Run("Unhappy path - unknown session", func(t *testing.T) {
		res := testutils.PerformRequest(engine, http.MethodGet, "/api/brainstorm/sessions/nope",
			nil, studentHeaders("user-a"))
		assert.Equal(t, http.StatusNotFound, res.Code)
	})
}

func TestSubmitIdeaEndpoint(t *testing.T) {
	engine, _, _, _ := setupTestBrainstormController(t)
	sessionID := createTestSession(t, engine)

	t.Run("Happy path - idea accepted", func(t *testing.T) {
		res := testutils.PerformRequest(engine, http.MethodPost, "/api/brainstorm/sessions/"+sessionID+"/ideas",
			&models.IdeaSubmitRequest{Text: "Improve wifi"}, studentHeaders("user-a"))
		require.Equal(t, http.StatusOK, res.Code)

		var submitted models.IdeaSubmitResponse
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &submitted))
		assert.NotEmpty(t, submitted.IdeaID)
	})

	t.Run("Unhappy path - fourth submission inside the window is throttled", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			res := testutils.PerformRequest(engine, http.MethodPost, "/api/brainstorm/sessions/"+sessionID+"/ideas",
				&models.IdeaSubmitRequest{Text: "filler"}, studentHeaders("user-a"))
			require.Equal(t, http.StatusOK, res.Code)
		}
		res := testutils.PerformRequest(engine, http.MethodPost, "/api/brainstorm/sessions/"+sessionID+"/ideas",
			&models.IdeaSubmitRequest{Text: "one too many"}, studentHeaders("user-a"))
		assert.Equal(t, http.StatusTooManyRequests, res.Code)
	})
}

func TestVotingEndpoints(t *testing.T) {
	engine, _, _, _ := setupTestBrainstormController(t)
	sessionID := createTestSession(t, engine)

	ideaRes := testutils.PerformRequest(engine, http.MethodPost, "/api/brainstorm/sessions/"+sessionID+"/ideas",
		&models.IdeaSubmitRequest{Text: "Improve wifi"}, studentHeaders("user-a"))
	require.Equal(t, http.StatusOK, ideaRes.Code)
	var idea models.IdeaSubmitResponse
	require.NoError(t, json.Unmarshal(ideaRes.Body.Bytes(), &idea))

	groupRes := testutils.PerformRequest(engine, http.MethodPost, "/api/brainstorm/sessions/"+sessionID+"/groups",
		&models.GroupCreateRequest{Title: "Infra"}, adminHeaders("admin-1"))
	require.Equal(t, http.StatusOK, groupRes.Code)
	var group models.GroupCreateResponse
	require.NoError(t, json.Unmarshal(groupRes.Body.Bytes(), &group))

	moveRes := testutils.PerformRequest(engine, http.MethodPost, "/api/brainstorm/sessions/"+sessionID+"/move",
		&models.MoveIdeaRequest{IdeaID: idea.IdeaID, GroupID: group.GroupID}, adminHeaders("admin-1"))
	require.Equal(t, http.StatusOK, moveRes.Code)

	t.Run("Unhappy path - voting before the phase starts", func(t *testing.T) {
		res := testutils.PerformRequest(engine, http.MethodPost, "/api/brainstorm/sessions/"+sessionID+"/vote",
			&models.VoteRequest{TargetID: group.GroupID, TargetType: brainstorm.TargetGroup}, studentHeaders("user-a"))
		assert.Equal(t, http.StatusConflict, res.Code)
	})

	startRes := testutils.PerformRequest(engine, http.MethodPost, "/api/brainstorm/sessions/"+sessionID+"/start-voting",
		nil, adminHeaders("admin-1"))
	require.Equal(t, http.StatusOK, startRes.Code)

	t.Run("Happy path - vote spends one of three votes", func(t *testing.T) {
		res := testutils.PerformRequest(engine, http.MethodPost, "/api/brainstorm/sessions/"+sessionID+"/vote",
			&models.VoteRequest{TargetID: group.GroupID, TargetType: brainstorm.TargetGroup}, studentHeaders("user-a"))
		require.Equal(t, http.StatusOK, res.Code)

		var vote models.VoteResponse
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &vote))
		assert.Equal(t, 2, vote.RemainingVotes)
	})

	t.Run("Unhappy path - unknown target type is invalid input", func(t *testing.T) {
		res := testutils.PerformRequest(engine, http.MethodPost, "/api/brainstorm/sessions/"+sessionID+"/vote",
			map[string]string{"target_id": group.GroupID, "target_type": "banana"}, studentHeaders("user-a"))
		assert.Equal(t, http.StatusBadRequest, res.Code)
	})

	t.Run("Unhappy path - double vote on the same target", func(t *testing.T) {
		res := testutils.PerformRequest(engine, http.MethodPost, "/api/brainstorm/sessions/"+sessionID+"/vote",
			&models.VoteRequest{TargetID: group.GroupID, TargetType: brainstorm.TargetGroup}, studentHeaders("user-a"))
		assert.Equal(t, http.StatusConflict, res.Code)
	})

	t.Run("Happy path - ending returns the group summary", func(t *testing.T) {
		res := testutils.PerformRequest(engine, http.MethodPost, "/api/brainstorm/sessions/"+sessionID+"/end",
			nil, adminHeaders("admin-1"))
		require.Equal(t, http.StatusOK, res.Code)

		var summary brainstorm.Summary
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &summary))
		assert.Equal(t, "groups", summary.Type)
		require.Len(t, summary.TopGroups, 1)
		assert.Equal(t, "Infra", summary.TopGroups[0].Title)
		assert.Equal(t, 1, summary.TopGroups[0].Votes)
	})
}

func TestSaveSummary(t *testing.T) {
	engine, announcements, _, _ := setupTestBrainstormController(t)
	sessionID := createTestSession(t, engine)

	res := testutils.PerformRequest(engine, http.MethodPost, "/api/brainstorm/sessions/"+sessionID+"/ideas",
		&models.IdeaSubmitRequest{Text: "Improve wifi"}, studentHeaders("user-a"))
	require.Equal(t, http.StatusOK, res.Code)
	res = testutils.PerformRequest(engine, http.MethodPost, "/api/brainstorm/sessions/"+sessionID+"/start-voting",
		nil, adminHeaders("admin-1"))
	require.Equal(t, http.StatusOK, res.Code)
	res = testutils.PerformRequest(engine, http.MethodPost, "/api/brainstorm/sessions/"+sessionID+"/end",
		nil, adminHeaders("admin-1"))
	require.Equal(t, http.StatusOK, res.Code)

	t.Run("Unhappy path - student may not save", func(t *testing.T) {
		res := testutils.PerformRequest(engine, http.MethodPost, "/api/brainstorm/sessions/"+sessionID+"/save",
			&models.SaveSummaryRequest{}, studentHeaders("user-a"))
		assert.Equal(t, http.StatusForbidden, res.Code)
		assert.Empty(t, announcements.created)
	})

	t.Run("Unhappy path - a stream admin who is not the session admin saves nothing", func(t *testing.T) {
		res := testutils.PerformRequest(engine, http.MethodPost, "/api/brainstorm/sessions/"+sessionID+"/save",
			&models.SaveSummaryRequest{}, adminHeaders("admin-2"))
		assert.Equal(t, http.StatusForbidden, res.Code)
		assert.Empty(t, announcements.created, "rejected save must not persist the report")

		// The session survives the rejected save.
		res = testutils.PerformRequest(engine, http.MethodGet, "/api/brainstorm/sessions/"+sessionID,
			nil, studentHeaders("user-a"))
		assert.Equal(t, http.StatusOK, res.Code)
	})

	t.Run("Happy path - save posts the report and purges the session", func(t *testing.T) {
		res := testutils.PerformRequest(engine, http.MethodPost, "/api/brainstorm/sessions/"+sessionID+"/save",
			&models.SaveSummaryRequest{Title: "Sprint Brainstorm"}, adminHeaders("admin-1"))
		require.Equal(t, http.StatusOK, res.Code)

		var saved models.SaveSummaryResponse
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &saved))
		assert.NotEmpty(t, saved.AnnouncementID)

		require.Len(t, announcements.created, 1)
		announcement := announcements.created[0]
		assert.Equal(t, "stream-1", announcement.StreamID)
		assert.Equal(t, "Sprint Brainstorm", announcement.Title)
		assert.Equal(t, "admin-1", announcement.CreatedBy)
		assert.True(t, strings.HasPrefix(announcement.Content, "# Sprint Brainstorm"))

		// The session is gone once the report is posted.
		res = testutils.PerformRequest(engine, http.MethodGet, "/api/brainstorm/sessions/"+sessionID,
			nil, studentHeaders("user-a"))
		assert.Equal(t, http.StatusNotFound, res.Code)
	})
}

func TestDeleteSessionEndpoint(t *testing.T) {
	engine, _, _, _ := setupTestBrainstormController(t)
	sessionID := createTestSession(t, engine)

	t.Run("Unhappy path - only the session admin may delete", func(t *testing.T) {
		res := testutils.PerformRequest(engine, http.MethodDelete, "/api/brainstorm/sessions/"+sessionID,
			nil, studentHeaders("user-a"))
		assert.Equal(t, http.StatusForbidden, res.Code)
	})

	t.Run("Happy path - delete purges the session", func(t *testing.T) {
		res := testutils.PerformRequest(engine, http.MethodDelete, "/api/brainstorm/sessions/"+sessionID,
			nil, adminHeaders("admin-1"))
		require.Equal(t, http.StatusOK, res.Code)

		res = testutils.PerformRequest(engine, http.MethodGet, "/api/brainstorm/sessions/"+sessionID,
			nil, studentHeaders("user-a"))
		assert.Equal(t, http.StatusNotFound, res.Code)
	})
}

func TestWebsocketStream(t *testing.T) {
	engine, _, tokens, _ := setupTestBrainstormController(t)
	sessionID := createTestSession(t, engine)

	server := httptest.NewServer(engine)
	defer server.Close()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/brainstorm/sessions/" + sessionID + "/ws"

	t.Run("Unhappy path - invalid connect token", func(t *testing.T) {
		//nolint:bodyclose
		_, res, err := websocket.DefaultDialer.Dial(wsURL+"?token=user-a:bogus", nil)
		require.Error(t, err)
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	})

	t.Run("Happy path - connected client hears broadcast events", func(t *testing.T) {
		conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?token="+tokens.MintToken("user-a"), nil)
		require.NoError(t, err)
		defer conn.Close()

		res := testutils.PerformRequest(engine, http.MethodPost, "/api/brainstorm/sessions/"+sessionID+"/ideas",
			&models.IdeaSubmitRequest{Text: "Improve wifi"}, studentHeaders("user-b"))
		require.Equal(t, http.StatusOK, res.Code)

		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		var event ws.Event
		require.NoError(t, conn.ReadJSON(&event))
		assert.Equal(t, "idea:new", event.Type)
		require.NotNil(t, event.Idea)
		assert.Equal(t, "Improve wifi", event.Idea.Text)
	})
}
