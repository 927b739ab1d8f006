package brainstorm

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/Monmon-1020/CampusFlow/logging"
	"github.com/Monmon-1020/CampusFlow/storage"
)

// initialVoteBudget is the number of votes each pseudonym may spend in the
// voting phase.
const initialVoteBudget = 3

// Service runs brainstorm sessions on top of the ephemeral store. It holds no
// session state of its own: every operation reads and writes store keys, so
// any number of concurrent requests may use one Service. Single-key atomic
// increments in the store are the only consistency mechanism; there is no
// cross-key transaction (a crash mid-operation can leave counters ahead of
// markers until the session expires).
type Service struct {
	store   storage.EphemeralStore
	limiter *rateLimiter
	secret  string
	now     func() time.Time
}

func NewService(store storage.EphemeralStore, secret string) *Service {
	return &Service{
		store:   store,
		limiter: newRateLimiter(store),
		secret:  secret,
		now:     time.Now,
	}
}

func (s *Service) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

// Phase is the canonical existence probe: an absent phase key means the
// session is unknown or has expired.
func (s *Service) Phase(ctx context.Context, sessionID string) (Phase, error) {
	v, err := s.store.Get(ctx, phaseKey(sessionID))
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return "", ErrSessionNotFound
		}
		return "", err
	}
	return Phase(v), nil
}

// StreamID resolves the stream a session belongs to.
func (s *Service) StreamID(ctx context.Context, sessionID string) (string, error) {
	v, err := s.store.Get(ctx, streamKey(sessionID))
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return "", ErrSessionNotFound
		}
		return "", err
	}
	return v, nil
}

// EnsureAdmin reports whether the caller is the session admin, without
// touching any other session state. Callers sequencing multiple operations
// use it to fail before the first side effect.
func (s *Service) EnsureAdmin(ctx context.Context, sessionID, callerID string) error {
	return s.requireAdmin(ctx, sessionID, callerID)
}

func (s *Service) requireAdmin(ctx context.Context, sessionID, callerID string) error {
	admin, err := s.store.Get(ctx, adminKey(sessionID))
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return ErrSessionNotFound
		}
		return err
	}
	if admin != callerID {
		return ErrForbidden
	}
	return nil
}

// CreateSession opens a new session in phase "open" with zeroed counters.
// The creator becomes the session admin.
func (s *Service) CreateSession(ctx context.Context, streamID, adminID string) (string, error) {
	sessionID := uuid.NewString()

	if err := s.store.SetWithTTL(ctx, phaseKey(sessionID), string(PhaseOpen)); err != nil {
		return "", err
	}
	if err := s.store.SetWithTTL(ctx, streamKey(sessionID), streamID); err != nil {
		return "", err
	}
	if err := s.store.SetWithTTL(ctx, adminKey(sessionID), adminID); err != nil {
		return "", err
	}
	if err := s.store.SetWithTTL(ctx, createdKey(sessionID), s.timestamp()); err != nil {
		return "", err
	}
	err := s.store.HashSet(ctx, countersKey(sessionID), map[string]string{
		"total_ideas":  "0",
		"total_votes":  "0",
		"active_users": "0",
	})
	if err != nil {
		return "", err
	}

	logging.Log.Infof("SESSION: created %s for stream %s", sessionID, streamID)
	return sessionID, nil
}

// JoinSession registers the user as a participant and returns their
// pseudonym. Joining is idempotent: a rejoin neither double-counts
// active_users nor resets a vote budget already spent during voting.
func (s *Service) JoinSession(ctx context.Context, sessionID, userID string) (string, error) {
	phase, err := s.Phase(ctx, sessionID)
	if err != nil {
		return "", err
	}

	added, err := s.store.SetAdd(ctx, participantsKey(sessionID), userID)
	if err != nil {
		return "", err
	}

	anonID := AnonID(s.secret, sessionID, userID)
	if err := s.store.SetWithTTL(ctx, anonKey(sessionID, userID), anonID); err != nil {
		return "", err
	}

	// A late joiner during voting gets a budget only if none exists yet.
	if phase == PhaseVoting {
		if _, err := s.store.SetIfAbsent(ctx, budgetKey(sessionID, anonID), strconv.Itoa(initialVoteBudget)); err != nil {
			return "", err
		}
	}

	if added {
		if _, err := s.store.HashIncrBy(ctx, countersKey(sessionID), "active_users", 1); err != nil {
			return "", err
		}
	}
	return anonID, nil
}

// SubmitIdea stores a new idea and returns it. Text beyond MaxIdeaLength is
// silently truncated.
func (s *Service) SubmitIdea(ctx context.Context, sessionID, userID, text string) (Idea, error) {
	phase, err := s.Phase(ctx, sessionID)
	if err != nil {
		return Idea{}, err
	}
	if phase != PhaseOpen {
		return Idea{}, ErrInvalidState
	}

	ok, err := s.limiter.allow(ctx, sessionID, userID)
	if err != nil {
		return Idea{}, err
	}
	if !ok {
		logging.Log.Warnf("IDEA: rate limit hit for user %s in session %s", userID, sessionID)
		return Idea{}, ErrRateLimited
	}

	anonID, err := s.store.Get(ctx, anonKey(sessionID, userID))
	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			return Idea{}, err
		}
		if anonID, err = s.JoinSession(ctx, sessionID, userID); err != nil {
			return Idea{}, err
		}
	}

	if runes := []rune(text); len(runes) > MaxIdeaLength {
		text = string(runes[:MaxIdeaLength])
	}

	idea := Idea{
		ID:        uuid.NewString(),
		Text:      text,
		AnonID:    anonID,
		CreatedAt: s.timestamp(),
	}
	if err := s.store.HashSet(ctx, ideaKey(sessionID, idea.ID), idea.toHash()); err != nil {
		return Idea{}, err
	}
	if err := s.store.ListPush(ctx, ideasListKey(sessionID), idea.ID); err != nil {
		return Idea{}, err
	}
	if _, err := s.store.HashIncrBy(ctx, countersKey(sessionID), "total_ideas", 1); err != nil {
		return Idea{}, err
	}
	return idea, nil
}

// CreateGroup creates an empty group. Admin-only; allowed in any phase before
// the session closes.
func (s *Service) CreateGroup(ctx context.Context, sessionID, callerID, title string) (Group, error) {
	if err := s.requireAdmin(ctx, sessionID, callerID); err != nil {
		return Group{}, err
	}
	phase, err := s.Phase(ctx, sessionID)
	if err != nil {
		return Group{}, err
	}
	if phase == PhaseClosed {
		return Group{}, ErrInvalidState
	}

	group := Group{
		ID:        uuid.NewString(),
		Title:     title,
		IdeaIDs:   []string{},
		CreatedAt: s.timestamp(),
	}
	if err := s.store.HashSet(ctx, groupKey(sessionID, group.ID), group.toHash()); err != nil {
		return Group{}, err
	}
	if err := s.store.ListPush(ctx, groupsListKey(sessionID), group.ID); err != nil {
		return Group{}, err
	}
	return group, nil
}

// MoveIdeaToGroup assigns an idea to a group. Re-moving an idea into a group
// it already belongs to is a no-op.
func (s *Service) MoveIdeaToGroup(ctx context.Context, sessionID, callerID, ideaID, groupID string) error {
	if err := s.requireAdmin(ctx, sessionID, callerID); err != nil {
		return err
	}

	ideaFields, err := s.store.HashGetAll(ctx, ideaKey(sessionID, ideaID))
	if err != nil {
		return err
	}
	groupFields, err := s.store.HashGetAll(ctx, groupKey(sessionID, groupID))
	if err != nil {
		return err
	}
	if len(ideaFields) == 0 || len(groupFields) == 0 {
		return ErrTargetNotFound
	}

	if err := s.store.HashSetField(ctx, ideaKey(sessionID, ideaID), "group_id", groupID); err != nil {
		return err
	}

	group := groupFromHash(groupID, groupFields)
	for _, id := range group.IdeaIDs {
		if id == ideaID {
			return nil
		}
	}
	group.IdeaIDs = append(group.IdeaIDs, ideaID)
	return s.store.HashSetField(ctx, groupKey(sessionID, groupID), "idea_ids", group.toHash()["idea_ids"])
}

// StartVoting moves the session from open to voting and seeds every known
// pseudonym with the initial vote budget. Only reachable from "open", so the
// unconditional seed cannot overwrite spent budgets.
func (s *Service) StartVoting(ctx context.Context, sessionID, callerID string) error {
	if err := s.requireAdmin(ctx, sessionID, callerID); err != nil {
		return err
	}
	phase, err := s.Phase(ctx, sessionID)
	if err != nil {
		return err
	}
	if phase != PhaseOpen {
		return ErrInvalidState
	}

	if err := s.store.SetWithTTL(ctx, phaseKey(sessionID), string(PhaseVoting)); err != nil {
		return err
	}

	participants, err := s.store.SetMembers(ctx, participantsKey(sessionID))
	if err != nil {
		return err
	}
	for _, userID := range participants {
		anonID, err := s.store.Get(ctx, anonKey(sessionID, userID))
		if err != nil {
			if errors.Is(err, storage.ErrKeyNotFound) {
				continue
			}
			return err
		}
		if err := s.store.SetWithTTL(ctx, budgetKey(sessionID, anonID), strconv.Itoa(initialVoteBudget)); err != nil {
			return err
		}
	}
	logging.Log.Infof("SESSION: %s entered voting with %d participants", sessionID, len(participants))
	return nil
}

// CastVote spends one vote from the caller's budget on an idea or group and
// returns the remaining budget. A (pseudonym, target) pair may vote at most
// once; the dedup marker makes a blind retry safe.
func (s *Service) CastVote(ctx context.Context, sessionID, userID, targetID string, targetType TargetType) (int, error) {
	phase, err := s.Phase(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	if phase != PhaseVoting {
		return 0, ErrInvalidState
	}

	anonID, err := s.store.Get(ctx, anonKey(sessionID, userID))
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return 0, ErrNotInSession
		}
		return 0, err
	}

	var targetKey string
	switch targetType {
	case TargetIdea:
		targetKey = ideaKey(sessionID, targetID)
	case TargetGroup:
		targetKey = groupKey(sessionID, targetID)
	default:
		return 0, fmt.Errorf("unknown target type %q", targetType)
	}
	targetFields, err := s.store.HashGetAll(ctx, targetKey)
	if err != nil {
		return 0, err
	}
	if len(targetFields) == 0 {
		return 0, ErrTargetNotFound
	}

	remaining, err := s.store.Get(ctx, budgetKey(sessionID, anonID))
	if err != nil && !errors.Is(err, storage.ErrKeyNotFound) {
		return 0, err
	}
	if atoi(remaining) <= 0 {
		return 0, ErrNoVotesRemaining
	}

	marked, err := s.store.SetIfAbsent(ctx, votedKey(sessionID, anonID, targetID), "1")
	if err != nil {
		return 0, err
	}
	if !marked {
		return 0, ErrAlreadyVoted
	}

	left, err := s.store.DecrBy(ctx, budgetKey(sessionID, anonID), 1)
	if err != nil {
		return 0, err
	}
	if left < 0 {
		// Two concurrent casts raced one remaining vote; undo the loser.
		_, _ = s.store.IncrBy(ctx, budgetKey(sessionID, anonID), 1)
		_ = s.store.Delete(ctx, votedKey(sessionID, anonID, targetID))
		return 0, ErrNoVotesRemaining
	}

	if err := s.store.Expire(ctx, budgetKey(sessionID, anonID)); err != nil {
		return 0, err
	}

	if _, err := s.store.HashIncrBy(ctx, targetKey, "votes", 1); err != nil {
		return 0, err
	}
	if _, err := s.store.HashIncrBy(ctx, countersKey(sessionID), "total_votes", 1); err != nil {
		return 0, err
	}
	return int(left), nil
}

// GetSessionData assembles the full materialized view by walking the index
// lists and dereferencing each member. Entries whose hashes have already
// expired are skipped.
func (s *Service) GetSessionData(ctx context.Context, sessionID string) (*Snapshot, error) {
	phase, err := s.Phase(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	ideaIDs, err := s.store.ListRange(ctx, ideasListKey(sessionID))
	if err != nil {
		return nil, err
	}
	ideas := make([]Idea, 0, len(ideaIDs))
	for _, id := range ideaIDs {
		fields, err := s.store.HashGetAll(ctx, ideaKey(sessionID, id))
		if err != nil {
			return nil, err
		}
		if len(fields) == 0 {
			continue
		}
		ideas = append(ideas, ideaFromHash(id, fields))
	}

	groupIDs, err := s.store.ListRange(ctx, groupsListKey(sessionID))
	if err != nil {
		return nil, err
	}
	groups := make([]Group, 0, len(groupIDs))
	for _, id := range groupIDs {
		fields, err := s.store.HashGetAll(ctx, groupKey(sessionID, id))
		if err != nil {
			return nil, err
		}
		if len(fields) == 0 {
			continue
		}
		groups = append(groups, groupFromHash(id, fields))
	}

	counters, err := s.store.HashGetAll(ctx, countersKey(sessionID))
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		SessionID: sessionID,
		Phase:     phase,
		Ideas:     ideas,
		Groups:    groups,
		Counters:  countersFromHash(counters),
	}, nil
}

// EndSession closes a voting session and returns its summary. Ending from
// "open" is not supported.
func (s *Service) EndSession(ctx context.Context, sessionID, callerID string) (*Summary, error) {
	if err := s.requireAdmin(ctx, sessionID, callerID); err != nil {
		return nil, err
	}
	phase, err := s.Phase(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if phase != PhaseVoting {
		return nil, ErrInvalidState
	}

	if err := s.store.SetWithTTL(ctx, phaseKey(sessionID), string(PhaseClosed)); err != nil {
		return nil, err
	}
	return s.GenerateSummary(ctx, sessionID)
}

// GenerateSummary ranks the current snapshot; see BuildSummary for the
// ranking rules.
func (s *Service) GenerateSummary(ctx context.Context, sessionID string) (*Summary, error) {
	snapshot, err := s.GetSessionData(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return BuildSummary(snapshot), nil
}

// DeleteSession purges every key scoped to the session by enumerating the
// index keys and deleting per element. The session is gone entirely; only a
// saved report survives it.
func (s *Service) DeleteSession(ctx context.Context, sessionID, callerID string) error {
	if err := s.requireAdmin(ctx, sessionID, callerID); err != nil {
		return err
	}

	keys := []string{
		phaseKey(sessionID),
		streamKey(sessionID),
		adminKey(sessionID),
		createdKey(sessionID),
		participantsKey(sessionID),
		countersKey(sessionID),
	}

	ideaIDs, err := s.store.ListRange(ctx, ideasListKey(sessionID))
	if err != nil {
		return err
	}
	keys = append(keys, ideasListKey(sessionID))
	for _, id := range ideaIDs {
		keys = append(keys, ideaKey(sessionID, id))
	}

	groupIDs, err := s.store.ListRange(ctx, groupsListKey(sessionID))
	if err != nil {
		return err
	}
	keys = append(keys, groupsListKey(sessionID))
	for _, id := range groupIDs {
		keys = append(keys, groupKey(sessionID, id))
	}

	participants, err := s.store.SetMembers(ctx, participantsKey(sessionID))
	if err != nil {
		return err
	}
	for _, userID := range participants {
		keys = append(keys, anonKey(sessionID, userID))
		anonID, err := s.store.Get(ctx, anonKey(sessionID, userID))
		if err == nil {
			keys = append(keys, budgetKey(sessionID, anonID))
		} else if !errors.Is(err, storage.ErrKeyNotFound) {
			return err
		}
	}

	// Vote markers and rate-limit counters are keyed by pseudonym/user and
	// target, so they are swept by pattern instead of enumeration.
	votedKeys, err := s.store.KeysMatching(ctx, votedPattern(sessionID))
	if err != nil {
		return err
	}
	keys = append(keys, votedKeys...)
	rateKeys, err := s.store.KeysMatching(ctx, ratePattern(sessionID))
	if err != nil {
		return err
	}
	keys = append(keys, rateKeys...)

	if err := s.store.Delete(ctx, keys...); err != nil {
		return err
	}
	logging.Log.Infof("SESSION: deleted %s (%d keys)", sessionID, len(keys))
	return nil
}
