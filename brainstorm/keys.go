package brainstorm

import "fmt"

// All session-scoped state lives under "session:{id}:..." so deletion can
// enumerate it from the index keys (ideas:list, groups:list, participants).

func phaseKey(sessionID string) string   { return fmt.Sprintf("session:%s:phase", sessionID) }
func streamKey(sessionID string) string  { return fmt.Sprintf("session:%s:stream_id", sessionID) }
func adminKey(sessionID string) string   { return fmt.Sprintf("session:%s:admin_id", sessionID) }
func createdKey(sessionID string) string { return fmt.Sprintf("session:%s:created_at", sessionID) }

func countersKey(sessionID string) string { return fmt.Sprintf("session:%s:counters", sessionID) }

func participantsKey(sessionID string) string {
	return fmt.Sprintf("session:%s:participants", sessionID)
}

func anonKey(sessionID, userID string) string {
	return fmt.Sprintf("session:%s:anon:%s", sessionID, userID)
}

func budgetKey(sessionID, anonID string) string {
	return fmt.Sprintf("session:%s:votes:%s", sessionID, anonID)
}

func votedKey(sessionID, anonID, targetID string) string {
	return fmt.Sprintf("session:%s:voted:%s:%s", sessionID, anonID, targetID)
}

func votedPattern(sessionID string) string { return fmt.Sprintf("session:%s:voted:*", sessionID) }

func rateKey(sessionID, userID string) string {
	return fmt.Sprintf("session:%s:rate:%s", sessionID, userID)
}

func ratePattern(sessionID string) string { return fmt.Sprintf("session:%s:rate:*", sessionID) }

func ideaKey(sessionID, ideaID string) string {
	return fmt.Sprintf("session:%s:ideas:%s", sessionID, ideaID)
}

func ideasListKey(sessionID string) string { return fmt.Sprintf("session:%s:ideas:list", sessionID) }

func groupKey(sessionID, groupID string) string {
	return fmt.Sprintf("session:%s:groups:%s", sessionID, groupID)
}

func groupsListKey(sessionID string) string { return fmt.Sprintf("session:%s:groups:list", sessionID) }
