package advisor

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type messageMetadata struct {
	ProcessingTime     float64 `json:"processingTime,omitempty"`
	RetrievedDocsCount int     `json:"retrievedDocsCount,omitempty"`
}

type storedMessage struct {
	ID             string          `json:"id"`
	ConversationID string          `json:"conversationId"`
	Role           string          `json:"role"`
	Type           string          `json:"type"`
	Content        string          `json:"content"`
	CreatedAt      time.Time       `json:"createdAt"`
	Metadata       messageMetadata `json:"metadata"`
}

type conversation struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	UserID    string          `json:"userId,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	Messages  []storedMessage `json:"messages"`
}

// store keeps conversations in memory.
type store struct {
	mu    sync.RWMutex
	convs map[string]*conversation
	now   func() time.Time
}

func newStore() *store {
	return &store{convs: make(map[string]*conversation), now: time.Now}
}

func (s *store) create(title, userID string) *conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	c := &conversation{
		ID:        uuid.New().String(),
		Title:     title,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  []storedMessage{},
	}
	s.convs[c.ID] = c
	return c.clone()
}

func (s *store) get(id string) (*conversation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.convs[id]
	if !ok {
		return nil, false
	}
	return c.clone(), true
}

// list returns conversations by most recent activity.
func (s *store) list(userID string, limit int) []*conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*conversation, 0, len(s.convs))
	for _, c := range s.convs {
		if userID != "" && c.UserID != userID {
			continue
		}
		out = append(out, c.clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// appendTurn records a question and its answer.
func (s *store) appendTurn(id, question, answer string, took time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.convs[id]
	if !ok {
		return false
	}
	now := s.now()
	c.Messages = append(c.Messages,
		storedMessage{ID: uuid.New().String(), ConversationID: id, Role: "user", Type: "user", Content: question, CreatedAt: now},
		storedMessage{
			ID: uuid.New().String(), ConversationID: id, Role: "ai", Type: "ai", Content: answer, CreatedAt: now,
			Metadata: messageMetadata{ProcessingTime: took.Seconds(), RetrievedDocsCount: 3},
		},
	)
	c.UpdatedAt = now
	return true
}

func (s *store) clear(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.convs[id]
	if !ok {
		return false
	}
	c.Messages = []storedMessage{}
	c.UpdatedAt = s.now()
	return true
}

func (s *store) delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.convs[id]; !ok {
		return false
	}
	delete(s.convs, id)
	return true
}

func (c *conversation) clone() *conversation {
	cp := *c
	cp.Messages = make([]storedMessage, len(c.Messages))
	copy(cp.Messages, c.Messages)
	return &cp
}
