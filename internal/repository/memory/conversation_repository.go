package memory

import (
	"time"

	"ig-engagement-be/pkg/llm"

	"github.com/patrickmn/go-cache"
)

const maxTurns = 10

// ConversationRepository keeps the recent DM history per sender so reply
// drafting has context. Entries expire after an hour of silence.
type ConversationRepository struct {
	cache *cache.Cache
}

func NewConversationRepository() *ConversationRepository {
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &ConversationRepository{
		cache: c,
	}
}

func (r *ConversationRepository) History(senderID string) []llm.Message {
	if x, found := r.cache.Get(senderID); found {
		return x.([]llm.Message)
	}
	return nil
}

func (r *ConversationRepository) Append(senderID string, messages ...llm.Message) {
	history := append(r.History(senderID), messages...)
	if len(history) > maxTurns {
		history = history[len(history)-maxTurns:]
	}
	r.cache.Set(senderID, history, cache.DefaultExpiration)
}

func (r *ConversationRepository) Clear(senderID string) {
	r.cache.Delete(senderID)
}
