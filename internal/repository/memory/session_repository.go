package memory

import (
	"time"

	"ai-editor-be/pkg/store"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// SessionRepository holds open editor sessions in a TTL cache. A session
// that idles past the TTL is evicted, and eviction cancels any assist run
// still in flight. The buffer of an evicted session is not persisted; only
// an explicit close writes back to the document.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository(ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	c := cache.New(ttl, 10*time.Minute)
	c.OnEvicted(func(_ string, v interface{}) {
		if s, ok := v.(*store.EditorSession); ok {
			s.CancelActive()
		}
	})
	return &SessionRepository{
		cache: c,
	}
}

// Save stores the session and refreshes its TTL.
func (r *SessionRepository) Save(session *store.EditorSession) {
	r.cache.Set(session.ID, session, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(sessionID string) (*store.EditorSession, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*store.EditorSession), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}

// FindByDocument returns the open session a user has on a document, if any.
// Chat grounding uses this to prefer the live buffer (and its selection)
// over the persisted document text.
func (r *SessionRepository) FindByDocument(userID, documentID uuid.UUID) (*store.EditorSession, bool) {
	for _, item := range r.cache.Items() {
		s, ok := item.Object.(*store.EditorSession)
		if !ok {
			continue
		}
		if s.UserID == userID && s.DocumentID == documentID {
			return s, true
		}
	}
	return nil, false
}
