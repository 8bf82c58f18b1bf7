package memory

import (
	"context"
	"testing"
	"time"

	"ai-editor-be/pkg/store"

	"github.com/google/uuid"
)

func newTestSession(id string) *store.EditorSession {
	return &store.EditorSession{
		ID:         id,
		UserID:     uuid.New(),
		DocumentID: uuid.New(),
	}
}

func TestSessionRepositorySaveAndGet(t *testing.T) {
	repo := NewSessionRepository(time.Minute)

	session := newTestSession("sess-1")
	repo.Save(session)

	got, found := repo.Get("sess-1")
	if !found {
		t.Fatal("Get(sess-1) not found, want found")
	}
	if got != session {
		t.Errorf("Get returned a different session pointer")
	}

	if _, found := repo.Get("missing"); found {
		t.Error("Get(missing) = found, want not found")
	}
}

func TestSessionRepositoryFindByDocument(t *testing.T) {
	repo := NewSessionRepository(time.Minute)

	first := newTestSession("sess-1")
	second := newTestSession("sess-2")
	repo.Save(first)
	repo.Save(second)

	got, found := repo.FindByDocument(first.UserID, first.DocumentID)
	if !found {
		t.Fatal("FindByDocument for an open session not found, want found")
	}
	if got.ID != first.ID {
		t.Errorf("FindByDocument returned session %s, want %s", got.ID, first.ID)
	}

	if _, found := repo.FindByDocument(first.UserID, second.DocumentID); found {
		t.Error("FindByDocument matched a document the user has no session on")
	}

	if _, found := repo.FindByDocument(uuid.New(), first.DocumentID); found {
		t.Error("FindByDocument matched another user's session")
	}
}

func TestSessionRepositoryDeleteCancelsRun(t *testing.T) {
	repo := NewSessionRepository(time.Minute)

	session := newTestSession("sess-1")
	ctx, cancel := context.WithCancel(context.Background())
	session.SetCancel(cancel)
	repo.Save(session)

	repo.Delete("sess-1")

	if _, found := repo.Get("sess-1"); found {
		t.Fatal("session still present after Delete")
	}

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("eviction did not cancel the in-flight run")
	}
}

func TestSessionRepositoryExpiry(t *testing.T) {
	repo := NewSessionRepository(30 * time.Millisecond)

	repo.Save(newTestSession("sess-1"))
	if _, found := repo.Get("sess-1"); !found {
		t.Fatal("session not found right after Save")
	}

	time.Sleep(100 * time.Millisecond)

	if _, found := repo.Get("sess-1"); found {
		t.Error("session still returned after its TTL passed")
	}
}

func TestSessionRepositorySaveRefreshesTTL(t *testing.T) {
	repo := NewSessionRepository(200 * time.Millisecond)

	session := newTestSession("sess-1")
	repo.Save(session)

	time.Sleep(120 * time.Millisecond)
	repo.Save(session)
	time.Sleep(120 * time.Millisecond)

	if _, found := repo.Get("sess-1"); !found {
		t.Error("session expired even though Save refreshed its TTL")
	}
}
