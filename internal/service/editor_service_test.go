package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"ai-editor-be/internal/config"
	"ai-editor-be/internal/dto"
	"ai-editor-be/internal/entity"
	"ai-editor-be/internal/repository/contract"
	"ai-editor-be/internal/repository/memory"
	"ai-editor-be/internal/repository/specification"
	"ai-editor-be/internal/repository/unitofwork"
	"ai-editor-be/internal/websocket"
	"ai-editor-be/pkg/assist"
	"ai-editor-be/pkg/completion"
	"ai-editor-be/pkg/editor"

	"github.com/google/uuid"
)

// fakeDocumentRepository serves one document and records updates. The specs
// are ignored; tests control the outcome through doc and findErr.
type fakeDocumentRepository struct {
	mu      sync.Mutex
	doc     *entity.Document
	updated []*entity.Document
	findErr error
}

func (f *fakeDocumentRepository) Create(ctx context.Context, document *entity.Document) error {
	return nil
}

func (f *fakeDocumentRepository) Update(ctx context.Context, document *entity.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated = append(f.updated, document)
	return nil
}

func (f *fakeDocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (f *fakeDocumentRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.doc, nil
}

func (f *fakeDocumentRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error) {
	return nil, nil
}

func (f *fakeDocumentRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return 0, nil
}

type fakeUnitOfWork struct {
	docs      *fakeDocumentRepository
	began     bool
	committed bool
}

var _ unitofwork.UnitOfWork = &fakeUnitOfWork{}

func (f *fakeUnitOfWork) Begin(ctx context.Context) error { f.began = true; return nil }
func (f *fakeUnitOfWork) Commit() error                   { f.committed = true; return nil }
func (f *fakeUnitOfWork) Rollback() error                 { return nil }

func (f *fakeUnitOfWork) UserRepository() contract.UserRepository         { return nil }
func (f *fakeUnitOfWork) FolderRepository() contract.FolderRepository     { return nil }
func (f *fakeUnitOfWork) DocumentRepository() contract.DocumentRepository { return f.docs }
func (f *fakeUnitOfWork) DocumentEmbeddingRepository() contract.DocumentEmbeddingRepository {
	return nil
}
func (f *fakeUnitOfWork) ChatSessionRepository() contract.ChatSessionRepository { return nil }
func (f *fakeUnitOfWork) ChatMessageRepository() contract.ChatMessageRepository { return nil }

type fakeRepositoryFactory struct {
	uow *fakeUnitOfWork
}

func (f *fakeRepositoryFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

// fakeCompletionProvider replays scripted fragments. With gate set, each
// fragment waits for a tick so tests can hold a run open.
type fakeCompletionProvider struct {
	mu        sync.Mutex
	fragments []string
	calls     int
	gate      chan struct{}
}

func (f *fakeCompletionProvider) Chat(ctx context.Context, history []completion.Message, opts ...completion.Option) (string, error) {
	return strings.Join(f.fragments, ""), nil
}

func (f *fakeCompletionProvider) ChatStream(ctx context.Context, history []completion.Message, opts ...completion.Option) (*completion.Stream, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	i := 0
	next := func() (completion.Fragment, error) {
		if f.gate != nil {
			<-f.gate
		}
		if i >= len(f.fragments) {
			return completion.Fragment{}, io.EOF
		}
		frag := completion.Fragment{Text: f.fragments[i]}
		i++
		return frag, nil
	}
	return completion.NewStream(ctx, next, nil), nil
}

func (f *fakeCompletionProvider) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakePublisherService struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (f *fakePublisherService) Publish(ctx context.Context, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads = append(f.payloads, append([]byte(nil), payload...))
	return nil
}

func (f *fakePublisherService) payloadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.payloads)
}

// fakeDelivery records the frames the assist listener pushes to the owner.
type fakeDelivery struct {
	mu     sync.Mutex
	frames []websocket.Frame
}

func (f *fakeDelivery) Send(userID uuid.UUID, frame websocket.Frame) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = append(f.frames, frame)
}

func (f *fakeDelivery) Broadcast(frame websocket.Frame) {}

func (f *fakeDelivery) assistEvents() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var events []string
	for _, frame := range f.frames {
		if payload, ok := frame.Data.(dto.AssistEventFrame); ok {
			events = append(events, payload.Event)
		}
	}
	return events
}

func waitForAssistEvent(t *testing.T, d *fakeDelivery, want string) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		for _, ev := range d.assistEvents() {
			if ev == want {
				return
			}
		}
		select {
		case <-deadline:
			t.Fatalf("assist event %q never arrived; saw %v", want, d.assistEvents())
		case <-time.After(10 * time.Millisecond):
		}
	}
}

type editorFixture struct {
	service   IEditorService
	docs      *fakeDocumentRepository
	uow       *fakeUnitOfWork
	provider  *fakeCompletionProvider
	publisher *fakePublisherService
	delivery  *fakeDelivery
	userId    uuid.UUID
	document  *entity.Document
}

func newEditorFixture(text string) *editorFixture {
	document := &entity.Document{
		Id:              uuid.New(),
		UserId:          uuid.New(),
		Title:           "Draft",
		ContentMarkdown: text,
	}
	docs := &fakeDocumentRepository{doc: document}
	uow := &fakeUnitOfWork{docs: docs}
	provider := &fakeCompletionProvider{}
	publisher := &fakePublisherService{}
	delivery := &fakeDelivery{}

	service := NewEditorService(
		&fakeRepositoryFactory{uow: uow},
		memory.NewSessionRepository(time.Minute),
		provider,
		publisher,
		nil,
		delivery,
		&config.Config{},
	)

	return &editorFixture{
		service:   service,
		docs:      docs,
		uow:       uow,
		provider:  provider,
		publisher: publisher,
		delivery:  delivery,
		userId:    document.UserId,
		document:  document,
	}
}

func (f *editorFixture) open(t *testing.T) *dto.EditorSessionState {
	t.Helper()
	state, err := f.service.OpenSession(context.Background(), f.userId, &dto.OpenEditorSessionRequest{
		DocumentId: f.document.Id,
	})
	if err != nil {
		t.Fatalf("OpenSession: %v", err)
	}
	return state
}

func (f *editorFixture) apply(t *testing.T, sessionId string, ops ...dto.EditOp) *dto.ApplyEditsResponse {
	t.Helper()
	resp, err := f.service.ApplyEdits(context.Background(), f.userId, &dto.ApplyEditsRequest{
		SessionId: sessionId,
		Ops:       ops,
	})
	if err != nil {
		t.Fatalf("ApplyEdits: %v", err)
	}
	return resp
}

func TestOpenSessionLoadsDocumentText(t *testing.T) {
	f := newEditorFixture("Hello draft.")

	state := f.open(t)
	if state.SessionId == "" {
		t.Fatal("empty session id")
	}
	if state.DocumentId != f.document.Id {
		t.Errorf("DocumentId = %s, want %s", state.DocumentId, f.document.Id)
	}
	if state.Text != "Hello draft." {
		t.Errorf("Text = %q, want %q", state.Text, "Hello draft.")
	}
	if state.Revision != 0 || state.Active {
		t.Errorf("fresh session state = %+v", state)
	}

	// A second open on the same document returns the live session.
	again := f.open(t)
	if again.SessionId != state.SessionId {
		t.Errorf("reopen created session %s, want %s reused", again.SessionId, state.SessionId)
	}
}

func TestOpenSessionDocumentNotFound(t *testing.T) {
	f := newEditorFixture("whatever")
	f.docs.doc = nil

	_, err := f.service.OpenSession(context.Background(), f.userId, &dto.OpenEditorSessionRequest{
		DocumentId: f.document.Id,
	})
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("err = %v, want not-found error", err)
	}

	f.docs.findErr = errors.New("db down")
	_, err = f.service.OpenSession(context.Background(), f.userId, &dto.OpenEditorSessionRequest{
		DocumentId: f.document.Id,
	})
	if err == nil || !strings.Contains(err.Error(), "db down") {
		t.Fatalf("repository error not surfaced: %v", err)
	}
}

func TestApplyEditsMutatesBuffer(t *testing.T) {
	f := newEditorFixture("Hello draft.")
	state := f.open(t)

	resp := f.apply(t, state.SessionId,
		dto.EditOp{Type: "replace_range", From: 0, To: 5, Text: "Howdy"},
		dto.EditOp{Type: "set_selection", Start: 0, End: 5},
	)
	if resp.Revision != 1 {
		t.Errorf("Revision = %d, want 1", resp.Revision)
	}
	if resp.Selection != (editor.Range{Start: 0, End: 5}) {
		t.Errorf("Selection = %+v, want 0..5", resp.Selection)
	}

	after, err := f.service.GetSession(context.Background(), f.userId, state.SessionId)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if after.Text != "Howdy draft." {
		t.Errorf("Text = %q, want %q", after.Text, "Howdy draft.")
	}
}

func TestApplyEditsRejectsBadOps(t *testing.T) {
	f := newEditorFixture("Hello draft.")
	state := f.open(t)

	_, err := f.service.ApplyEdits(context.Background(), f.userId, &dto.ApplyEditsRequest{
		SessionId: state.SessionId,
		Ops:       []dto.EditOp{{Type: "teleport"}},
	})
	if err == nil || !strings.Contains(err.Error(), "unknown type") {
		t.Errorf("unknown op: err = %v", err)
	}

	// The batch stops at the failing op; earlier ops stay applied.
	_, err = f.service.ApplyEdits(context.Background(), f.userId, &dto.ApplyEditsRequest{
		SessionId: state.SessionId,
		Ops: []dto.EditOp{
			{Type: "replace_range", From: 0, To: 5, Text: "Howdy"},
			{Type: "replace_range", From: 0, To: 999, Text: "x"},
		},
	})
	if err == nil || !strings.Contains(err.Error(), "op 1") {
		t.Errorf("out-of-bounds op: err = %v", err)
	}
	after, err := f.service.GetSession(context.Background(), f.userId, state.SessionId)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if after.Text != "Howdy draft." {
		t.Errorf("Text = %q, want first op applied", after.Text)
	}

	_, err = f.service.ApplyEdits(context.Background(), f.userId, &dto.ApplyEditsRequest{
		SessionId: "no-such-session",
		Ops:       []dto.EditOp{{Type: "set_selection"}},
	})
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("unknown session: err = %v", err)
	}
}

func TestRunAssistValidation(t *testing.T) {
	f := newEditorFixture("Some text to work on.")
	state := f.open(t)

	_, err := f.service.RunAssist(context.Background(), f.userId, &dto.AssistRequest{
		SessionId: state.SessionId,
		Action:    "translate",
	})
	if err == nil || !strings.Contains(err.Error(), "unknown assist action") {
		t.Errorf("unknown action: err = %v", err)
	}

	// Nothing selected yet.
	_, err = f.service.RunAssist(context.Background(), f.userId, &dto.AssistRequest{
		SessionId: state.SessionId,
		Action:    "improve",
	})
	if !errors.Is(err, assist.ErrEmptySelection) {
		t.Errorf("empty selection: err = %v, want ErrEmptySelection", err)
	}

	// Another user cannot drive this session.
	_, err = f.service.RunAssist(context.Background(), uuid.New(), &dto.AssistRequest{
		SessionId: state.SessionId,
		Action:    "improve",
	})
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("foreign user: err = %v", err)
	}

	if n := f.provider.callCount(); n != 0 {
		t.Errorf("provider calls = %d, want 0", n)
	}
}

func TestRunAssistStreamsIntoBuffer(t *testing.T) {
	f := newEditorFixture("intro [target] outro")
	f.provider.fragments = []string{"new", " text"}
	state := f.open(t)

	f.apply(t, state.SessionId, dto.EditOp{Type: "set_selection", Start: 6, End: 14})

	resp, err := f.service.RunAssist(context.Background(), f.userId, &dto.AssistRequest{
		SessionId: state.SessionId,
		Action:    "improve",
	})
	if err != nil {
		t.Fatalf("RunAssist: %v", err)
	}
	if resp.Action != "improve" {
		t.Errorf("Action = %q, want improve", resp.Action)
	}

	waitForAssistEvent(t, f.delivery, "completed")

	after, err := f.service.GetSession(context.Background(), f.userId, state.SessionId)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if after.Text != "intro new text outro" {
		t.Errorf("Text = %q, want %q", after.Text, "intro new text outro")
	}
	if after.Active || after.InsertedLen != 0 || after.LastError != "" {
		t.Errorf("state not settled after run: %+v", after)
	}

	events := f.delivery.assistEvents()
	if events[0] != "started" || events[len(events)-1] != "completed" {
		t.Errorf("event order = %v", events)
	}
	fragments := 0
	for _, ev := range events {
		if ev == "fragment" {
			fragments++
		}
	}
	if fragments != 2 {
		t.Errorf("fragment events = %d, want 2", fragments)
	}
}

func TestRunAssistWhileActive(t *testing.T) {
	f := newEditorFixture("aa bb cc")
	gate := make(chan struct{})
	f.provider.fragments = []string{"X", "Y"}
	f.provider.gate = gate
	state := f.open(t)

	f.apply(t, state.SessionId, dto.EditOp{Type: "set_selection", Start: 3, End: 5})

	if _, err := f.service.RunAssist(context.Background(), f.userId, &dto.AssistRequest{
		SessionId: state.SessionId,
		Action:    "complete",
	}); err != nil {
		t.Fatalf("first RunAssist: %v", err)
	}
	waitForAssistEvent(t, f.delivery, "started")

	_, err := f.service.RunAssist(context.Background(), f.userId, &dto.AssistRequest{
		SessionId: state.SessionId,
		Action:    "complete",
	})
	if !errors.Is(err, assist.ErrOperationActive) {
		t.Errorf("second trigger: err = %v, want ErrOperationActive", err)
	}

	close(gate)
	waitForAssistEvent(t, f.delivery, "completed")

	if n := f.provider.callCount(); n != 1 {
		t.Errorf("provider calls = %d, want 1", n)
	}
}

func TestCloseSessionPersistsText(t *testing.T) {
	f := newEditorFixture("one two three")
	state := f.open(t)
	f.apply(t, state.SessionId, dto.EditOp{Type: "replace_range", From: 0, To: 3, Text: "uno"})

	if err := f.service.CloseSession(context.Background(), f.userId, state.SessionId); err != nil {
		t.Fatalf("CloseSession: %v", err)
	}

	if !f.uow.began || !f.uow.committed {
		t.Errorf("transaction began=%v committed=%v, want both", f.uow.began, f.uow.committed)
	}
	if len(f.docs.updated) != 1 {
		t.Fatalf("updates = %d, want 1", len(f.docs.updated))
	}
	saved := f.docs.updated[0]
	if saved.ContentMarkdown != "uno two three" {
		t.Errorf("ContentMarkdown = %q, want %q", saved.ContentMarkdown, "uno two three")
	}
	if saved.WordCount != 3 {
		t.Errorf("WordCount = %d, want 3", saved.WordCount)
	}
	if saved.UpdatedAt == nil {
		t.Error("UpdatedAt not set")
	}

	if f.publisher.payloadCount() != 1 {
		t.Fatalf("index payloads = %d, want 1", f.publisher.payloadCount())
	}
	var msg dto.PublishIndexDocumentMessage
	if err := json.Unmarshal(f.publisher.payloads[0], &msg); err != nil {
		t.Fatalf("index payload: %v", err)
	}
	if msg.DocumentId != f.document.Id {
		t.Errorf("indexed document = %s, want %s", msg.DocumentId, f.document.Id)
	}

	if _, err := f.service.GetSession(context.Background(), f.userId, state.SessionId); err == nil {
		t.Error("session still reachable after close")
	}
}

func TestCloseSessionDocumentDeleted(t *testing.T) {
	f := newEditorFixture("gone soon")
	state := f.open(t)

	f.docs.doc = nil
	if err := f.service.CloseSession(context.Background(), f.userId, state.SessionId); err != nil {
		t.Fatalf("CloseSession: %v", err)
	}

	if len(f.docs.updated) != 0 {
		t.Errorf("updates = %d, want none for a deleted document", len(f.docs.updated))
	}
	if f.publisher.payloadCount() != 0 {
		t.Errorf("index payloads = %d, want none", f.publisher.payloadCount())
	}
	if _, err := f.service.GetSession(context.Background(), f.userId, state.SessionId); err == nil {
		t.Error("session still reachable after close")
	}
}
