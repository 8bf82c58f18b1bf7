package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ai-editor-be/internal/config"
	"ai-editor-be/internal/dto"
	"ai-editor-be/internal/repository/memory"
	"ai-editor-be/internal/repository/specification"
	"ai-editor-be/internal/repository/unitofwork"
	"ai-editor-be/internal/websocket"
	"ai-editor-be/pkg/assist"
	"ai-editor-be/pkg/completion"
	"ai-editor-be/pkg/editor"
	"ai-editor-be/pkg/events"
	pkgNats "ai-editor-be/pkg/nats"
	"ai-editor-be/pkg/store"
	"ai-editor-be/pkg/utils"

	"github.com/google/uuid"
)

type IEditorService interface {
	OpenSession(ctx context.Context, userId uuid.UUID, request *dto.OpenEditorSessionRequest) (*dto.EditorSessionState, error)
	GetSession(ctx context.Context, userId uuid.UUID, sessionId string) (*dto.EditorSessionState, error)
	ApplyEdits(ctx context.Context, userId uuid.UUID, request *dto.ApplyEditsRequest) (*dto.ApplyEditsResponse, error)
	RunAssist(ctx context.Context, userId uuid.UUID, request *dto.AssistRequest) (*dto.AssistStartedResponse, error)
	CloseSession(ctx context.Context, userId uuid.UUID, sessionId string) error
}

type editorService struct {
	uowFactory         unitofwork.RepositoryFactory
	sessions           *memory.SessionRepository
	completionProvider completion.Provider
	publisherService   IPublisherService
	eventPublisher     *pkgNats.Publisher
	delivery           RealtimeDelivery
	cfg                *config.Config
}

func NewEditorService(
	uowFactory unitofwork.RepositoryFactory,
	sessions *memory.SessionRepository,
	completionProvider completion.Provider,
	publisherService IPublisherService,
	eventPublisher *pkgNats.Publisher,
	delivery RealtimeDelivery,
	cfg *config.Config,
) IEditorService {
	return &editorService{
		uowFactory:         uowFactory,
		sessions:           sessions,
		completionProvider: completionProvider,
		publisherService:   publisherService,
		eventPublisher:     eventPublisher,
		delivery:           delivery,
		cfg:                cfg,
	}
}

// OpenSession loads the document text into a server-side buffer and wires an
// assist runner to it. Opening a document that already has a live session for
// this user returns that session instead of a second one.
func (es *editorService) OpenSession(ctx context.Context, userId uuid.UUID, request *dto.OpenEditorSessionRequest) (*dto.EditorSessionState, error) {
	if existing, found := es.sessions.FindByDocument(userId, request.DocumentId); found {
		es.sessions.Save(existing) // refresh TTL
		return es.snapshotState(existing), nil
	}

	uow := es.uowFactory.NewUnitOfWork(ctx)
	document, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: request.DocumentId},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if document == nil {
		return nil, fmt.Errorf("document not found or access denied")
	}

	session := &store.EditorSession{
		ID:         uuid.NewString(),
		UserID:     userId,
		DocumentID: document.Id,
		Buffer:     editor.NewBuffer(document.ContentMarkdown),
	}
	session.Runner = assist.NewRunner(session.Buffer, es.completionProvider, es.assistListener(session))
	es.sessions.Save(session)

	return es.snapshotState(session), nil
}

func (es *editorService) GetSession(ctx context.Context, userId uuid.UUID, sessionId string) (*dto.EditorSessionState, error) {
	session, err := es.ownedSession(userId, sessionId)
	if err != nil {
		return nil, err
	}
	return es.snapshotState(session), nil
}

// ApplyEdits applies client edits to the session buffer in order. Edits are
// never blocked by a running assist operation; the runner detects the
// revision bump and aborts itself before the next replacement.
func (es *editorService) ApplyEdits(ctx context.Context, userId uuid.UUID, request *dto.ApplyEditsRequest) (*dto.ApplyEditsResponse, error) {
	session, err := es.ownedSession(userId, request.SessionId)
	if err != nil {
		return nil, err
	}

	for i, op := range request.Ops {
		switch op.Type {
		case "replace_range":
			if err := session.Buffer.ReplaceRange(op.From, op.To, op.Text); err != nil {
				return nil, fmt.Errorf("op %d: %w", i, err)
			}
		case "set_selection":
			if err := session.Buffer.SetSelection(editor.Range{Start: op.Start, End: op.End}); err != nil {
				return nil, fmt.Errorf("op %d: %w", i, err)
			}
		default:
			return nil, fmt.Errorf("op %d: unknown type %q", i, op.Type)
		}
	}

	es.sessions.Save(session) // refresh TTL

	return &dto.ApplyEditsResponse{
		Selection: session.Buffer.Selection(),
		Revision:  session.Buffer.Revision(),
	}, nil
}

// RunAssist starts one streaming writing operation on the current selection.
// The call returns as soon as the run is accepted; progress reaches the
// browser over the websocket as assist frames. The run is detached from the
// request context so navigating away does not kill it; closing the session
// does.
func (es *editorService) RunAssist(ctx context.Context, userId uuid.UUID, request *dto.AssistRequest) (*dto.AssistStartedResponse, error) {
	session, err := es.ownedSession(userId, request.SessionId)
	if err != nil {
		return nil, err
	}

	action, ok := assist.ActionByName(request.Action)
	if !ok {
		return nil, fmt.Errorf("unknown assist action: %s", request.Action)
	}

	// Reject synchronously so the client gets an HTTP error instead of a
	// websocket-only failure. The runner re-checks both under its own lock.
	if session.Runner.State().Active {
		return nil, assist.ErrOperationActive
	}
	if selected, err := editor.SelectedText(session.Buffer); err != nil {
		return nil, err
	} else if selected == "" {
		return nil, assist.ErrEmptySelection
	}

	var opts []completion.Option
	if es.cfg.Ai.Temperature > 0 {
		opts = append(opts, completion.WithTemperature(es.cfg.Ai.Temperature))
	}
	if es.cfg.Ai.MaxTokens > 0 {
		opts = append(opts, completion.WithMaxTokens(es.cfg.Ai.MaxTokens))
	}

	runCtx, cancel := context.WithCancel(context.Background())
	session.SetCancel(cancel)

	go func() {
		defer cancel()
		text, runErr := session.Runner.Run(runCtx, action, opts...)
		if runErr != nil {
			// The browser already saw the failed frame via the listener.
			fmt.Printf("[WARN] Assist run %s failed on session %s: %v\n", action.Name, session.ID, runErr)
			return
		}
		if es.eventPublisher != nil {
			event := events.NewAssistCompleted(session.UserID, session.DocumentID, action.Name, len([]rune(text)))
			if err := es.eventPublisher.Publish(context.Background(), event); err != nil {
				fmt.Printf("[WARN] Failed to publish assist completed event: %v\n", err)
			}
		}
	}()

	es.sessions.Save(session) // refresh TTL

	return &dto.AssistStartedResponse{
		SessionId: session.ID,
		Action:    action.Name,
	}, nil
}

// CloseSession cancels any in-flight assist run, writes the buffer back to
// the document, queues re-indexing and drops the session. The rich JSON save
// path stays with the document endpoints; a close persists the working text.
func (es *editorService) CloseSession(ctx context.Context, userId uuid.UUID, sessionId string) error {
	session, err := es.ownedSession(userId, sessionId)
	if err != nil {
		return err
	}

	session.CancelActive()

	uow := es.uowFactory.NewUnitOfWork(ctx)
	document, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: session.DocumentID},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if document == nil {
		// Deleted underneath the session; nothing to write back.
		es.sessions.Delete(session.ID)
		return nil
	}

	text := session.Buffer.Export()
	now := time.Now()
	document.ContentMarkdown = text
	document.WordCount = utils.CountWords(text)
	document.UpdatedAt = &now

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.DocumentRepository().Update(ctx, document); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	// Re-index the persisted text; a queue hiccup must not block the close.
	payload, err := json.Marshal(dto.PublishIndexDocumentMessage{DocumentId: document.Id})
	if err == nil {
		err = es.publisherService.Publish(ctx, payload)
	}
	if err != nil {
		fmt.Printf("[WARN] Failed to queue indexing for document %s: %v\n", document.Id, err)
	}

	es.sessions.Delete(session.ID)
	return nil
}

func (es *editorService) ownedSession(userId uuid.UUID, sessionId string) (*store.EditorSession, error) {
	session, found := es.sessions.Get(sessionId)
	if !found || session.UserID != userId {
		return nil, fmt.Errorf("editor session not found or access denied")
	}
	return session, nil
}

func (es *editorService) snapshotState(session *store.EditorSession) *dto.EditorSessionState {
	op := session.Runner.State()
	state := &dto.EditorSessionState{
		SessionId:   session.ID,
		DocumentId:  session.DocumentID,
		Text:        session.Buffer.Export(),
		Selection:   session.Buffer.Selection(),
		Revision:    session.Buffer.Revision(),
		Active:      op.Active,
		InsertedLen: op.InsertedLen,
	}
	if op.LastErr != nil {
		state.LastError = op.LastErr.Error()
	}
	return state
}

// assistListener mirrors runner events to the session owner's websocket
// connections. Called synchronously from the runner goroutine; the hub
// only marshals and hands off to buffered channels.
func (es *editorService) assistListener(session *store.EditorSession) assist.Listener {
	return func(ev assist.Event) {
		if es.delivery == nil {
			return
		}
		frame := dto.AssistEventFrame{
			SessionId: session.ID,
			Event:     string(ev.Type),
			Action:    ev.Action,
			Fragment:  ev.Fragment,
			Text:      ev.Text,
		}
		if ev.Err != nil {
			frame.Error = ev.Err.Error()
		}
		es.delivery.Send(session.UserID, websocket.Frame{Type: "assist", Data: frame})
	}
}
