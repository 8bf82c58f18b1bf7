package service

import (
	"context"
	"fmt"
	"time"

	"ai-editor-be/internal/constant"
	"ai-editor-be/internal/dto"
	"ai-editor-be/internal/entity"
	"ai-editor-be/internal/repository/memory"
	"ai-editor-be/internal/repository/specification"
	"ai-editor-be/internal/repository/unitofwork"
	"ai-editor-be/pkg/assist"
	"ai-editor-be/pkg/completion"
	"ai-editor-be/pkg/editor"

	"github.com/google/uuid"
)

type IChatService interface {
	CreateSession(ctx context.Context, userId uuid.UUID, req *dto.CreateChatSessionRequest) (*dto.ChatSessionResponse, error)
	GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.ChatSessionResponse, error)
	GetChatHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.ChatMessageResponse, error)
	SendMessage(ctx context.Context, userId uuid.UUID, req *dto.SendChatMessageRequest) (*dto.SendChatMessageResponse, error)
	DeleteSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error
}

type chatService struct {
	uowFactory         unitofwork.RepositoryFactory
	completionProvider completion.Provider
	editorSessions     *memory.SessionRepository
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	completionProvider completion.Provider,
	editorSessions *memory.SessionRepository,
) IChatService {
	return &chatService{
		uowFactory:         uowFactory,
		completionProvider: completionProvider,
		editorSessions:     editorSessions,
	}
}

func (cs *chatService) CreateSession(ctx context.Context, userId uuid.UUID, req *dto.CreateChatSessionRequest) (*dto.ChatSessionResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	if req.DocumentId != nil {
		document, err := uow.DocumentRepository().FindOne(ctx,
			specification.ByID{ID: *req.DocumentId},
			specification.OwnedBy{UserID: userId},
		)
		if err != nil {
			return nil, err
		}
		if document == nil {
			return nil, fmt.Errorf("document not found or access denied")
		}
	}

	title := req.Title
	if title == "" {
		title = constant.ChatDefaultTitle
	}

	chatSession := entity.ChatSession{
		Id:         uuid.New(),
		UserId:     userId,
		DocumentId: req.DocumentId,
		Title:      title,
		CreatedAt:  time.Now(),
	}

	if err := uow.ChatSessionRepository().Create(ctx, &chatSession); err != nil {
		return nil, err
	}

	return &dto.ChatSessionResponse{
		Id:         chatSession.Id,
		Title:      chatSession.Title,
		DocumentId: chatSession.DocumentId,
		CreatedAt:  chatSession.CreatedAt,
	}, nil
}

func (cs *chatService) GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.ChatSessionResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	chatSessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.OwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.ChatSessionResponse, 0, len(chatSessions))
	for _, s := range chatSessions {
		response = append(response, &dto.ChatSessionResponse{
			Id:         s.Id,
			Title:      s.Title,
			DocumentId: s.DocumentId,
			CreatedAt:  s.CreatedAt,
		})
	}

	return response, nil
}

func (cs *chatService) GetChatHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.ChatMessageResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	sess, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, fmt.Errorf("session not found or access denied")
	}

	chatMessages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	resp := make([]*dto.ChatMessageResponse, 0, len(chatMessages))
	for _, msg := range chatMessages {
		resp = append(resp, &dto.ChatMessageResponse{
			Id:        msg.Id,
			Role:      msg.Role,
			Content:   msg.Content,
			CreatedAt: msg.CreatedAt,
		})
	}

	return resp, nil
}

func (cs *chatService) SendMessage(ctx context.Context, userId uuid.UUID, req *dto.SendChatMessageRequest) (*dto.SendChatMessageResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	chatSession, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: req.SessionId},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if chatSession == nil {
		return nil, fmt.Errorf("session not found or access denied")
	}

	history, err := cs.loadHistory(ctx, uow, req.SessionId)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	// The user entry goes into the transcript before the model is called:
	// a failed reply never loses what the user said.
	userMessage := entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: chatSession.Id,
		Role:          entity.ChatRoleUser,
		Content:       req.Message,
		CreatedAt:     now,
	}
	if err := uow.ChatMessageRepository().Create(ctx, &userMessage); err != nil {
		return nil, err
	}

	if len(history) == 0 && chatSession.Title == constant.ChatDefaultTitle {
		chatSession.Title = titleFrom(req.Message)
		chatSession.UpdatedAt = &now
		if err := uow.ChatSessionRepository().Update(ctx, chatSession); err != nil {
			return nil, err
		}
	}

	reply, err := cs.generateReply(ctx, uow, userId, chatSession, history, req.Message)
	if err != nil {
		return nil, err
	}

	// The assistant entry is appended only once the reply fully accumulated.
	assistantMessage := entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: chatSession.Id,
		Role:          entity.ChatRoleAssistant,
		Content:       reply,
		CreatedAt:     time.Now(),
	}
	if err := uow.ChatMessageRepository().Create(ctx, &assistantMessage); err != nil {
		return nil, err
	}

	return &dto.SendChatMessageResponse{
		UserMessage: dto.ChatMessageResponse{
			Id:        userMessage.Id,
			Role:      userMessage.Role,
			Content:   userMessage.Content,
			CreatedAt: userMessage.CreatedAt,
		},
		AssistantMessage: dto.ChatMessageResponse{
			Id:        assistantMessage.Id,
			Role:      assistantMessage.Role,
			Content:   assistantMessage.Content,
			CreatedAt: assistantMessage.CreatedAt,
		},
	}, nil
}

func (cs *chatService) DeleteSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	sess, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if sess == nil {
		return fmt.Errorf("session not found or access denied")
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ChatSessionRepository().Delete(ctx, sessionId); err != nil {
		return err
	}
	if err := uow.ChatMessageRepository().DeleteByChatSessionId(ctx, sessionId); err != nil {
		return err
	}

	return uow.Commit()
}

// loadHistory returns the most recent transcript entries, oldest first, as
// provider messages.
func (cs *chatService) loadHistory(ctx context.Context, uow unitofwork.UnitOfWork, sessionId uuid.UUID) ([]completion.Message, error) {
	chatMessages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: constant.ChatHistoryLimit, Offset: 0},
	)
	if err != nil {
		return nil, err
	}

	// Fetched newest-first to bound the window; flip back to transcript order.
	history := make([]completion.Message, 0, len(chatMessages))
	for i := len(chatMessages) - 1; i >= 0; i-- {
		msg := chatMessages[i]
		role := completion.RoleUser
		if msg.Role == entity.ChatRoleAssistant {
			role = completion.RoleAssistant
		}
		history = append(history, completion.Message{
			Role:    role,
			Content: msg.Content,
		})
	}
	return history, nil
}

// generateReply grounds the conversation in the session's document when it
// has one: the live editor buffer if the user has the document open (so a
// selection narrows the context), else the persisted markdown. Sessions
// without a document, or whose document has since been deleted, run
// ungrounded.
func (cs *chatService) generateReply(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, chatSession *entity.ChatSession, history []completion.Message, userText string) (string, error) {
	if chatSession.DocumentId == nil {
		return assist.FreeChat(ctx, cs.completionProvider, history, userText)
	}

	if live, found := cs.editorSessions.FindByDocument(userId, *chatSession.DocumentId); found {
		return assist.Chat(ctx, cs.completionProvider, live.Buffer, history, userText)
	}

	document, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: *chatSession.DocumentId},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return "", err
	}
	if document == nil {
		return assist.FreeChat(ctx, cs.completionProvider, history, userText)
	}

	return assist.Chat(ctx, cs.completionProvider, editor.NewBuffer(document.ContentMarkdown), history, userText)
}

func titleFrom(message string) string {
	runes := []rune(message)
	if len(runes) <= 50 {
		return message
	}
	return string(runes[:50]) + "…"
}
