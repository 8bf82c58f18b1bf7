package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ai-editor-be/internal/constant"
	"ai-editor-be/internal/dto"
	"ai-editor-be/internal/entity"
	"ai-editor-be/internal/repository/specification"
	"ai-editor-be/internal/repository/unitofwork"
	"ai-editor-be/pkg/embedding"
	"ai-editor-be/pkg/richtext"
	pkgSearch "ai-editor-be/pkg/search"
	"ai-editor-be/pkg/utils"

	"github.com/google/uuid"
)

type IDocumentService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateDocumentRequest) (*dto.CreateDocumentResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowDocumentResponse, error)
	List(ctx context.Context, userId uuid.UUID, page, limit int, folderId *uuid.UUID, search string) (*dto.ListDocumentsResponse, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateDocumentRequest) (*dto.UpdateDocumentResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
	Export(ctx context.Context, userId uuid.UUID, id uuid.UUID) (title string, markdown string, err error)
	SemanticSearch(ctx context.Context, userId uuid.UUID, req *dto.SemanticSearchRequest) ([]*dto.SemanticSearchResult, error)
}

type documentService struct {
	uowFactory        unitofwork.RepositoryFactory
	publisherService  IPublisherService
	embeddingProvider embedding.Provider
}

func NewDocumentService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	embeddingProvider embedding.Provider,
) IDocumentService {
	return &documentService{
		uowFactory:        uowFactory,
		publisherService:  publisherService,
		embeddingProvider: embeddingProvider,
	}
}

// queueIndexing schedules an embedding rebuild for the document. Indexing is
// auxiliary; a publish failure never fails the save itself.
func (c *documentService) queueIndexing(ctx context.Context, documentId uuid.UUID) {
	payload := dto.PublishIndexDocumentMessage{
		DocumentId: documentId,
	}
	payloadJson, err := json.Marshal(payload)
	if err == nil {
		err = c.publisherService.Publish(ctx, payloadJson)
	}
	if err != nil {
		fmt.Printf("[WARN] Failed to queue indexing for document %s: %v\n", documentId, err)
	}
}

func (c *documentService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateDocumentRequest) (*dto.CreateDocumentResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	if req.FolderId != nil {
		folder, err := uow.FolderRepository().FindOne(ctx,
			specification.ByID{ID: *req.FolderId},
			specification.OwnedBy{UserID: userId},
		)
		if err != nil {
			return nil, err
		}
		if folder == nil {
			return nil, nil
		}
	}

	content := string(req.Content)
	markdown := richtext.Convert(content)

	document := entity.Document{
		Id:              uuid.New(),
		UserId:          userId,
		FolderId:        req.FolderId,
		Title:           req.Title,
		Content:         content,
		ContentMarkdown: markdown,
		WordCount:       utils.CountWords(markdown),
		CreatedAt:       time.Now(),
	}

	if err := uow.DocumentRepository().Create(ctx, &document); err != nil {
		return nil, err
	}

	c.queueIndexing(ctx, document.Id)

	return &dto.CreateDocumentResponse{
		Id: document.Id,
	}, nil
}

func (c *documentService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowDocumentResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	document, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if document == nil {
		return nil, nil
	}

	return &dto.ShowDocumentResponse{
		Id:              document.Id,
		Title:           document.Title,
		Content:         json.RawMessage(document.Content),
		ContentMarkdown: document.ContentMarkdown,
		FolderId:        document.FolderId,
		WordCount:       document.WordCount,
		CreatedAt:       document.CreatedAt,
		UpdatedAt:       document.UpdatedAt,
	}, nil
}

func (c *documentService) List(ctx context.Context, userId uuid.UUID, page, limit int, folderId *uuid.UUID, search string) (*dto.ListDocumentsResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	filters := []specification.Specification{
		specification.OwnedBy{UserID: userId},
	}
	if folderId != nil {
		filters = append(filters, specification.ByFolderID{FolderID: *folderId})
	}
	if search != "" {
		filters = append(filters, specification.TitleSearch{Query: search})
	}

	total, err := uow.DocumentRepository().Count(ctx, filters...)
	if err != nil {
		return nil, err
	}

	pageSpecs := append(filters,
		specification.OrderBy{Field: "updated_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: (page - 1) * limit},
	)

	documents, err := uow.DocumentRepository().FindAll(ctx, pageSpecs...)
	if err != nil {
		return nil, err
	}

	items := make([]dto.DocumentListItem, 0, len(documents))
	for _, document := range documents {
		items = append(items, dto.DocumentListItem{
			Id:        document.Id,
			Title:     document.Title,
			FolderId:  document.FolderId,
			WordCount: document.WordCount,
			CreatedAt: document.CreatedAt,
			UpdatedAt: document.UpdatedAt,
		})
	}

	return &dto.ListDocumentsResponse{
		Items: items,
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

func (c *documentService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateDocumentRequest) (*dto.UpdateDocumentResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	document, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: req.Id},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if document == nil {
		return nil, nil
	}

	if req.FolderId != nil {
		folder, err := uow.FolderRepository().FindOne(ctx,
			specification.ByID{ID: *req.FolderId},
			specification.OwnedBy{UserID: userId},
		)
		if err != nil {
			return nil, err
		}
		if folder == nil {
			return nil, nil
		}
	}

	now := time.Now()
	content := string(req.Content)
	markdown := richtext.Convert(content)

	document.Title = req.Title
	document.Content = content
	document.ContentMarkdown = markdown
	document.WordCount = utils.CountWords(markdown)
	document.FolderId = req.FolderId
	document.UpdatedAt = &now

	if err := uow.DocumentRepository().Update(ctx, document); err != nil {
		return nil, err
	}

	c.queueIndexing(ctx, document.Id)

	return &dto.UpdateDocumentResponse{
		Id: document.Id,
	}, nil
}

func (c *documentService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	document, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if document == nil {
		return nil
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.DocumentRepository().Delete(ctx, id); err != nil {
		return err
	}

	// The document row is only soft deleted; its vectors go away for real so
	// search never resurrects trashed content.
	if err := uow.DocumentEmbeddingRepository().DeleteByDocumentId(ctx, id); err != nil {
		return err
	}

	return uow.Commit()
}

func (c *documentService) Export(ctx context.Context, userId uuid.UUID, id uuid.UUID) (string, string, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	document, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return "", "", err
	}
	if document == nil {
		return "", "", nil
	}

	return document.Title, document.ContentMarkdown, nil
}

func (c *documentService) SemanticSearch(ctx context.Context, userId uuid.UUID, req *dto.SemanticSearchRequest) ([]*dto.SemanticSearchResult, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	limit := req.Limit
	if limit <= 0 {
		limit = constant.SearchDefaultLimit
	}
	if limit > constant.SearchMaxLimit {
		limit = constant.SearchMaxLimit
	}

	// === SLASH COMMAND PARSING ===
	// /folder: and /doc: force a literal filter and bypass the embedding
	// round-trip entirely.
	filters := pkgSearch.ParseQuery(req.Query)
	if filters.FolderName != "" || filters.DocTitle != "" {
		return c.literalSearch(ctx, uow, userId, limit, "literal_filter", filters)
	}

	// No manual filters -> decide between Literal or Semantic based on query
	if pkgSearch.DetermineStrategy(req.Query) == pkgSearch.StrategyLiteral {
		return c.literalSearch(ctx, uow, userId, limit, "literal", pkgSearch.SearchFilters{SearchQuery: req.Query})
	}

	return c.vectorSearch(ctx, uow, userId, limit, req.Query)
}

func (c *documentService) literalSearch(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, limit int, searchType string, filters pkgSearch.SearchFilters) ([]*dto.SemanticSearchResult, error) {
	specs := []specification.Specification{
		specification.DocumentOwnedByUser{UserID: userId}, // qualified, ByFolderName may join folders
	}
	if filters.FolderName != "" {
		specs = append(specs, specification.ByFolderName{Name: filters.FolderName})
	}
	if filters.DocTitle != "" {
		specs = append(specs, specification.TitleSearch{Query: filters.DocTitle})
	}
	if filters.SearchQuery != "" {
		specs = append(specs, specification.TextSearch{Query: filters.SearchQuery})
	}
	specs = append(specs,
		specification.OrderBy{Field: "documents.updated_at", Desc: true},
		specification.Pagination{Limit: limit},
	)

	documents, err := uow.DocumentRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	results := make([]*dto.SemanticSearchResult, 0, len(documents))
	for _, document := range documents {
		results = append(results, &dto.SemanticSearchResult{
			DocumentId: document.Id,
			Title:      document.Title,
			Snippet:    snippet(document.ContentMarkdown, constant.SearchSnippetMaxRunes),
			SearchType: searchType,
			UpdatedAt:  document.UpdatedAt,
		})
	}
	return results, nil
}

func (c *documentService) vectorSearch(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, limit int, query string) ([]*dto.SemanticSearchResult, error) {
	queryVector, err := c.embeddingProvider.EmbedText(ctx, query)
	if err != nil {
		return nil, err
	}

	scoredResults, err := uow.DocumentEmbeddingRepository().SearchSimilarWithScore(ctx, queryVector, limit, userId, constant.SearchSimilarityThreshold)
	if err != nil {
		return nil, err
	}
	if len(scoredResults) == 0 {
		return []*dto.SemanticSearchResult{}, nil
	}

	// Deduplicate chunks of the same document, keeping the best score and
	// the best chunk as snippet. scoredResults arrive ordered by similarity.
	ids := make([]uuid.UUID, 0)
	seen := make(map[uuid.UUID]bool)
	scoreMap := make(map[uuid.UUID]float64)
	snippetMap := make(map[uuid.UUID]string)

	for _, sr := range scoredResults {
		if seen[sr.Embedding.DocumentId] {
			continue
		}
		seen[sr.Embedding.DocumentId] = true
		ids = append(ids, sr.Embedding.DocumentId)
		scoreMap[sr.Embedding.DocumentId] = sr.Similarity
		snippetMap[sr.Embedding.DocumentId] = snippet(sr.Embedding.Chunk, constant.SearchSnippetMaxRunes)
	}

	documents, err := uow.DocumentRepository().FindAll(ctx,
		specification.ByIDs{IDs: ids},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}

	byId := make(map[uuid.UUID]*entity.Document, len(documents))
	for _, document := range documents {
		byId[document.Id] = document
	}

	// Preserve similarity order.
	results := make([]*dto.SemanticSearchResult, 0, len(ids))
	for _, id := range ids {
		document, ok := byId[id]
		if !ok {
			continue
		}
		score := scoreMap[id]
		results = append(results, &dto.SemanticSearchResult{
			DocumentId: document.Id,
			Title:      document.Title,
			Snippet:    snippetMap[id],
			Score:      &score,
			SearchType: "semantic",
			UpdatedAt:  document.UpdatedAt,
		})
	}

	return results, nil
}

func snippet(text string, maxRunes int) string {
	runes := []rune(text)
	if len(runes) <= maxRunes {
		return text
	}
	return string(runes[:maxRunes]) + "…"
}
