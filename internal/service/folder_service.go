package service

import (
	"context"
	"time"

	"ai-editor-be/internal/dto"
	"ai-editor-be/internal/entity"
	"ai-editor-be/internal/repository/specification"
	"ai-editor-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IFolderService interface {
	GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.FolderResponse, error)
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateFolderRequest) (*dto.CreateFolderResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.FolderResponse, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateFolderRequest) (*dto.FolderResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
}

type folderService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewFolderService(uowFactory unitofwork.RepositoryFactory) IFolderService {
	return &folderService{
		uowFactory: uowFactory,
	}
}

func (c *folderService) GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.FolderResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	folders, err := uow.FolderRepository().FindAll(ctx,
		specification.OwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.FolderResponse, 0)
	for _, folder := range folders {
		count, err := uow.DocumentRepository().Count(ctx,
			specification.ByFolderID{FolderID: folder.Id},
			specification.OwnedBy{UserID: userId},
		)
		if err != nil {
			return nil, err
		}

		result = append(result, &dto.FolderResponse{
			Id:            folder.Id,
			Name:          folder.Name,
			Description:   folder.Description,
			DocumentCount: count,
			CreatedAt:     folder.CreatedAt,
			UpdatedAt:     folder.UpdatedAt,
		})
	}

	return result, nil
}

func (c *folderService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateFolderRequest) (*dto.CreateFolderResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	folder := entity.Folder{
		Id:          uuid.New(),
		UserId:      userId,
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   time.Now(),
	}

	err := uow.FolderRepository().Create(ctx, &folder)
	if err != nil {
		return nil, err
	}

	return &dto.CreateFolderResponse{
		Id: folder.Id,
	}, nil
}

func (c *folderService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.FolderResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	folder, err := uow.FolderRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if folder == nil {
		return nil, nil
	}

	count, err := uow.DocumentRepository().Count(ctx,
		specification.ByFolderID{FolderID: folder.Id},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}

	return &dto.FolderResponse{
		Id:            folder.Id,
		Name:          folder.Name,
		Description:   folder.Description,
		DocumentCount: count,
		CreatedAt:     folder.CreatedAt,
		UpdatedAt:     folder.UpdatedAt,
	}, nil
}

func (c *folderService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateFolderRequest) (*dto.FolderResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	folder, err := uow.FolderRepository().FindOne(ctx,
		specification.ByID{ID: req.Id},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if folder == nil {
		return nil, nil
	}

	now := time.Now()
	folder.Name = req.Name
	folder.Description = req.Description
	folder.UpdatedAt = &now

	if err := uow.FolderRepository().Update(ctx, folder); err != nil {
		return nil, err
	}

	return &dto.FolderResponse{
		Id:          folder.Id,
		Name:        folder.Name,
		Description: folder.Description,
		CreatedAt:   folder.CreatedAt,
		UpdatedAt:   folder.UpdatedAt,
	}, nil
}

func (c *folderService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	folder, err := uow.FolderRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if folder == nil {
		return nil
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.FolderRepository().Delete(ctx, id); err != nil {
		return err
	}

	// Documents survive folder deletion; they fall back to the root level.
	documents, err := uow.DocumentRepository().FindAll(ctx,
		specification.ByFolderID{FolderID: id},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	for _, document := range documents {
		document.FolderId = nil
		if err := uow.DocumentRepository().Update(ctx, document); err != nil {
			return err
		}
	}

	return uow.Commit()
}
