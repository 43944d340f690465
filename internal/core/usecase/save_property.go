package usecase

import (
	"context"
	"fmt"

	"realty-service/internal/contextkeys"
	"realty-service/internal/core/domain"
	"realty-service/internal/core/port"
)

const propertyImagesFolder = "properties"

type SavePropertyUseCase struct {
	repo  port.PropertyRepositoryPort
	files port.FileStoragePort
}

func NewSavePropertyUseCase(repo port.PropertyRepositoryPort, files port.FileStoragePort) *SavePropertyUseCase {
	return &SavePropertyUseCase{repo: repo, files: files}
}

func (uc *SavePropertyUseCase) Execute(ctx context.Context, property *domain.Property, image *port.Upload) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":    "SaveProperty",
		"property_id": property.ID,
		"with_image":  image != nil,
	})

	property.Normalize()
	if err := property.Validate(); err != nil {
		ucLogger.Debug("Validation failed", port.Fields{"error": err.Error()})
		return err
	}

	var previousImage string
	if property.ID != 0 {
		existing, err := uc.repo.GetByID(ctx, property.ID)
		if err != nil {
			return err
		}
		previousImage = existing.Image
		if image == nil && property.Image == "" {
			property.Image = existing.Image
		}
	}

	var newImage string
	if image != nil {
		path, err := uc.files.Save(ctx, propertyImagesFolder, *image)
		if err != nil {
			ucLogger.Error("Failed to store property image", err, nil)
			return fmt.Errorf("failed to store image: %w", err)
		}
		newImage = path
		property.Image = path
	}

	var err error
	if property.ID == 0 {
		err = uc.repo.Create(ctx, property)
	} else {
		err = uc.repo.Update(ctx, property)
	}
	if err != nil {
		ucLogger.Error("Repository returned an error", err, nil)
		// файл без записи в БД никому не нужен
		if newImage != "" {
			_ = uc.files.Delete(ctx, newImage)
		}
		return err
	}

	if newImage != "" && previousImage != "" && previousImage != newImage {
		if err := uc.files.Delete(ctx, previousImage); err != nil {
			ucLogger.Warn("Failed to remove replaced image", port.Fields{"path": previousImage, "error": err.Error()})
		}
	}

	ucLogger.Info("Property saved", port.Fields{"property_id": property.ID})
	return nil
}

type DeletePropertyUseCase struct {
	repo  port.PropertyRepositoryPort
	files port.FileStoragePort
}

func NewDeletePropertyUseCase(repo port.PropertyRepositoryPort, files port.FileStoragePort) *DeletePropertyUseCase {
	return &DeletePropertyUseCase{repo: repo, files: files}
}

func (uc *DeletePropertyUseCase) Execute(ctx context.Context, id int64) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "DeleteProperty", "property_id": id})

	existing, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		ucLogger.Warn("Delete rejected", port.Fields{"error": err.Error()})
		return err
	}
	if existing.Image != "" {
		if err := uc.files.Delete(ctx, existing.Image); err != nil {
			ucLogger.Warn("Failed to remove property image", port.Fields{"path": existing.Image, "error": err.Error()})
		}
	}
	ucLogger.Info("Property deleted", nil)
	return nil
}
