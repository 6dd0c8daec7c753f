package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/mzflora/plantario-backend/internal/data/aggregates"
	"github.com/mzflora/plantario-backend/internal/data/repos/plants"
	"github.com/mzflora/plantario-backend/internal/domain"
	"github.com/mzflora/plantario-backend/internal/platform/apierr"
	"github.com/mzflora/plantario-backend/internal/platform/dbctx"
	"github.com/mzflora/plantario-backend/internal/platform/imaging"
	"github.com/mzflora/plantario-backend/internal/platform/logger"
)

const maxUploadBytes = 10 << 20

// ImageUpload is a decoded upload, whether it arrived as multipart or
// base64 JSON.
type ImageUpload struct {
	Filename   string
	Data       []byte
	Legenda    string
	Referencia string
}

type ImageService interface {
	Upload(ctx context.Context, plantID uint, up ImageUpload, actor *Actor) (*domain.Imagem, error)
	ListByPlant(ctx context.Context, plantID uint) ([]domain.Imagem, error)
	UpdateMeta(ctx context.Context, imageID uint, legenda, referencia string, actor *Actor) (*domain.Imagem, error)
	Delete(ctx context.Context, imageID uint, actor *Actor) error
}

type imageService struct {
	plantRepo  plants.PlantRepo
	imageRepo  plants.ImageRepo
	audit      *AuditRecorder
	uploadRoot string
	log        *logger.Logger
}

func NewImageService(plantRepo plants.PlantRepo, imageRepo plants.ImageRepo, audit *AuditRecorder, uploadRoot string, baseLog *logger.Logger) ImageService {
	return &imageService{
		plantRepo:  plantRepo,
		imageRepo:  imageRepo,
		audit:      audit,
		uploadRoot: uploadRoot,
		log:        baseLog.With("service", "image"),
	}
}

// Upload normalizes the photo and stores it under the plant's folder.
// The stored file is always JPEG after normalization.
func (s *imageService) Upload(ctx context.Context, plantID uint, up ImageUpload, actor *Actor) (*domain.Imagem, error) {
	dbc := dbctx.Context{Ctx: ctx}
	if _, err := s.plantRepo.GetByID(dbc, plantID); err != nil {
		return nil, aggregates.MapError("image.upload", err)
	}

	if len(up.Data) == 0 {
		return nil, apierr.Validation("empty_image", "nenhuma imagem enviada")
	}
	if len(up.Data) > maxUploadBytes {
		return nil, apierr.Validation("image_too_large", "imagem excede o tamanho máximo de 10MB")
	}
	if _, ok := imaging.AllowedExt(up.Filename); !ok {
		return nil, apierr.Validation("invalid_extension", "extensão de imagem não permitida")
	}

	normalized, err := imaging.Normalize(up.Data)
	if err != nil {
		return nil, apierr.Validation("invalid_image", "arquivo de imagem inválido")
	}

	filename := uuid.NewString() + ".jpg"
	dir := filepath.Join(s.uploadRoot, fmt.Sprint(plantID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("image: mkdir: %w", err)
	}
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, normalized, 0o644); err != nil {
		return nil, fmt.Errorf("image: write: %w", err)
	}

	img := &domain.Imagem{
		NomeArquivo:      up.Filename,
		URLArmazenamento: fmt.Sprintf("/uploads/plantas_imagens/%d/%s", plantID, filename),
		Legenda:          strings.TrimSpace(up.Legenda),
		ReferenciaImg:    strings.TrimSpace(up.Referencia),
		PlantaID:         plantID,
	}
	if err := s.imageRepo.Create(dbc, img); err != nil {
		_ = os.Remove(path)
		return nil, aggregates.MapError("image.upload", err)
	}

	s.audit.Record(ctx, actor, "adicionar_imagem", "imagem", img.ID, nil, snapshot(img))
	s.log.Info("image stored", "id_planta", plantID, "id_imagem", img.ID)
	return img, nil
}

func (s *imageService) ListByPlant(ctx context.Context, plantID uint) ([]domain.Imagem, error) {
	dbc := dbctx.Context{Ctx: ctx}
	if _, err := s.plantRepo.GetByID(dbc, plantID); err != nil {
		return nil, aggregates.MapError("image.list", err)
	}
	out, err := s.imageRepo.ListByPlant(dbc, plantID)
	if err != nil {
		return nil, aggregates.MapError("image.list", err)
	}
	if out == nil {
		out = []domain.Imagem{}
	}
	return out, nil
}

func (s *imageService) UpdateMeta(ctx context.Context, imageID uint, legenda, referencia string, actor *Actor) (*domain.Imagem, error) {
	dbc := dbctx.Context{Ctx: ctx}
	before, err := s.imageRepo.GetByID(dbc, imageID)
	if err != nil {
		return nil, aggregates.MapError("image.update", err)
	}
	if err := s.imageRepo.UpdateMeta(dbc, imageID, strings.TrimSpace(legenda), strings.TrimSpace(referencia)); err != nil {
		return nil, aggregates.MapError("image.update", err)
	}
	after, err := s.imageRepo.GetByID(dbc, imageID)
	if err != nil {
		return nil, aggregates.MapError("image.update", err)
	}
	s.audit.Record(ctx, actor, "editar_imagem", "imagem", imageID, snapshot(before), snapshot(after))
	return after, nil
}

func (s *imageService) Delete(ctx context.Context, imageID uint, actor *Actor) error {
	dbc := dbctx.Context{Ctx: ctx}
	img, err := s.imageRepo.GetByID(dbc, imageID)
	if err != nil {
		return aggregates.MapError("image.delete", err)
	}
	if err := s.imageRepo.Delete(dbc, imageID); err != nil {
		return aggregates.MapError("image.delete", err)
	}

	rel := strings.TrimPrefix(img.URLArmazenamento, "/uploads/plantas_imagens/")
	if rel != img.URLArmazenamento && rel != "" {
		path := filepath.Join(s.uploadRoot, filepath.FromSlash(rel))
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			s.log.Warn("image file removal failed", "path", path, "error", err)
		}
	}

	s.audit.Record(ctx, actor, "remover_imagem", "imagem", imageID, snapshot(img), nil)
	return nil
}
