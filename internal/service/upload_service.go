package service

import (
	"context"
	"io"

	"grievance-portal/internal/models"
	"grievance-portal/internal/utils"

	"github.com/rs/zerolog"
)

type FileStore interface {
	Save(ctx context.Context, filename string, r io.Reader) (*models.UploadedFile, error)
}

type UploadService struct {
	files FileStore
	log   zerolog.Logger
}

func NewUploadService(files FileStore, log zerolog.Logger) *UploadService {
	return &UploadService{files: files, log: log.With().Str("component", "upload").Logger()}
}

// Upload stores an attachment for an authenticated caller.
func (s *UploadService) Upload(ctx context.Context, filename string, r io.Reader) (*models.UploadedFile, error) {
	actor, ok := utils.ActorFrom(ctx)
	if !ok {
		return nil, models.ErrUnauthorized
	}
	f, err := s.files.Save(ctx, filename, r)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", actor.UserID).Str("url", f.URL).Int64("size", f.Size).Msg("file uploaded")
	return f, nil
}
