package port

import (
	"context"

	"github.com/bnema/galerie/internal/domain"
)

type MediaStore interface {
	CreateMedia(ctx context.Context, m *domain.Media) error
	GetMedia(ctx context.Context, id string) (*domain.Media, error)
	DeleteMedia(ctx context.Context, id string) error
	MarkReady(ctx context.Context, id string, webPath string) error
	SetProcessing(ctx context.Context, id string, state domain.ProcessingState) error
}
