package reports

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/fdg312/diet-planner/internal/blob"
	"github.com/fdg312/diet-planner/internal/storage"
	"github.com/fdg312/diet-planner/internal/weekplan"
	"github.com/google/uuid"
)

var (
	ErrClientNotFound  = errors.New("client not found")
	ErrArchiveDisabled = errors.New("report archive is not configured")
)

// ClientGetter is the part of the client store reports need.
type ClientGetter interface {
	GetClient(ctx context.Context, id uuid.UUID) (*storage.Client, error)
}

// PlanGetter is the part of the plan store reports need.
type PlanGetter interface {
	GetPlan(ctx context.Context, clientID uuid.UUID) (*storage.StoredPlan, error)
}

// Service renders client reports and optionally archives them.
type Service struct {
	clients   ClientGetter
	plans     PlanGetter
	renderer  *Renderer
	blobStore blob.Store // nil in local mode
	now       func() time.Time
}

func NewService(clients ClientGetter, plans PlanGetter, renderer *Renderer, blobStore blob.Store) *Service {
	return &Service{
		clients:   clients,
		plans:     plans,
		renderer:  renderer,
		blobStore: blobStore,
		now:       time.Now,
	}
}

// ArchiveEnabled reports whether Archive can upload.
func (s *Service) ArchiveEnabled() bool {
	return s.blobStore != nil
}

// DietPlanPDF renders the stored plan of a client. A client without a
// plan gets a report with an empty plan section.
func (s *Service) DietPlanPDF(ctx context.Context, clientID uuid.UUID) (*Document, error) {
	client, err := s.clients.GetClient(ctx, clientID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrClientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	stored, err := s.plans.GetPlan(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	var plan weekplan.WeekPlan
	if stored != nil {
		plan = stored.Plan
	}

	data, err := s.renderer.Render(Input{Profile: client.Profile, Targets: client.Targets, Plan: plan})
	if err != nil {
		return nil, err
	}

	return &Document{
		Filename:    Filename(client.Profile.Name),
		ContentType: ContentTypePDF,
		Data:        data,
	}, nil
}

// Archive renders the report and uploads it under reports/<client>/<uuid>.pdf.
func (s *Service) Archive(ctx context.Context, clientID uuid.UUID) (*ArchivedReport, error) {
	if s.blobStore == nil {
		return nil, ErrArchiveDisabled
	}

	doc, err := s.DietPlanPDF(ctx, clientID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("reports/%s/%s.pdf", clientID, uuid.New())
	size, err := s.blobStore.PutObject(ctx, blob.Object{
		Key:         key,
		Data:        doc.Data,
		ContentType: doc.ContentType,
		Filename:    doc.Filename,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload report: %w", err)
	}

	url, err := s.blobStore.DownloadURL(ctx, key)
	if err != nil {
		// Drop the orphaned upload.
		if delErr := s.blobStore.DeleteObject(ctx, key); delErr != nil {
			log.Printf("WARN reports: cleanup key=%s failed: %v", key, delErr)
		}
		return nil, fmt.Errorf("failed to build download url: %w", err)
	}

	log.Printf("INFO reports: archived client=%s key=%s size=%d", clientID, key, size)
	return &ArchivedReport{
		ClientID:    clientID,
		Key:         key,
		Filename:    doc.Filename,
		DownloadURL: url,
		SizeBytes:   size,
		CreatedAt:   s.now().UTC(),
	}, nil
}
