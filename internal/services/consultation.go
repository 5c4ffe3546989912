package services

import (
  "context"
  "encoding/json"
  "fmt"
  "strings"
  "github.com/google/uuid"
  "golang.org/x/sync/errgroup"
  "gorm.io/datatypes"
  "github.com/careloop/careloop-backend/internal/apperr"
  "github.com/careloop/careloop-backend/internal/logger"
  "github.com/careloop/careloop-backend/internal/repos"
  "github.com/careloop/careloop-backend/internal/types"
)

const consultationHistoryLimit = 20

// ConsultationResult pairs the stored consultation with the typed
// analysis shapes the handlers render.
type ConsultationResult struct {
  Consultation *types.Consultation   `json:"consultation"`
  Analysis     types.SymptomAnalysis `json:"analysis"`
  Entities     []types.MedicalEntity `json:"entities"`
}

type ConsultationService interface {
  Analyze(ctx context.Context, userID uuid.UUID, symptoms string) (*ConsultationResult, error)
  History(ctx context.Context, userID uuid.UUID, limit int) ([]*types.Consultation, error)
  Get(ctx context.Context, userID, consultationID uuid.UUID) (*types.Consultation, error)
}

type consultationService struct {
  log              *logger.Logger
  gateway          AIGateway
  userRepo         repos.UserRepo
  consultationRepo repos.ConsultationRepo
  activityService  ActivityService
}

func NewConsultationService(
  log *logger.Logger,
  gateway AIGateway,
  userRepo repos.UserRepo,
  consultationRepo repos.ConsultationRepo,
  activityService ActivityService,
) ConsultationService {
  serviceLog := log.With("service", "ConsultationService")
  return &consultationService{
    log:              serviceLog,
    gateway:          gateway,
    userRepo:         userRepo,
    consultationRepo: consultationRepo,
    activityService:  activityService,
  }
}

// Analyze runs entity extraction and symptom analysis against the AI
// gateway, persists the consultation, and tracks the event. The two
// upstream calls are independent so they run concurrently; neither can
// fail, the gateway degrades each to its fallback.
func (cs *consultationService) Analyze(ctx context.Context, userID uuid.UUID, symptoms string) (*ConsultationResult, error) {
  symptoms = strings.TrimSpace(symptoms)
  if symptoms == "" {
    return nil, fmt.Errorf("symptoms text required: %w", apperr.ErrInvalidInput)
  }

  users, uErr := cs.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
  if uErr != nil {
    return nil, fmt.Errorf("Failed to load user for consultation: %w", uErr)
  }
  if len(users) == 0 {
    return nil, apperr.ErrNotFound
  }
  user := users[0]

  var entities []types.MedicalEntity
  var analysis types.SymptomAnalysis

  group, groupCtx := errgroup.WithContext(ctx)
  group.Go(func() error {
    entities = cs.gateway.ExtractEntities(groupCtx, symptoms)
    return nil
  })
  group.Go(func() error {
    analysis = cs.gateway.AnalyzeSymptoms(groupCtx, symptoms, user)
    return nil
  })
  _ = group.Wait()

  analysisJSON, aErr := json.Marshal(analysis)
  if aErr != nil {
    return nil, fmt.Errorf("Failed to marshal analysis: %w", aErr)
  }
  entitiesJSON, eErr := json.Marshal(entities)
  if eErr != nil {
    return nil, fmt.Errorf("Failed to marshal entities: %w", eErr)
  }

  consultation := &types.Consultation{
    ID:                uuid.New(),
    UserID:            userID,
    Symptoms:          symptoms,
    AnalysisResult:    datatypes.JSON(analysisJSON),
    ExtractedEntities: datatypes.JSON(entitiesJSON),
    SeverityLevel:     analysis.Severity,
    ConfidenceScore:   analysis.Confidence,
  }
  if _, cErr := cs.consultationRepo.Create(ctx, nil, []*types.Consultation{consultation}); cErr != nil {
    return nil, fmt.Errorf("Failed to persist consultation: %w", cErr)
  }

  cs.activityService.Track(ctx, userID, TrackInput{
    ActivityType: "consultation",
    Metadata:     map[string]any{"consultation_id": consultation.ID.String()},
  })

  return &ConsultationResult{
    Consultation: consultation,
    Analysis:     analysis,
    Entities:     entities,
  }, nil
}

func (cs *consultationService) History(ctx context.Context, userID uuid.UUID, limit int) ([]*types.Consultation, error) {
  if limit <= 0 {
    limit = consultationHistoryLimit
  }
  return cs.consultationRepo.GetByUserID(ctx, nil, userID, limit)
}

func (cs *consultationService) Get(ctx context.Context, userID, consultationID uuid.UUID) (*types.Consultation, error) {
  consultation, err := cs.consultationRepo.GetByIDForUser(ctx, nil, consultationID, userID)
  if err != nil {
    return nil, fmt.Errorf("Failed to load consultation: %w", err)
  }
  if consultation == nil {
    return nil, apperr.ErrNotFound
  }
  return consultation, nil
}
