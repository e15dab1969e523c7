package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StatusTTL is how long a status stays visible before the expiry sweep
// retires it.
const StatusTTL = 24 * time.Hour

// StatusService owns ephemeral status posts and their viewer-scoped feed.
type StatusService struct {
	statuses StatusRepository
	rooms    ChatRepository
	notifier Notifier
	logger   *zap.Logger
}

// NewStatusService creates a new status service
func NewStatusService(statuses StatusRepository, rooms ChatRepository, notifier Notifier, logger *zap.Logger) *StatusService {
	return &StatusService{
		statuses: statuses,
		rooms:    rooms,
		notifier: notifier,
		logger:   logger,
	}
}

// Create posts a new status and announces it on the status feed channel.
func (s *StatusService) Create(ctx context.Context, userID uuid.UUID, statusType StatusType, url string) (*Status, error) {
	if url == "" {
		return nil, ErrValidation
	}
	if statusType == "" {
		statusType = StatusTypeVideo
	}
	if statusType != StatusTypeImage && statusType != StatusTypeVideo {
		return nil, ErrValidation
	}

	status, err := s.statuses.CreateStatus(ctx, userID, statusType, url)
	if err != nil {
		return nil, err
	}

	go s.notifier.Push(context.WithoutCancel(ctx), StatusFeedChannel, EventNewStatus, status)

	return status, nil
}

// View records that viewerID has seen the status. Authors cannot view their
// own statuses; repeated views are no-ops.
func (s *StatusService) View(ctx context.Context, viewerID, statusID uuid.UUID) error {
	status, err := s.statuses.GetStatusByID(ctx, statusID)
	if err != nil {
		return err
	}
	if status.UserID == viewerID {
		return ErrUnauthorized
	}
	return s.statuses.AddStatusView(ctx, statusID, viewerID)
}

// Feed returns the active statuses of everyone the viewer shares a chat
// room with, grouped per author.
func (s *StatusService) Feed(ctx context.Context, viewerID uuid.UUID) ([]*StatusFeedEntry, error) {
	partnerIDs, err := s.rooms.ChatPartnerIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	if len(partnerIDs) == 0 {
		return []*StatusFeedEntry{}, nil
	}
	return s.statuses.GetStatusFeed(ctx, viewerID, partnerIDs)
}

// StartExpiryWorker sweeps statuses past their TTL on a fixed interval
// until the context is cancelled.
func (s *StatusService) StartExpiryWorker(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				expired, err := s.statuses.ExpireStatuses(ctx, time.Now().Add(-StatusTTL))
				if err != nil {
					s.logger.Error("status expiry sweep failed", zap.Error(err))
					continue
				}
				if expired > 0 {
					s.logger.Info("expired statuses", zap.Int64("count", expired))
				}
			}
		}
	}()
}
