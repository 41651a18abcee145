package notification

import (
	"context"
	"fmt"

	emails "go-court/internal/email"
	"go-court/internal/features/cases"
	"go-court/internal/features/user"
	"go-court/internal/features/workflow"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type NotificationService interface {
	workflow.Notifier

	GetUserNotifications(ctx context.Context, userID primitive.ObjectID, page, limit int64) ([]Notification, int64, error)
	GetUnreadCount(ctx context.Context, userID primitive.ObjectID) (int64, error)
	MarkAsRead(ctx context.Context, id string, userID primitive.ObjectID) error
	MarkAllAsRead(ctx context.Context, userID primitive.ObjectID) error
}

type NotificationServiceImpl struct {
	Repo     NotificationRepository
	CaseRepo cases.CaseRepository
	UserRepo user.UserRepository
	Emails   *emails.Service
	Logger   *zap.Logger
}

func NewNotificationService(
	repo NotificationRepository,
	caseRepo cases.CaseRepository,
	userRepo user.UserRepository,
	emailService *emails.Service,
	logger *zap.Logger,
) NotificationService {
	return &NotificationServiceImpl{
		Repo:     repo,
		CaseRepo: caseRepo,
		UserRepo: userRepo,
		Emails:   emailService,
		Logger:   logger,
	}
}

// NotifyStatusChange emails the case contact and leaves in-app
// notifications for the assigned reviewer and signer.
func (s *NotificationServiceImpl) NotifyStatusChange(ctx context.Context, event workflow.StatusEvent) error {
	caseID, err := primitive.ObjectIDFromHex(event.CaseID)
	if err != nil {
		return err
	}
	c, err := s.CaseRepo.FindByID(ctx, caseID)
	if err != nil {
		return err
	}
	if c == nil {
		return nil
	}

	title, message := composeStatusChange(event)

	if c.ContactEmail != "" {
		mail := &emails.Email{
			To:         []string{c.ContactEmail},
			Subject:    title,
			HtmlBody:   fmt.Sprintf("<p>%s</p>", message),
			CaseNumber: event.CaseNumber,
		}
		if err := s.Emails.Send(ctx, mail); err != nil {
			s.Logger.Warn("status change email not queued",
				zap.String("case_number", event.CaseNumber),
				zap.Error(err))
		}
	}

	for _, email := range []string{c.ReviewerEmail, c.SignerEmail} {
		if email == "" {
			continue
		}
		usr, err := s.UserRepo.FindByEmail(ctx, email)
		if err != nil || usr == nil {
			continue
		}
		n := &Notification{
			UserID:     usr.ID,
			Title:      title,
			Message:    message,
			Type:       typeForStatus(event),
			CaseNumber: event.CaseNumber,
		}
		if err := s.Repo.Create(ctx, n); err != nil {
			s.Logger.Warn("in-app notification not stored",
				zap.String("case_number", event.CaseNumber),
				zap.Error(err))
		}
	}

	return nil
}

func composeStatusChange(event workflow.StatusEvent) (string, string) {
	if event.StepName != "" {
		title := fmt.Sprintf("Case %s: %s is %s", event.CaseNumber, event.StepName, event.StepStatus)
		message := title
		if event.Reason != "" {
			message = fmt.Sprintf("%s. Reason: %s", title, event.Reason)
		}
		return title, message
	}
	title := fmt.Sprintf("Case %s is now %s", event.CaseNumber, event.CaseStatus)
	return title, title
}

func typeForStatus(event workflow.StatusEvent) NotificationType {
	switch {
	case event.StepStatus == string(workflow.StatusRejected):
		return NotificationTypeError
	case event.StepStatus == string(workflow.StatusCompleted):
		return NotificationTypeSuccess
	default:
		return NotificationTypeInfo
	}
}

func (s *NotificationServiceImpl) GetUserNotifications(ctx context.Context, userID primitive.ObjectID, page, limit int64) ([]Notification, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return s.Repo.ListByUser(ctx, userID, page, limit)
}

func (s *NotificationServiceImpl) GetUnreadCount(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.Repo.CountUnread(ctx, userID)
}

func (s *NotificationServiceImpl) MarkAsRead(ctx context.Context, id string, userID primitive.ObjectID) error {
	return s.Repo.MarkAsRead(ctx, id, userID)
}

func (s *NotificationServiceImpl) MarkAllAsRead(ctx context.Context, userID primitive.ObjectID) error {
	return s.Repo.MarkAllAsRead(ctx, userID)
}
