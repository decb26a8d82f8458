package services

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/soundrift/soundrift-moderation/internal/models"
	"github.com/soundrift/soundrift-moderation/internal/repository"
)

// NotificationService writes notification rows. Delivery transport belongs
// to the platform notification pipeline; this service only constructs the
// payload.
type NotificationService struct {
	notifications repository.Notifications
}

func NewNotificationService(store *repository.Store) *NotificationService {
	return &NotificationService{notifications: store.Notifications}
}

func (s *NotificationService) Deliver(userID uuid.UUID, content NotificationContent, data datatypes.JSON) error {
	if data == nil {
		data = datatypes.JSON([]byte("{}"))
	}
	return s.notifications.Create(&models.Notification{
		UserID:   userID,
		Type:     content.Type,
		Title:    content.Title,
		Message:  content.Message,
		Priority: content.Priority,
		Data:     data,
	})
}
