package enums

import "fmt"

// NotificationType classifies store-facing event flags.
type NotificationType string

const (
	NotificationTypeInfo  NotificationType = "info"
	NotificationTypeCart  NotificationType = "cart"
	NotificationTypeOrder NotificationType = "order"
	NotificationTypeChat  NotificationType = "chat"
)

var validNotificationTypes = []NotificationType{
	NotificationTypeInfo,
	NotificationTypeCart,
	NotificationTypeOrder,
	NotificationTypeChat,
}

// IsValid checks whether the given type matches the canonical enum.
func (n NotificationType) IsValid() bool {
	for _, candidate := range validNotificationTypes {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationType converts raw strings into NotificationType.
func ParseNotificationType(value string) (NotificationType, error) {
	for _, candidate := range validNotificationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification type %q", value)
}
