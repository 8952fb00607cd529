package notify

import "log"

// Notifier delivers one rendered alert to one user. Delivery guarantees
// (retry, ordering) belong to the implementation, not the check cycle.
type Notifier interface {
	Send(userID int64, text string) error
}

// LogNotifier writes alerts to the process log. Used when no delivery
// transport is configured.
type LogNotifier struct{}

// Send implements Notifier.
func (LogNotifier) Send(userID int64, text string) error {
	log.Printf("Alert for user %d:\n%s", userID, text)
	return nil
}
