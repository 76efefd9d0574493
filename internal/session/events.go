package session

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// PermissionsUpdated is emitted after a save succeeds.
type PermissionsUpdated struct {
	StaffID       uuid.UUID
	PermissionIDs []int
}

type subscriber struct {
	id      int
	handler func(PermissionsUpdated)
}

// publish calls every handler; a panicking handler is logged and skipped.
func publish(log *logrus.Logger, subs []subscriber, evt PermissionsUpdated) {
	for _, sub := range subs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Errorf("session: permissions updated handler %d panicked: %v", sub.id, r)
				}
			}()
			sub.handler(evt)
		}()
	}
}
