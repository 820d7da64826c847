package constant

import "time"

const (
	TicketUnreadCountKey       = "ticket:%s:unread_count"
	NotificationUnreadCountKey = "notifications:unread_count"
	PortalSubmitLock           = "portal:submit_lock:%s"
)

const (
	PortalSubmitLockDefaultTTL = 30 * time.Second
)
