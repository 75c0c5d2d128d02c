package models

// DealStatus константы статусов сделки (итог переговоров).
const (
	DealStatusNew        = "new"
	DealStatusAccepted   = "accepted"
	DealStatusWaitlisted = "waitlisted"
	DealStatusRejected   = "rejected"
)

// WorkStatus константы статусов выполнения принятой сделки.
const (
	WorkStatusAccepted  = "accepted"
	WorkStatusOngoing   = "ongoing"
	WorkStatusCompleted = "completed"
)

// EventType константы событий жизненного цикла сделки.
const (
	EventNewRequest        = "NEW_REQUEST"
	EventRequestAccepted   = "REQUEST_ACCEPTED"
	EventRequestWaitlisted = "REQUEST_WAITLISTED"
	EventRequestRejected   = "REQUEST_REJECTED"
	EventStatusUpdate      = "STATUS_UPDATE"
	EventReviewReceived    = "REVIEW_RECEIVED"
)

// AdminAction константы видов административных действий.
const (
	AdminActionSuspendUser   = "SUSPEND_USER"
	AdminActionUnsuspendUser = "UNSUSPEND_USER"
	AdminActionFlagReview    = "FLAG_REVIEW"
	AdminActionUnflagReview  = "UNFLAG_REVIEW"
	AdminActionResolveReport = "RESOLVE_REPORT"
)

// Role константы ролей пользователей.
const (
	RoleCustomer = "customer"
	RoleWorker   = "worker"
	RoleAdmin    = "admin"
)

// ValidDealStatuses список валидных статусов сделки.
var ValidDealStatuses = map[string]struct{}{
	DealStatusNew:        {},
	DealStatusAccepted:   {},
	DealStatusWaitlisted: {},
	DealStatusRejected:   {},
}

// ValidWorkStatuses список валидных статусов выполнения.
var ValidWorkStatuses = map[string]struct{}{
	WorkStatusAccepted:  {},
	WorkStatusOngoing:   {},
	WorkStatusCompleted: {},
}

// ValidRoles список валидных ролей.
var ValidRoles = map[string]struct{}{
	RoleCustomer: {},
	RoleWorker:   {},
	RoleAdmin:    {},
}

// WorkStatusTransitions таблица допустимых переходов статуса выполнения.
// Выполнение движется только вперёд и не пропускает ongoing.
var WorkStatusTransitions = map[string][]string{
	WorkStatusAccepted:  {WorkStatusOngoing},
	WorkStatusOngoing:   {WorkStatusCompleted},
	WorkStatusCompleted: {},
}
