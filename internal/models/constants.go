package models

const (
	StatusWaiting  = "WAITING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
	// StatusCanceled is kept in the enum for compatibility: no transition
	// produces it, only the REJECTED bucket query matches it.
	StatusCanceled = "CANCELED"
)

// Bucket modes for the booking list queries.
const (
	BucketAll      = "ALL"
	BucketCurrent  = "CURRENT"
	BucketPast     = "PAST"
	BucketFuture   = "FUTURE"
	BucketWaiting  = "WAITING"
	BucketRejected = "REJECTED"
)

const (
	// WorkerQueueSize размер очереди аудит-воркера
	WorkerQueueSize = 1000

	// DefaultCacheTTL время жизни кэша пользователей (секунды)
	DefaultCacheTTL = 30 * 60
)
