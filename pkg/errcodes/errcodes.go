package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	TimeoutExceeded     failure.ErrorCode = "TimeoutExceeded"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"
	Forbidden           failure.ErrorCode = "Forbidden"

	DealNotFound       failure.ErrorCode = "DealNotFound"
	DuplicateDealID    failure.ErrorCode = "DuplicateDealID"
	InvalidDealID      failure.ErrorCode = "InvalidDealID"
	InvalidDeal        failure.ErrorCode = "InvalidDeal"
	InvalidQuery       failure.ErrorCode = "InvalidQuery"
	SnapshotLoadFailed failure.ErrorCode = "SnapshotLoadFailed"
	SnapshotSaveFailed failure.ErrorCode = "SnapshotSaveFailed"
	ReminderEnqueue    failure.ErrorCode = "ReminderEnqueue"
)
