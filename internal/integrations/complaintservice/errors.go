package complaintservice

import "errors"

var (
	// ErrComplaintNotFound рекламация не найдена
	ErrComplaintNotFound = errors.New("complaintservice: complaint not found")
)
