package booking

import "errors"

var (
	ErrNotFound        = errors.New("booking request not found")
	ErrHotelNotFound   = errors.New("hotel not found")
	ErrNotPending      = errors.New("booking request is no longer pending")
	ErrNotOwner        = errors.New("booking request belongs to another hotel owner")
	ErrInvalidDecision = errors.New("decision must be Approved or Rejected")
	ErrInvalidStay     = errors.New("check-out must be after check-in")
)
