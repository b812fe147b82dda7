package models

import "strings"

const (
	StatusWaiting  = "WAITING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
	StatusCanceled = "CANCELED"
)

// Listing filter tokens. Status tokens double as filters; the
// temporal ones are computed against "now" at query time.
const (
	FilterAll     = "ALL"
	FilterCurrent = "CURRENT"
	FilterPast    = "PAST"
	FilterFuture  = "FUTURE"
)

const (
	// DefaultPageSize applies when a listing request carries no size.
	DefaultPageSize = 10
)

// NormalizeFilter upper-cases a state filter token and reports whether
// it is one of the recognized values. An empty token means ALL.
func NormalizeFilter(raw string) (string, bool) {
	token := strings.ToUpper(strings.TrimSpace(raw))
	switch token {
	case "":
		return FilterAll, true
	case FilterAll, FilterCurrent, FilterPast, FilterFuture,
		StatusWaiting, StatusApproved, StatusRejected, StatusCanceled:
		return token, true
	default:
		return token, false
	}
}
