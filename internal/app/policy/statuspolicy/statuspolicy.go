// internal/app/policy/statuspolicy/statuspolicy.go

// Package statuspolicy owns the two status machines in the system and is
// the single place transitions are validated. Stores persist whatever
// status they are handed; handlers must call a Check* function first.
//
// Job postings:    Open -> Closed | Filled (both terminal)
// Applications:    Pending -> Reviewed | Accepted | Rejected
//                  Reviewed -> Accepted | Rejected
//                  Accepted, Rejected terminal
//
// Status values are stored capitalized; comparisons here are exact.
package statuspolicy

import (
	"github.com/campusworks/placementhub/internal/app/system/apierr"
)

// Job posting statuses.
const (
	JobOpen   = "Open"
	JobClosed = "Closed"
	JobFilled = "Filled"
)

// Application statuses.
const (
	AppPending  = "Pending"
	AppReviewed = "Reviewed"
	AppAccepted = "Accepted"
	AppRejected = "Rejected"
)

var jobTransitions = map[string][]string{
	JobOpen:   {JobClosed, JobFilled},
	JobClosed: {},
	JobFilled: {},
}

var appTransitions = map[string][]string{
	AppPending:  {AppReviewed, AppAccepted, AppRejected},
	AppReviewed: {AppAccepted, AppRejected},
	AppAccepted: {},
	AppRejected: {},
}

// ValidJobStatus reports whether s is a known job posting status.
func ValidJobStatus(s string) bool {
	_, ok := jobTransitions[s]
	return ok
}

// ValidApplicationStatus reports whether s is a known application status.
func ValidApplicationStatus(s string) bool {
	_, ok := appTransitions[s]
	return ok
}

// JobTerminal reports whether a job posting status admits no further
// transitions.
func JobTerminal(s string) bool {
	next, ok := jobTransitions[s]
	return ok && len(next) == 0
}

// ApplicationTerminal reports whether an application status admits no
// further transitions.
func ApplicationTerminal(s string) bool {
	next, ok := appTransitions[s]
	return ok && len(next) == 0
}

func check(table map[string][]string, from, to string, what string) error {
	next, ok := table[from]
	if !ok {
		return apierr.New(apierr.IllegalTransition, "Unknown "+what+" status: "+from)
	}
	if _, ok := table[to]; !ok {
		return apierr.New(apierr.Validation, "Unknown "+what+" status: "+to)
	}
	for _, n := range next {
		if n == to {
			return nil
		}
	}
	return apierr.New(apierr.IllegalTransition, "Cannot change "+what+" status from "+from+" to "+to)
}

// CheckJobTransition validates a job posting status change. Returns an
// IllegalTransition error when the change is not allowed.
func CheckJobTransition(from, to string) error {
	return check(jobTransitions, from, to, "job")
}

// CheckApplicationTransition validates an application status change.
func CheckApplicationTransition(from, to string) error {
	return check(appTransitions, from, to, "application")
}
