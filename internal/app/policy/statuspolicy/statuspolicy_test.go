package statuspolicy

import (
	"testing"

	"github.com/campusworks/placementhub/internal/app/system/apierr"
)

func TestCheckJobTransition(t *testing.T) {
	tests := []struct {
		from, to string
		wantKind apierr.Kind // 0 means allowed
	}{
		{JobOpen, JobClosed, 0},
		{JobOpen, JobFilled, 0},
		{JobClosed, JobOpen, apierr.IllegalTransition},
		{JobClosed, JobFilled, apierr.IllegalTransition},
		{JobFilled, JobOpen, apierr.IllegalTransition},
		{JobFilled, JobClosed, apierr.IllegalTransition},
		{JobOpen, JobOpen, apierr.IllegalTransition},
		{JobOpen, "Paused", apierr.Validation},
		{"Paused", JobClosed, apierr.IllegalTransition},
	}
	for _, tt := range tests {
		err := CheckJobTransition(tt.from, tt.to)
		if tt.wantKind == 0 {
			if err != nil {
				t.Errorf("CheckJobTransition(%s, %s) = %v, want nil", tt.from, tt.to, err)
			}
			continue
		}
		if !apierr.IsKind(err, tt.wantKind) {
			t.Errorf("CheckJobTransition(%s, %s) = %v, want kind %v", tt.from, tt.to, err, tt.wantKind)
		}
	}
}

func TestCheckApplicationTransition(t *testing.T) {
	tests := []struct {
		from, to string
		wantKind apierr.Kind
	}{
		{AppPending, AppReviewed, 0},
		{AppPending, AppAccepted, 0},
		{AppPending, AppRejected, 0},
		{AppReviewed, AppAccepted, 0},
		{AppReviewed, AppRejected, 0},
		{AppReviewed, AppPending, apierr.IllegalTransition},
		{AppAccepted, AppRejected, apierr.IllegalTransition},
		{AppAccepted, AppPending, apierr.IllegalTransition},
		{AppRejected, AppAccepted, apierr.IllegalTransition},
		{AppPending, AppPending, apierr.IllegalTransition},
		{AppPending, "Archived", apierr.Validation},
	}
	for _, tt := range tests {
		err := CheckApplicationTransition(tt.from, tt.to)
		if tt.wantKind == 0 {
			if err != nil {
				t.Errorf("CheckApplicationTransition(%s, %s) = %v, want nil", tt.from, tt.to, err)
			}
			continue
		}
		if !apierr.IsKind(err, tt.wantKind) {
			t.Errorf("CheckApplicationTransition(%s, %s) = %v, want kind %v", tt.from, tt.to, err, tt.wantKind)
		}
	}
}

func TestTerminal(t *testing.T) {
	for _, s := range []string{JobClosed, JobFilled} {
		if !JobTerminal(s) {
			t.Errorf("JobTerminal(%s) = false, want true", s)
		}
	}
	if JobTerminal(JobOpen) {
		t.Error("JobTerminal(Open) = true, want false")
	}
	for _, s := range []string{AppAccepted, AppRejected} {
		if !ApplicationTerminal(s) {
			t.Errorf("ApplicationTerminal(%s) = false, want true", s)
		}
	}
	for _, s := range []string{AppPending, AppReviewed} {
		if ApplicationTerminal(s) {
			t.Errorf("ApplicationTerminal(%s) = true, want false", s)
		}
	}
	if JobTerminal("Paused") {
		t.Error("JobTerminal of unknown status = true, want false")
	}
}
