package errors

import (
	stderrors "errors"
	"testing"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(cause, ErrorTypeConnection, "failed to create client")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match its cause via errors.Is")
	}
	if got := err.Error(); got != "connection: failed to create client: connection refused" {
		t.Errorf("unexpected message: %q", got)
	}
	if len(err.Stack) == 0 {
		t.Error("expected a captured stack")
	}
}

func TestWrapNil(t *testing.T) {
	if Wrap(nil, ErrorTypeInternal, "ignored") != nil {
		t.Error("wrapping nil must return nil")
	}
}

func TestIsRetryable(t *testing.T) {
	if !IsRetryable(New(ErrorTypeConnection, "broken pipe")) {
		t.Error("connection errors are retryable")
	}
	if !IsRetryable(New(ErrorTypeTimeout, "deadline exceeded")) {
		t.Error("timeout errors are retryable")
	}
	if IsRetryable(New(ErrorTypeSubmission, "batch rejected")) {
		t.Error("submission errors are not retryable")
	}
	if IsRetryable(stderrors.New("plain")) {
		t.Error("plain errors are not retryable")
	}
}

func TestIsType(t *testing.T) {
	err := Wrap(New(ErrorTypeProvider, "init failed"), ErrorTypeSubmission, "run aborted")
	if !IsType(err, ErrorTypeSubmission) {
		t.Error("outermost type should win")
	}
	if IsType(stderrors.New("plain"), ErrorTypeSubmission) {
		t.Error("plain error has no type")
	}
}

func TestWithDetail(t *testing.T) {
	err := New(ErrorTypeSubmission, "batch failed").
		WithDetail("batch", 2).
		WithDetail("rows", 100)
	if err.Details["batch"] != 2 || err.Details["rows"] != 100 {
		t.Errorf("details not recorded: %v", err.Details)
	}
}
