package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestRequestErrorMatchesSentinel(t *testing.T) {
	t.Parallel()
	cases := []*RequestError{
		NewStatusError("ban user", 500, []byte("boom")),
		NewNetworkError("ban user", context.DeadlineExceeded),
		NewDecodeError("ban user", fmt.Errorf("unexpected EOF")),
	}
	for _, e := range cases {
		if !stderrors.Is(e, ErrRequestFailed) {
			t.Fatalf("%v does not match ErrRequestFailed", e)
		}
		wrapped := fmt.Errorf("outer: %w", e)
		if !stderrors.Is(wrapped, ErrRequestFailed) {
			t.Fatalf("wrapped %v does not match ErrRequestFailed", e)
		}
	}
}

func TestNetworkErrorUnwraps(t *testing.T) {
	t.Parallel()
	err := NewNetworkError("get messages", context.Canceled)
	if !stderrors.Is(err, context.Canceled) {
		t.Fatalf("expected underlying context.Canceled, got %v", err)
	}
	if StatusCode(err) != 0 {
		t.Fatalf("network error should have status 0")
	}
}

func TestStatusErrorMessageAndTruncation(t *testing.T) {
	t.Parallel()
	long := strings.Repeat("x", 2000)
	err := NewStatusError("upload file", 413, []byte(long))
	if len(err.Body) != maxBodyInError {
		t.Fatalf("body not truncated: %d", len(err.Body))
	}
	if StatusCode(fmt.Errorf("wrap: %w", err)) != 413 {
		t.Fatalf("expected status 413")
	}
	if got := NewStatusError("promote user", 404, nil).Error(); got != "promote user: status 404" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestReasonString(t *testing.T) {
	t.Parallel()
	want := map[Reason]string{
		ReasonNetwork: "network_error",
		ReasonStatus:  "http_error",
		ReasonDecode:  "decode_error",
		Reason(42):    "unknown(42)",
	}
	for r, s := range want {
		if r.String() != s {
			t.Fatalf("Reason(%d).String() = %q, want %q", int(r), r.String(), s)
		}
	}
}
