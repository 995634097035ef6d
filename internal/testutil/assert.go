// Package testutil provides shared test helpers for swapchess: go-cmp based
// assertions and a scripted stand-in for a UCI engine process.
package testutil

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// AssertEqual compares got and want using cmp.Diff and reports differences.
// The msgAndArgs are optional and provide additional context if the assertion fails.
func AssertEqual(t testing.TB, got, want any, msgAndArgs ...any) {
	t.Helper()
	if diff := cmp.Diff(want, got); diff != "" {
		fail(t, fmt.Sprintf("mismatch (-want +got):\n%s", diff), msgAndArgs...)
	}
}

// AssertLines compares two protocol transcripts line by line.
func AssertLines(t testing.TB, got, want []string, msgAndArgs ...any) {
	t.Helper()
	if len(got) == 0 && len(want) == 0 {
		return
	}
	if diff := cmp.Diff(want, got); diff != "" {
		fail(t, fmt.Sprintf("transcript mismatch (-want +got):\n%s", diff), msgAndArgs...)
	}
}

// AssertNoError fails if err is not nil.
func AssertNoError(t testing.TB, err error, msgAndArgs ...any) {
	t.Helper()
	if err != nil {
		fail(t, fmt.Sprintf("unexpected error: %v", err), msgAndArgs...)
	}
}

// AssertError fails if err is nil when an error was expected.
func AssertError(t testing.TB, err error, msgAndArgs ...any) {
	t.Helper()
	if err == nil {
		fail(t, "expected error but got nil", msgAndArgs...)
	}
}

// AssertErrorIs fails unless errors.Is(err, target).
func AssertErrorIs(t testing.TB, err, target error, msgAndArgs ...any) {
	t.Helper()
	if !errors.Is(err, target) {
		fail(t, fmt.Sprintf("error %v is not %v", err, target), msgAndArgs...)
	}
}

// AssertContains fails if substr is not found in got.
func AssertContains(t testing.TB, got, substr string, msgAndArgs ...any) {
	t.Helper()
	if !strings.Contains(got, substr) {
		fail(t, fmt.Sprintf("%q does not contain %q", got, substr), msgAndArgs...)
	}
}

// AssertNotContains fails if substr is found in got.
func AssertNotContains(t testing.TB, got, substr string, msgAndArgs ...any) {
	t.Helper()
	if strings.Contains(got, substr) {
		fail(t, fmt.Sprintf("%q should not contain %q", got, substr), msgAndArgs...)
	}
}

// AssertTrue fails if condition is false.
func AssertTrue(t testing.TB, condition bool, msgAndArgs ...any) {
	t.Helper()
	if !condition {
		fail(t, "expected true but got false", msgAndArgs...)
	}
}

// AssertFalse fails if condition is true.
func AssertFalse(t testing.TB, condition bool, msgAndArgs ...any) {
	t.Helper()
	if condition {
		fail(t, "expected false but got true", msgAndArgs...)
	}
}

// AssertNil fails if got is not nil.
// It handles both untyped nil and typed nil (e.g., (*int)(nil)).
func AssertNil(t testing.TB, got any, msgAndArgs ...any) {
	t.Helper()
	if !isNil(got) {
		fail(t, fmt.Sprintf("expected nil but got %v", got), msgAndArgs...)
	}
}

// AssertNotNil fails if got is nil.
func AssertNotNil(t testing.TB, got any, msgAndArgs ...any) {
	t.Helper()
	if isNil(got) {
		fail(t, "expected non-nil value but got nil", msgAndArgs...)
	}
}

func fail(t testing.TB, problem string, msgAndArgs ...any) {
	t.Helper()
	if msg := formatMessage(msgAndArgs...); msg != "" {
		t.Errorf("%s: %s", msg, problem)
		return
	}
	t.Error(problem)
}

// isNil checks if a value is nil, handling both untyped and typed nils.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
		return rv.IsNil()
	}
	return false
}

// formatMessage formats optional message arguments into a string.
func formatMessage(msgAndArgs ...any) string {
	if len(msgAndArgs) == 0 {
		return ""
	}
	s, ok := msgAndArgs[0].(string)
	if !ok {
		return fmt.Sprintf("%v", msgAndArgs[0])
	}
	if len(msgAndArgs) == 1 {
		return s
	}
	return fmt.Sprintf(s, msgAndArgs[1:]...)
}
