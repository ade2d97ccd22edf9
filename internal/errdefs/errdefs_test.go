package errdefs

import (
	"errors"
	"fmt"
	"testing"
)

var errTest = errors.New("this is a test")

type causal interface {
	Cause() error
}

func TestNotFound(t *testing.T) {
	if IsNotFound(errTest) {
		t.Fatalf("did not expect not found error, got %T", errTest)
	}
	e := NotFound(errTest)
	if !IsNotFound(e) {
		t.Fatalf("expected not found error, got: %T", e)
	}
	if cause := e.(causal).Cause(); cause != errTest {
		t.Fatalf("cause should be errTest, got: %v", cause)
	}
	if !errors.Is(e, errTest) {
		t.Fatalf("expected not found error to match errTest")
	}

	wrapped := fmt.Errorf("foo: %w", e)
	if !IsNotFound(wrapped) {
		t.Fatalf("expected not found error, got: %T", wrapped)
	}
}

func TestAlreadyActive(t *testing.T) {
	if IsAlreadyActive(errTest) {
		t.Fatalf("did not expect already-active error, got %T", errTest)
	}
	e := AlreadyActive(errTest)
	if !IsAlreadyActive(e) {
		t.Fatalf("expected already-active error, got: %T", e)
	}
	wrapped := fmt.Errorf("activate eth0: %w", e)
	if !IsAlreadyActive(wrapped) {
		t.Fatalf("expected already-active error, got: %T", wrapped)
	}
	if IsNotFound(wrapped) {
		t.Fatalf("did not expect not-found classification for already-active error")
	}
}

func TestInvalidParameter(t *testing.T) {
	e := InvalidParameter(errTest)
	if !IsInvalidParameter(e) {
		t.Fatalf("expected invalid parameter error, got %T", e)
	}
	if !errors.Is(e, errTest) {
		t.Fatalf("expected invalid parameter error to match errTest")
	}
}

func TestEachKindIsDistinct(t *testing.T) {
	kinds := []struct {
		name string
		wrap func(error) error
		is   func(error) bool
	}{
		{"InvalidParameter", InvalidParameter, IsInvalidParameter},
		{"NotFound", NotFound, IsNotFound},
		{"AlreadyExists", AlreadyExists, IsAlreadyExists},
		{"AlreadyActive", AlreadyActive, IsAlreadyActive},
		{"PermissionDenied", PermissionDenied, IsPermissionDenied},
		{"CommandFailed", CommandFailed, IsCommandFailed},
		{"ServiceError", ServiceError, IsServiceError},
		{"ConnectionFailed", ConnectionFailed, IsConnectionFailed},
		{"Timeout", Timeout, IsTimeout},
		{"ParseError", ParseError, IsParseError},
		{"InvalidState", InvalidState, IsInvalidState},
		{"NotSupported", NotSupported, IsNotSupported},
		{"IO", IO, IsIO},
		{"ConfigError", ConfigError, IsConfigError},
	}

	for _, outer := range kinds {
		e := outer.wrap(errTest)
		for _, inner := range kinds {
			got := inner.is(e)
			want := inner.name == outer.name
			if got != want {
				t.Errorf("%s(err) classified as %s = %v, want %v", outer.name, inner.name, got, want)
			}
		}
	}
}

func TestNilWrapReturnsNil(t *testing.T) {
	if NotFound(nil) != nil {
		t.Fatalf("wrapping nil should return nil")
	}
}
