package services

import (
	"errors"
	"strings"
	"testing"
)

func TestWrapTagsMarker(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ErrExternalService, "pollinations", "generate", "image request", cause)

	if !errors.Is(err, ErrExternalService) {
		t.Fatalf("marker lost: %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("cause lost: %v", err)
	}
	for _, fragment := range []string{"pollinations", "generate", "image request", "connection refused"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Fatalf("error %q missing %q", err.Error(), fragment)
		}
	}
}

func TestWrapWithoutCause(t *testing.T) {
	err := Wrap(ErrValidation, "gemini", "describe", "title required", nil)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("marker lost: %v", err)
	}
	if !strings.Contains(err.Error(), "title required") {
		t.Fatalf("error = %v", err)
	}
}

func TestWrapNilMarkerDefaultsToTransient(t *testing.T) {
	err := Wrap(nil, "", "", "", errors.New("boom"))
	if !errors.Is(err, ErrTransient) {
		t.Fatalf("expected transient marker: %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("error = %v", err)
	}
}
