// pkg/errors/errors_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test error creation, wrapping, and utility functions

package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/arthur-debert/hangar/pkg/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "no_mods_error",
			code:    errors.ErrNoMods,
			message: "no mods found in archive",
			wantStr: "[NO_MODS] no mods found in archive",
		},
		{
			name:    "access_error",
			code:    errors.ErrAccess,
			message: "permission could not be repaired",
			wantStr: "[ACCESS] permission could not be repaired",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)

			if err.Code != tt.code {
				t.Errorf("New() code = %v, want %v", err.Code, tt.code)
			}

			if err.Message != tt.message {
				t.Errorf("New() message = %q, want %q", err.Message, tt.message)
			}

			if err.Details == nil {
				t.Error("New() details should be initialized")
			}

			if got := err.Error(); got != tt.wantStr {
				t.Errorf("Error() = %q, want %q", got, tt.wantStr)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("underlying failure")

	err := errors.Wrap(cause, errors.ErrExtraction, "failed to extract archive")
	if err == nil {
		t.Fatal("Wrap() returned nil for non-nil cause")
	}

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match the cause via errors.Is")
	}

	if got := err.Error(); got != "[EXTRACTION] failed to extract archive: underlying failure" {
		t.Errorf("Error() = %q", got)
	}

	if errors.Wrap(nil, errors.ErrExtraction, "ignored") != nil {
		t.Error("Wrap(nil, ...) should return nil")
	}
}

func TestIsErrorCode(t *testing.T) {
	err := errors.Newf(errors.ErrNoManifest, "manifest.json missing in %s", "/mods/MyLiveries")

	if !errors.IsErrorCode(err, errors.ErrNoManifest) {
		t.Error("IsErrorCode() should match the original code")
	}

	if errors.IsErrorCode(err, errors.ErrNoLayout) {
		t.Error("IsErrorCode() should not match a different code")
	}

	wrapped := errors.Wrap(err, errors.ErrInternal, "listing failed")
	if errors.GetErrorCode(wrapped) != errors.ErrInternal {
		t.Error("GetErrorCode() should return the outermost code")
	}

	if errors.GetErrorCode(stderrors.New("plain")) != errors.ErrUnknown {
		t.Error("GetErrorCode() on a plain error should return ErrUnknown")
	}
}

func TestWithDetail(t *testing.T) {
	err := errors.New(errors.ErrAccess, "cannot delete folder").
		WithDetail("path", "/packages/Community/MyLiveries")

	details := errors.GetErrorDetails(err)
	if details == nil {
		t.Fatal("GetErrorDetails() returned nil")
	}

	if details["path"] != "/packages/Community/MyLiveries" {
		t.Errorf("detail path = %v", details["path"])
	}
}
