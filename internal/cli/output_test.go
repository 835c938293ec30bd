package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitError(t *testing.T) {
	err := NewExitError(ExitFailure, "2 scenario(s) failed")
	assert.Equal(t, "2 scenario(s) failed", err.Error())
	assert.Equal(t, ExitFailure, GetExitCode(err))

	cause := errors.New("disk full")
	wrapped := WrapExitError(ExitCommandError, "record run", cause)
	assert.Equal(t, "record run: disk full", wrapped.Error())
	assert.True(t, errors.Is(wrapped, cause))
	assert.Equal(t, ExitCommandError, GetExitCode(wrapped))
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
}

func TestOutputFormatter_Error(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "text", Writer: &buf, Verbose: true}
	assert.NoError(t, f.Error(ErrCodeGeneric, "boom", "why"))
	assert.Equal(t, "Error [E001]: boom\nDetails: why\n", buf.String())

	buf.Reset()
	f.Format = "json"
	assert.NoError(t, f.Error(ErrCodeLoadFailed, "boom", nil))
	assert.JSONEq(t, `{"status":"error","error":{"code":"E_LOAD_FAILED","message":"boom"}}`, buf.String())
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	var out, diag bytes.Buffer
	f := &OutputFormatter{Writer: &out, ErrWriter: &diag}

	f.VerboseLog("hidden")
	assert.Empty(t, diag.String())

	f.Verbose = true
	f.VerboseLog("shown %d", 1)
	assert.Equal(t, "shown 1\n", diag.String())
	assert.Empty(t, out.String())
}
