package errors_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/agentstation/riftsync/pkg/errors"
)

func TestValidationError(t *testing.T) {
	err := pkgerrors.NewValidationError("page_size", 0, "must be positive")
	assert.Equal(t, "invalid page_size: must be positive", err.Error())
	assert.True(t, errors.Is(err, pkgerrors.ErrInvalidInput))

	noField := &pkgerrors.ValidationError{Message: "empty"}
	assert.Equal(t, "invalid value: empty", noField.Error())
	assert.True(t, pkgerrors.IsValidationError(noField))

	wrapped := pkgerrors.WrapValidation("workers", errors.New("must be >= 1"))
	assert.True(t, pkgerrors.IsValidationError(wrapped))
	assert.Equal(t, "invalid workers: must be >= 1", wrapped.Error())
}

func TestAPIError(t *testing.T) {
	tests := []struct {
		name        string
		err         *pkgerrors.APIError
		want        string
		limited     bool
		unavailable bool
	}{
		{
			name:    "throttled",
			err:     pkgerrors.NewAPIError("catalog", 429, "slow down"),
			want:    "catalog returned 429: slow down",
			limited: true,
		},
		{
			name:        "server error",
			err:         pkgerrors.NewAPIError("catalog", 503, "maintenance"),
			want:        "catalog returned 503: maintenance",
			unavailable: true,
		},
		{
			name: "not found",
			err:  pkgerrors.NewAPIError("asset", 404, "missing"),
			want: "asset returned 404: missing",
		},
		{
			name: "transport failure",
			err:  &pkgerrors.APIError{Source: "asset", Message: "connection reset"},
			want: "asset request failed: connection reset",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
			assert.Equal(t, tt.limited, pkgerrors.IsRateLimited(tt.err))
			assert.Equal(t, tt.unavailable, pkgerrors.IsSourceUnavailable(tt.err))
		})
	}

	base := errors.New("connection reset")
	assert.ErrorIs(t, &pkgerrors.APIError{Source: "asset", Err: base}, base)
	assert.True(t, pkgerrors.IsSourceUnavailable(pkgerrors.WrapAPI("catalog", 502, errors.New("bad gateway"))))
}

func TestFetchError(t *testing.T) {
	base := pkgerrors.NewAPIError("catalog", 500, "boom")
	err := pkgerrors.NewFetchError(4, "https://api.example.com/cards?page=4&size=100", base)

	assert.Contains(t, err.Error(), "fetch page 4")
	assert.True(t, pkgerrors.IsFetchError(err))
	assert.True(t, pkgerrors.IsSourceUnavailable(err))

	wrapped := pkgerrors.WrapResource("sync", "catalog", "", err)
	assert.True(t, pkgerrors.IsFetchError(wrapped))
	assert.False(t, pkgerrors.IsFetchError(base))
}

func TestConfigError(t *testing.T) {
	base := errors.New("no such file")
	err := pkgerrors.NewConfigError("file", "reading riftsync.yaml", base)
	assert.Equal(t, "config file: reading riftsync.yaml", err.Error())
	assert.ErrorIs(t, err, base)

	assert.Equal(t, "config: missing", (&pkgerrors.ConfigError{Message: "missing"}).Error())
}

func TestIOError(t *testing.T) {
	base := errors.New("disk full")
	err := pkgerrors.WrapIO("write", "cards_png/SET1-001.png", base)

	var ioErr *pkgerrors.IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "write", ioErr.Operation)
	assert.Equal(t, "write cards_png/SET1-001.png: disk full", err.Error())
	assert.ErrorIs(t, err, base)

	assert.Equal(t, "read cards.txt: unknown error", (&pkgerrors.IOError{Operation: "read", Path: "cards.txt"}).Error())
}

func TestParseError(t *testing.T) {
	assert.Equal(t, "parse json cards.txt: truncated",
		pkgerrors.NewParseError("json", "cards.txt", "truncated", nil).Error())
	assert.Equal(t, "parse json: EOF",
		pkgerrors.WrapParse("json", "", errors.New("EOF")).Error())
}

func TestResourceError(t *testing.T) {
	err := pkgerrors.NewResourceError("download", "asset", "SET1-001", errors.New("404"))
	assert.Equal(t, "download asset SET1-001: 404", err.Error())

	noID := pkgerrors.NewResourceError("load", "snapshot", "", errors.New("bad shape"))
	assert.Equal(t, "load snapshot: bad shape", noID.Error())
}

func TestWrapHelpersPassNil(t *testing.T) {
	assert.Nil(t, pkgerrors.WrapValidation("field", nil))
	assert.Nil(t, pkgerrors.WrapIO("read", "file", nil))
	assert.Nil(t, pkgerrors.WrapResource("load", "snapshot", "", nil))
	assert.Nil(t, pkgerrors.WrapParse("json", "file", nil))
	assert.Nil(t, pkgerrors.WrapAPI("catalog", 500, nil))
}

func TestSentinels(t *testing.T) {
	assert.Equal(t, "test error", pkgerrors.New("test error").Error())
	assert.True(t, pkgerrors.IsTimeout(pkgerrors.ErrTimeout))
	assert.True(t, pkgerrors.IsCanceled(pkgerrors.Join(errors.New("x"), pkgerrors.ErrCanceled)))
}
