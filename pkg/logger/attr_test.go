package logger_test

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/togglekit/pkg/logger"
)

func TestError(t *testing.T) {
	assert.True(t, logger.Error(nil).Equal(slog.Attr{}))
	attr := logger.Error(errors.New("boom"))
	assert.Equal(t, "error", attr.Key)
	assert.Equal(t, "boom", attr.Value.Any().(error).Error())
}

func TestErrors(t *testing.T) {
	assert.True(t, logger.Errors(nil, nil).Equal(slog.Attr{}))

	attr := logger.Errors(errors.New("a"), nil, errors.New("c"))
	require.Equal(t, "errors", attr.Key)
	group := attr.Value.Group()
	require.Len(t, group, 2)
	assert.Equal(t, "0", group[0].Key)
	assert.Equal(t, "2", group[1].Key)
}

func TestDomainAttrs(t *testing.T) {
	tests := []struct {
		name string
		got  slog.Attr
		want slog.Attr
	}{
		{"feature", logger.Feature("Flight"), slog.String("feature", "Flight")},
		{"phase", logger.Phase("enable"), slog.String("phase", "enable")},
		{"component", logger.Component("api"), slog.String("component", "api")},
		{"driver", logger.Driver("redis"), slog.String("driver", "redis")},
		{"note", logger.Note("x"), slog.String("note", "x")},
		{"empty note", logger.Note(""), slog.Attr{}},
		{"nil fault id", logger.FaultID(nil), slog.Attr{}},
		{"fault id", logger.FaultID("abc"), slog.Any("fault_id", "abc")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(tt.got), "got %v", tt.got)
		})
	}

	assert.Equal(t, "features", logger.Features([]string{"a"}).Key)
}
