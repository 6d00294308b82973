package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_FieldsAndLevels(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := NewZapAdapter(zap.New(core))

	log.WithFields(map[string]interface{}{"agent": "salario_maternidade"}).
		Warn("agent re-registered", map[string]interface{}{"count": 2})
	log.WithError(errors.New("boom")).Error("generation failed", nil)

	entries := logs.All()
	assert.Len(t, entries, 2)
	assert.Equal(t, "agent re-registered", entries[0].Message)
	assert.Equal(t, "salario_maternidade", entries[0].ContextMap()["agent"])
	assert.EqualValues(t, 2, entries[0].ContextMap()["count"])
	assert.Equal(t, "boom", entries[1].ContextMap()["error"])
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))

	l := NewNoOpLogger()
	assert.Same(t, l, OrNop(l))
}

func TestNew_UnknownLevelDefaultsToInfo(t *testing.T) {
	l := New("verbose", "json")
	assert.False(t, l.Core().Enabled(zap.DebugLevel))
	assert.True(t, l.Core().Enabled(zap.InfoLevel))
}
