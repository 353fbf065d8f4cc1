package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zap.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zap.WarnLevel, ParseLevel(" warn "))
	assert.Equal(t, zap.InfoLevel, ParseLevel("nonsense"))
	assert.Equal(t, zap.InfoLevel, ParseLevel(""))
}

func TestSetAllAppliesToExistingAndNewLoggers(t *testing.T) {
	l := &levelSetter{levelers: make(map[string]zap.AtomicLevel), fallback: zap.InfoLevel}
	existing := l.levelFor("scanner")

	l.SetAll(zap.DebugLevel)
	assert.Equal(t, zap.DebugLevel, existing.Level())
	assert.Equal(t, zap.DebugLevel, l.levelFor("runner").Level())

	l.SetLevel("runner", zap.ErrorLevel)
	assert.Equal(t, zap.ErrorLevel, l.GetLevel("runner"))
	assert.Equal(t, zap.DebugLevel, l.GetLevel("never-created"))
}
