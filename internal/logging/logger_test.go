package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"gopkg.in/natefinch/lumberjack.v2"
)

func TestGetLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, GetLevel("debug"))
	assert.Equal(t, logrus.ErrorLevel, GetLevel("ERROR"))
	assert.Equal(t, logrus.WarnLevel, GetLevel("warn"))
	assert.Equal(t, logrus.TraceLevel, GetLevel("trace"))
	assert.Equal(t, logrus.TraceLevel, GetLevel("no-such-level"))
}

func TestSetup_logsToFile(t *testing.T) {
	defer logrus.SetOutput(os.Stdout)

	Setup(LoggerSetupParams{
		LogFileName: filepath.Join(t.TempDir(), "service.log"),
		LogLevel:    "debug",
	})

	_, isLumberjack := logrus.StandardLogger().Out.(*lumberjack.Logger)
	assert.True(t, isLumberjack)
}

func TestSetup_missingLogsDirFallsBackToStdout(t *testing.T) {
	defer logrus.SetOutput(os.Stdout)

	Setup(LoggerSetupParams{
		LogFileName: "/nonexistent-logs-dir/service.log",
		LogLevel:    "debug",
	})

	assert.Equal(t, os.Stdout, logrus.StandardLogger().Out)
}
