package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shestoi/paygate/internal/config"
	platformkafka "github.com/shestoi/paygate/platform/kafka"
)

func testConfig() config.Config {
	return config.Config{
		AppEnv:            config.EnvLocal,
		HTTPAddr:          "127.0.0.1:0",
		BankBaseURL:       "http://127.0.0.1:8081",
		BankTimeout:       time.Second,
		ShutdownTimeout:   time.Second,
		LogLevel:          "error",
		OTelSamplingRatio: 1,
		Kafka:             platformkafka.DefaultConfig(),
	}
}

func TestBuild(t *testing.T) {
	application, err := Build(testConfig())
	require.NoError(t, err)
	require.NotNil(t, application.httpServer)
	require.Equal(t, "127.0.0.1:0", application.httpServer.Addr)
	require.Greater(t, application.httpServer.WriteTimeout, time.Second)
	require.True(t, application.readiness.Ready())

	// shutdown переводит health в not ready
	application.shutdownMgr.Shutdown()
	require.False(t, application.readiness.Ready())
}

func TestBuild_WithPaymentEvents(t *testing.T) {
	cfg := testConfig()
	cfg.PaymentEventsEnabled = true

	// kafka.Writer подключается лениво, брокер для Build не нужен
	application, err := Build(cfg)
	require.NoError(t, err)

	application.shutdownMgr.Shutdown()
}

func TestBuild_InvalidLogLevel(t *testing.T) {
	cfg := testConfig()
	cfg.LogLevel = "verbose"

	_, err := Build(cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "app.Build")
}
