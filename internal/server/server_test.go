package server

import (
	"context"
	"net/http"
	"testing"

	"github.com/iamrajpal/goodfood/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartRequiresSetup(t *testing.T) {
	logger := zerolog.Nop()
	s := &Server{Config: &config.Config{}, Logger: &logger}

	assert.EqualError(t, s.Start(), "HTTP server not initialized")
}

func TestSetupHTTPServerTimeouts(t *testing.T) {
	s := &Server{Config: &config.Config{Server: config.ServerConfig{
		Port:         "8080",
		ReadTimeout:  5,
		WriteTimeout: 10,
		IdleTimeout:  60,
	}}}
	s.SetupHTTPServer(http.NotFoundHandler())

	require.NotNil(t, s.httpServer)
	assert.Equal(t, ":8080", s.httpServer.Addr)
	assert.Equal(t, "5s", s.httpServer.ReadTimeout.String())
	assert.Equal(t, "1m0s", s.httpServer.IdleTimeout.String())
}

func TestShutdownWithoutDependencies(t *testing.T) {
	s := &Server{Config: &config.Config{}}
	assert.NoError(t, s.Shutdown(context.Background()))
}
