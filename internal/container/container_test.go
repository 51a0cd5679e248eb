package container

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-city-info-api/app/mail"
	"github.com/FACorreiaa/go-city-info-api/config"
	"github.com/FACorreiaa/go-city-info-api/internal/repository"
	"github.com/FACorreiaa/go-city-info-api/internal/router"
)

func memoryConfig() *config.Config {
	var cfg config.Config
	cfg.Mode = config.ModeDevelopment
	cfg.Storage.Driver = config.StorageMemory
	cfg.Cache.CitiesTTL = time.Minute
	cfg.Mail.Timeout = time.Second
	return &cfg
}

func TestNewContainer_Memory(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	c, err := NewContainer(context.Background(), memoryConfig(), logger, nil)
	require.NoError(t, err)
	defer c.Close()

	assert.Nil(t, c.Pool)
	assert.IsType(t, &repository.CachedProvider{}, c.Repositories)
	assert.IsType(t, &mail.LocalMailService{}, c.Mailer)

	rec := httptest.NewRecorder()
	router.SetupRouter(c.RouterConfig()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cities/1/pointsofinterest", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNewContainer_UnknownStorage(t *testing.T) {
	cfg := memoryConfig()
	cfg.Storage.Driver = "mysql"

	_, err := NewContainer(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
	assert.ErrorContains(t, err, "unknown storage driver")
}
