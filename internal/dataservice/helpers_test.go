package dataservice

import (
	"testing"
	"time"

	"grievance-portal/internal/app"
	"grievance-portal/internal/config"
	"grievance-portal/internal/repository/memory"
	"grievance-portal/internal/upload"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func testConfig() config.Config {
	return config.Config{
		Env:           "dev",
		SessionSecret: "test-secret",
		TokenTTL:      time.Hour,
		Origin:        "http://localhost:3000",
		PublicURL:     "http://portal.test",
	}
}

func newServices(t *testing.T) *app.Services {
	t.Helper()
	store, err := memory.NewSeeded()
	require.NoError(t, err)
	files, err := upload.NewDiskStore(t.TempDir(), "http://portal.test", 0)
	require.NoError(t, err)
	repos := app.Repositories{
		Grievances:  store.Grievances(),
		Users:       store.Users(),
		Departments: store.Departments(),
	}
	return app.NewServices(repos, files, testConfig(), zerolog.Nop())
}
