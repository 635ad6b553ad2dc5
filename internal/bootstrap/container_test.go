package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"kovil/internal/domain"
	"kovil/internal/infra"
)

func memoryConfig(t *testing.T) *infra.Config {
	t.Helper()
	return &infra.Config{
		AppEnv:            "test",
		StorageDriver:     infra.StorageDriverMemory,
		SessionSecret:     "secret",
		SessionTTL:        time.Hour,
		Location:          time.UTC,
		DefaultLocale:     "en",
		DashboardCacheTTL: time.Minute,
		ImportMaxBytes:    1 << 20,
		AdminSeeds:        []infra.AdminSeed{{Username: "templeadmin", Password: "Kovil@2024", Role: "superadmin"}},
	}
}

func TestNewMemoryContainer(t *testing.T) {
	ctx := context.Background()
	c, err := New(ctx, memoryConfig(t), zerolog.Nop())
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	defer c.Close()

	admin, err := c.Credentials.Validate(ctx, "templeadmin", "Kovil@2024")
	if err != nil {
		t.Fatalf("seeded admin should log in: %v", err)
	}
	if admin.Role != domain.AdminRoleSuperAdmin {
		t.Fatalf("role = %s", admin.Role)
	}

	no, year, err := c.Receipts.NextForNow(ctx)
	if err != nil || no == "" || year == 0 {
		t.Fatalf("next receipt: %q %d %v", no, year, err)
	}

	app := c.App()
	if app.Sessions == nil || app.Donations != c.Donations {
		t.Fatalf("app not wired: %+v", app)
	}
}

func TestArchivesFromConfig(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.AdminSeeds = nil
	c, err := New(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	defer c.Close()

	sinks, err := c.Archives(context.Background(), "", "")
	if err != nil || len(sinks) != 0 {
		t.Fatalf("expected no sinks: %v %v", sinks, err)
	}
	sinks, err = c.Archives(context.Background(), t.TempDir(), "")
	if err != nil || len(sinks) != 1 {
		t.Fatalf("expected file sink: %v %v", sinks, err)
	}
}
