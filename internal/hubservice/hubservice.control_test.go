// FilePath: internal/hubservice/hubservice.control_test.go
package hubservice

import (
	"context"
	"testing"

	"github.com/luzhub/luzhub/internal/errors"
	"github.com/luzhub/luzhub/internal/models"
)

func TestSetLightForcesManualMode(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	mustPush(t, svc, "mod-1", "ok", 100)

	if err := svc.SetLight(ctx, "mod-1", LightOn); err != nil {
		t.Fatalf("SetLight(on) error = %v", err)
	}
	module, err := svc.GetModule(ctx, "mod-1")
	if err != nil {
		t.Fatalf("GetModule() error = %v", err)
	}
	if !module.RelayOn || module.AutoMode {
		t.Errorf("after on: relay=%t auto=%t, want relay=true auto=false",
			module.RelayOn, module.AutoMode)
	}

	// "auto" re-enables threshold control without touching the relay.
	if err := svc.SetLight(ctx, "mod-1", LightAuto); err != nil {
		t.Fatalf("SetLight(auto) error = %v", err)
	}
	module, err = svc.GetModule(ctx, "mod-1")
	if err != nil {
		t.Fatalf("GetModule() error = %v", err)
	}
	if !module.RelayOn || !module.AutoMode {
		t.Errorf("after auto: relay=%t auto=%t, want relay=true auto=true",
			module.RelayOn, module.AutoMode)
	}
}

func TestSetLightToggle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	mustPush(t, svc, "mod-1", "ok", 100)

	if err := svc.SetLight(ctx, "mod-1", LightToggle); err != nil {
		t.Fatalf("SetLight(toggle) error = %v", err)
	}
	module, _ := svc.GetModule(ctx, "mod-1")
	if !module.RelayOn {
		t.Fatalf("first toggle: relay = false, want true")
	}

	if err := svc.SetLight(ctx, "mod-1", LightToggle); err != nil {
		t.Fatalf("SetLight(toggle) error = %v", err)
	}
	module, _ = svc.GetModule(ctx, "mod-1")
	if module.RelayOn {
		t.Fatalf("second toggle: relay = true, want false")
	}
}

func TestSetLightErrors(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	mustPush(t, svc, "mod-1", "ok", 100)

	if err := svc.SetLight(ctx, "mod-1", "brighter"); !errors.IsValidation(err) {
		t.Errorf("unknown action error = %v, want validation error", err)
	}
	if err := svc.SetLight(ctx, "ghost", LightOn); !errors.IsNotFound(err) {
		t.Errorf("unknown module error = %v, want not found error", err)
	}
}

func TestSetThreshold(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	mustPush(t, svc, "mod-1", "ok", 100)

	if err := svc.SetThreshold(ctx, "mod-1", -5); !errors.IsValidation(err) {
		t.Fatalf("negative threshold error = %v, want validation error", err)
	}
	if err := svc.SetThreshold(ctx, "mod-1", 1500); err != nil {
		t.Fatalf("SetThreshold() error = %v", err)
	}

	// The new value ships with the next command view.
	view := mustPush(t, svc, "mod-1", "ok", 100)
	if view.LightThreshold != 1500 {
		t.Errorf("command view threshold = %d, want 1500", view.LightThreshold)
	}
}

func TestAuthorize(t *testing.T) {
	svc, _ := newTestService(t)

	limited := models.Identity{ID: "rc1", Name: "Ana", CanRequestPhoto: true}
	if err := svc.Authorize(limited, models.CapRequestPhoto); err != nil {
		t.Errorf("granted capability rejected: %v", err)
	}
	if err := svc.Authorize(limited, models.CapToggleLight); !errors.IsAuthorization(err) {
		t.Errorf("missing capability error = %v, want authorization error", err)
	}

	admin := models.Identity{ID: "admin", Admin: true}
	if err := svc.Authorize(admin, models.CapToggleLight); err != nil {
		t.Errorf("admin rejected: %v", err)
	}
}
