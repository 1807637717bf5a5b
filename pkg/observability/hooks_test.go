package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	r := NoopRenderHooks{}
	r.OnCardStart(ctx, "Fireball")
	r.OnCardComplete(ctx, "Fireball", "cards/Fireball.png", time.Millisecond, nil)
	r.OnFallback(ctx, "font", "fonts/DejaVuSans.ttf", "Go Regular")

	s := NoopSheetHooks{}
	s.OnSheetStart(ctx, 12, 3)
	s.OnPageComplete(ctx, 1, 6)
	s.OnSheetComplete(ctx, 3, time.Second, nil)
}

type testRenderHooks struct {
	NoopRenderHooks
	started []string
}

func (h *testRenderHooks) OnCardStart(_ context.Context, name string) {
	h.started = append(h.started, name)
}

type testSheetHooks struct {
	NoopSheetHooks
	pages int
}

func (h *testSheetHooks) OnPageComplete(context.Context, int, int) { h.pages++ }

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Render().(NoopRenderHooks); !ok {
		t.Error("Render() should return NoopRenderHooks by default")
	}
	if _, ok := Sheet().(NoopSheetHooks); !ok {
		t.Error("Sheet() should return NoopSheetHooks by default")
	}

	rh := &testRenderHooks{}
	SetRenderHooks(rh)
	if Render() != rh {
		t.Error("SetRenderHooks should set custom hooks")
	}
	Render().OnCardStart(context.Background(), "Ember")
	if len(rh.started) != 1 || rh.started[0] != "Ember" {
		t.Errorf("custom hook not called: %v", rh.started)
	}

	sh := &testSheetHooks{}
	SetSheetHooks(sh)
	Sheet().OnPageComplete(context.Background(), 1, 6)
	if sh.pages != 1 {
		t.Errorf("pages = %d, want 1", sh.pages)
	}

	SetRenderHooks(nil)
	if Render() != rh {
		t.Error("SetRenderHooks(nil) should be ignored")
	}

	Reset()
	if _, ok := Render().(NoopRenderHooks); !ok {
		t.Error("Reset should restore NoopRenderHooks")
	}
}
