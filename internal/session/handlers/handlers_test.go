package handlers

import (
	"encoding/json"
	"strings"
	"testing"

	"exodus-server/internal/domain"
	"exodus-server/pkg/api"
	"exodus-server/pkg/utils"
)

type fakeController struct {
	restartedWith []int64
	paused        bool
	layersAsked   bool
}

func (f *fakeController) Restart(seed int64) { f.restartedWith = append(f.restartedWith, seed) }

func (f *fakeController) SetPaused(p bool) bool {
	changed := f.paused != p
	f.paused = p
	return changed
}

func (f *fakeController) Snapshot(includeLayers bool) api.ServerResponse {
	f.layersAsked = includeLayers
	return api.ServerResponse{Type: api.MsgSnapshot, Seed: 9}
}

func (f *fakeController) RandomSeed() int64 { return 777 }

func run(t *testing.T, ctrl *fakeController, cmd domain.CommandType, payload string) (Result, error) {
	t.Helper()
	h, ok := Registry()[cmd]
	if !ok {
		t.Fatalf("No handler for %s", cmd)
	}
	return h(Context{Session: ctrl, ObserverID: "obs"}, json.RawMessage(payload))
}

func TestHandleRestart_SeedSources(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    int64
	}{
		{"Explicit seed", `{"seed":42}`, 42},
		{"Run name", `{"name":"alpha"}`, utils.StringToSeed("alpha")},
		{"Empty payload", ``, 777},
		{"Null payload", `null`, 777},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := &fakeController{}
			res, err := run(t, ctrl, domain.CommandRestart, tt.payload)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if len(ctrl.restartedWith) != 1 || ctrl.restartedWith[0] != tt.want {
				t.Errorf("Restart seed: got %v, want %d", ctrl.restartedWith, tt.want)
			}
			if !strings.Contains(res.Msg, "obs") {
				t.Errorf("Message must name the observer: %q", res.Msg)
			}
		})
	}
}

func TestHandleRestart_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantErr string
	}{
		{"Broken JSON", `{"seed":`, "invalid payload"},
		{"Negative seed", `{"seed":-1}`, "validation failed"},
		{"Seed and name", `{"seed":1,"name":"x"}`, "validation failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := &fakeController{}
			_, err := run(t, ctrl, domain.CommandRestart, tt.payload)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected %q, got %v", tt.wantErr, err)
			}
			if len(ctrl.restartedWith) != 0 {
				t.Error("Invalid command must not restart")
			}
		})
	}
}

func TestHandlePauseResume(t *testing.T) {
	ctrl := &fakeController{}

	res, _ := run(t, ctrl, domain.CommandPause, `{"ignored":true}`)
	if !ctrl.paused || res.Msg == "" {
		t.Fatal("Pause must pause and report")
	}

	res, _ = run(t, ctrl, domain.CommandPause, ``)
	if res.Msg != "" {
		t.Error("Second pause is a no-op without message")
	}

	run(t, ctrl, domain.CommandResume, ``)
	if ctrl.paused {
		t.Error("Resume must unpause")
	}
}

func TestHandleSnapshot_Reply(t *testing.T) {
	ctrl := &fakeController{}
	res, err := run(t, ctrl, domain.CommandSnapshot, `{"includeLayers":true}`)
	if err != nil {
		t.Fatal(err)
	}
	if res.Reply == nil || res.Reply.Seed != 9 || !ctrl.layersAsked {
		t.Errorf("Snapshot reply missing or layers not requested: %+v", res.Reply)
	}
}
