package service

import (
	"peerlearn_backend/internal/model"
	"testing"
)

func TestBuildPrompt(t *testing.T) {
	tests := []struct {
		name string
		shot model.GenerationShot
		want string
	}{
		{
			name: "all fields",
			shot: model.GenerationShot{
				Characters:   "A manager and a junior engineer",
				Environment:  "a glass-walled meeting room",
				Lighting:     "soft daylight",
				CameraAngles: "medium two-shot",
				Dialog:       "Can we talk about yesterday's demo?",
			},
			want: `A manager and a junior engineer. in a glass-walled meeting room. soft daylight. medium two-shot. saying "Can we talk about yesterday's demo?"`,
		},
		{
			name: "missing fields are skipped",
			shot: model.GenerationShot{
				Characters: "Two colleagues",
				Dialog:     "Fine.",
			},
			want: `Two colleagues. saying "Fine."`,
		},
		{
			name: "whitespace only counts as missing",
			shot: model.GenerationShot{
				Characters:  "  ",
				Environment: "an open office",
			},
			want: "in an open office",
		},
		{
			name: "empty shot",
			shot: model.GenerationShot{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildPrompt(tt.shot); got != tt.want {
				t.Errorf("BuildPrompt() = %q, want %q", got, tt.want)
			}
		})
	}
}
