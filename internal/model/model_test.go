package model

import (
	"math"
	"testing"
)

func TestArtifactID(t *testing.T) {
	tests := []struct {
		path string
		kind ArtifactKind
		name string
		want string
	}{
		{"src/api.ts", KindFile, "api.ts", "src/api.ts"},
		{"src/api.ts", KindFunction, "fetchUser", "src/api.ts:function:fetchUser"},
		{"src/api.ts", KindClass, "UserService", "src/api.ts:class:UserService"},
	}
	for _, tt := range tests {
		if got := ArtifactID(tt.path, tt.kind, tt.name); got != tt.want {
			t.Errorf("ArtifactID(%q, %q, %q) = %q, want %q", tt.path, tt.kind, tt.name, got, tt.want)
		}
	}
}

func TestArtifactIDStable(t *testing.T) {
	a := ArtifactID("src/a.ts", KindFunction, "run")
	b := ArtifactID("src/a.ts", KindFunction, "run")
	if a != b {
		t.Errorf("identical inputs produced different IDs: %q vs %q", a, b)
	}
}

func TestClamp01(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0.5, 0.5},
		{0, 0},
		{1, 1},
		{-0.2, 0},
		{1.7, 1},
		{math.NaN(), 0},
		{math.Inf(1), 1},
		{math.Inf(-1), 0},
	}
	for _, tt := range tests {
		if got := Clamp01(tt.in); got != tt.want {
			t.Errorf("Clamp01(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
