package main

import (
	"bytes"
	"strings"
	"testing"

	"specmap/internal/version"
)

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	versionCmd.Run(versionCmd, nil)

	out := buf.String()
	if !strings.Contains(out, "specmap version "+version.String()) {
		t.Errorf("output = %q, want it to contain %q", out, version.String())
	}
}
