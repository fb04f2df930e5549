package version

import "testing"

func TestString(t *testing.T) {
	restoreVersion, restoreCommit := Version, Commit
	defer func() {
		Version, Commit = restoreVersion, restoreCommit
	}()

	cases := []struct {
		version string
		commit  string
		want    string
	}{
		{"1.0.0", "", "1.0.0"},
		{"1.0.0", "abc12", "1.0.0"},
		{"1.0.0", "abc1234", "1.0.0 (abc1234)"},
		{"2.1.0", "deadbeefcafe", "2.1.0 (deadbee)"},
	}
	for _, tc := range cases {
		Version, Commit = tc.version, tc.commit
		if got := String(); got != tc.want {
			t.Errorf("String() with commit %q = %q, want %q", tc.commit, got, tc.want)
		}
	}
}

func TestDefaultVersionSet(t *testing.T) {
	if Version == "" {
		t.Fatal("Version must have a compiled-in default")
	}
}
