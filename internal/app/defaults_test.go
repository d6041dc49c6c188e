package app

import (
	"path/filepath"
	"testing"
)

func TestGetDefaults_EnvOverrides(t *testing.T) {
	t.Setenv("PIXCAT_CONFIG_PATH", "/etc/pixcat/pixcat.toml")
	t.Setenv("PIXCAT_HOME", "/srv/pixcat")

	defaults, err := GetDefaults()
	if err != nil {
		t.Fatalf("GetDefaults() error = %v", err)
	}

	if defaults["config_path"] != "/etc/pixcat/pixcat.toml" {
		t.Errorf("config_path = %q", defaults["config_path"])
	}
	if defaults["base_dir"] != "/srv/pixcat" {
		t.Errorf("base_dir = %q", defaults["base_dir"])
	}
	if defaults["log_dir"] != filepath.Join("/srv/pixcat", "log") {
		t.Errorf("log_dir = %q", defaults["log_dir"])
	}
}

func TestGetDefaults_HomeFallback(t *testing.T) {
	t.Setenv("PIXCAT_CONFIG_PATH", "")
	t.Setenv("PIXCAT_HOME", "")
	t.Setenv("HOME", "/home/tester")

	defaults, err := GetDefaults()
	if err != nil {
		t.Fatalf("GetDefaults() error = %v", err)
	}

	if defaults["config_path"] != filepath.Join("/home/tester", ".config", "pixcat.toml") {
		t.Errorf("config_path = %q", defaults["config_path"])
	}
	if defaults["base_dir"] != filepath.Join("/home/tester", ".local", "share", "pixcat") {
		t.Errorf("base_dir = %q", defaults["base_dir"])
	}
}
