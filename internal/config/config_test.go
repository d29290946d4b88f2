package config

import (
	"reflect"
	"testing"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"MODE", "HTTP_ADDR", "DB_DRIVER", "CORS_ORIGINS_OFFLINE"} {
		t.Setenv(k, "")
	}
	cfg := FromEnv()

	if cfg.Mode != ModeOffline {
		t.Fatalf("mode = %s, want offline", cfg.Mode)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("addr = %s", cfg.HTTPAddr)
	}
	if cfg.DBDriver != "sqlite" {
		t.Fatalf("driver = %s", cfg.DBDriver)
	}
	want := []string{"http://localhost:3000", "http://localhost:5173"}
	if !reflect.DeepEqual(cfg.CORSOriginsOffline, want) {
		t.Fatalf("offline origins = %v", cfg.CORSOriginsOffline)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("MODE", "online")
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_DSN", "postgres://db/daotao")
	t.Setenv("CORS_ORIGINS_ONLINE", "https://a.example.vn, https://b.example.vn,")

	cfg := FromEnv()
	if cfg.Mode != ModeOnline || cfg.HTTPAddr != ":9999" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.DBDriver != "postgres" || cfg.DBDSN != "postgres://db/daotao" {
		t.Fatalf("db cfg = %s %s", cfg.DBDriver, cfg.DBDSN)
	}
	want := []string{"https://a.example.vn", "https://b.example.vn"}
	if !reflect.DeepEqual(cfg.CORSOriginsOnline, want) {
		t.Fatalf("online origins = %v", cfg.CORSOriginsOnline)
	}
}
