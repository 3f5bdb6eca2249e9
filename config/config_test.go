package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"SERVER_PORT", "REPORT_ENABLED", "REPORT_RECIPIENTS", "EXTERNAL_FEED_URL", "CLINIC_TIMEZONE"} {
		t.Setenv(key, "")
	}
	cfg := Load()

	if cfg.Server.Port != 8080 {
		t.Errorf("expected port 8080 for an unparsable value, got %d", cfg.Server.Port)
	}
	if cfg.Report.Enabled {
		t.Error("expected the report to stay disabled")
	}
	if len(cfg.Report.Recipients) != 0 {
		t.Errorf("expected no recipients, got %v", cfg.Report.Recipients)
	}
	if cfg.ExternalFeed.URL != "" {
		t.Errorf("expected the feed to be disabled, got %q", cfg.ExternalFeed.URL)
	}
	if cfg.ExternalFeed.RowLimit != 500 || cfg.RateLimit.AssistantWindow != time.Minute {
		t.Errorf("unexpected defaults %+v %+v", cfg.ExternalFeed, cfg.RateLimit)
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("REPORT_ENABLED", "true")
	t.Setenv("REPORT_RECIPIENTS", " gerencia@clinica.test, ,dueno@clinica.test ")
	t.Setenv("REPORT_SEND_HOUR", "20")
	t.Setenv("EXTERNAL_FEED_QUERY_TIMEOUT", "3s")
	t.Setenv("ASSISTANT_RATE_LIMIT", "not-a-number")

	cfg := Load()

	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if !cfg.Report.Enabled || cfg.Report.SendHour != 20 {
		t.Errorf("unexpected report config %+v", cfg.Report)
	}
	if len(cfg.Report.Recipients) != 2 || cfg.Report.Recipients[1] != "dueno@clinica.test" {
		t.Errorf("expected 2 trimmed recipients, got %v", cfg.Report.Recipients)
	}
	if cfg.ExternalFeed.QueryTimeout != 3*time.Second {
		t.Errorf("expected 3s, got %v", cfg.ExternalFeed.QueryTimeout)
	}
	if cfg.RateLimit.AssistantRequests != 20 {
		t.Errorf("expected the default for an invalid value, got %d", cfg.RateLimit.AssistantRequests)
	}
}

func TestClinicConfig_Location(t *testing.T) {
	if loc := (ClinicConfig{Timezone: "Not/AZone"}).Location(); loc != time.UTC {
		t.Errorf("expected UTC fallback, got %v", loc)
	}
	if loc := (ClinicConfig{Timezone: "UTC"}).Location(); loc.String() != "UTC" {
		t.Errorf("expected UTC, got %v", loc)
	}
}
