package observability

import "testing"

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "collector:4318")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "x-api-key=abc, team=backend,,broken")
	t.Setenv("OTEL_EXPORTER_OTLP_INSECURE", "true")
	t.Setenv("OTEL_SAMPLER_RATIO", "0.5")

	cfg := ConfigFromEnv()
	if cfg.Endpoint != "collector:4318" {
		t.Fatalf("endpoint = %q", cfg.Endpoint)
	}
	if !cfg.Insecure {
		t.Fatal("insecure flag lost")
	}
	if cfg.SampleRatio != 0.5 {
		t.Fatalf("ratio = %v", cfg.SampleRatio)
	}
	if len(cfg.Headers) != 2 || cfg.Headers["x-api-key"] != "abc" || cfg.Headers["team"] != "backend" {
		t.Fatalf("headers = %v", cfg.Headers)
	}
}

func TestConfigFromEnvDefaultsAndClamping(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")
	t.Setenv("OTEL_SAMPLER_RATIO", "7")

	cfg := ConfigFromEnv()
	if cfg.SampleRatio != 1 {
		t.Fatalf("ratio above 1 must clamp, got %v", cfg.SampleRatio)
	}
	if cfg.Headers != nil {
		t.Fatalf("expected nil headers, got %v", cfg.Headers)
	}

	t.Setenv("OTEL_SAMPLER_RATIO", "-3")
	if cfg := ConfigFromEnv(); cfg.SampleRatio != 0 {
		t.Fatalf("negative ratio must clamp to 0, got %v", cfg.SampleRatio)
	}
}

func TestEnabled(t *testing.T) {
	t.Setenv("OTEL_ENABLED", "")
	if Enabled() {
		t.Fatal("enabled without OTEL_ENABLED")
	}
	t.Setenv("OTEL_ENABLED", "on")
	if !Enabled() {
		t.Fatal("OTEL_ENABLED=on not honored")
	}
}
