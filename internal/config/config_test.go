package config

import "testing"

func TestDefaultValues(t *testing.T) {
	c := Default()
	if c == nil {
		t.Fatal("Default() returned nil")
	}
	if c.QMax != 50 {
		t.Errorf("QMax = %v, want 50", c.QMax)
	}
	if c.DefaultHorizon != 10 {
		t.Errorf("DefaultHorizon = %v, want 10", c.DefaultHorizon)
	}
	if !c.Optimistic {
		t.Error("Optimistic = false, want true")
	}
	if c.Step != 0 {
		t.Errorf("Step = %v, want 0", c.Step)
	}
	if c.SolverVerbose {
		t.Error("SolverVerbose = true, want false")
	}
	if c.GreedyToleranceEpsilon != 1e-5 {
		t.Errorf("GreedyToleranceEpsilon = %v, want 1e-5", c.GreedyToleranceEpsilon)
	}
}

func TestLoadWithoutConfigFileUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.QMax != 50 {
		t.Errorf("QMax = %v, want 50", cfg.QMax)
	}
	if !cfg.Optimistic {
		t.Error("Optimistic = false, want true")
	}
}

func TestLoadAppliesEnvOverride(t *testing.T) {
	t.Setenv("TRADINGCORE_Q_MAX", "120")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.QMax != 120 {
		t.Errorf("QMax = %v, want 120 from env override", cfg.QMax)
	}
}
