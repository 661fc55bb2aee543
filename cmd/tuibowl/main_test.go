package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/tuibowl/internal/model"
)

func TestScoreCommandPrintsTotal(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"score", "10", "7,3", "9", "0", "10", "0", "8", "8", "2", "0", "6", "10", "10", "10", "8", "1"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("score: %v", err)
	}
	if !strings.Contains(out.String(), "Total: 167 (final)") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "   10 X 8 1   167") {
		t.Fatalf("missing tenth frame:\n%s", out.String())
	}
}

func TestScoreCommandRejectsInvalidRolls(t *testing.T) {
	for _, args := range [][]string{{"score", "7", "5"}, {"score", "x"}} {
		cmd := newRootCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs(args)
		if err := cmd.Execute(); err == nil {
			t.Fatalf("%v: expected error", args)
		}
	}
}

func TestApplyDelayConfig(t *testing.T) {
	cmd := newRootCmd()
	target := defaultSettleDelay
	value := "2500ms"
	if err := applyDelayConfig(cmd, "settle-delay", &target, &value); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if target != 2500*time.Millisecond {
		t.Fatalf("expected 2.5s, got %v", target)
	}

	bad := "-1s"
	if err := applyDelayConfig(cmd, "settle-delay", &target, &bad); err == nil {
		t.Fatalf("expected error for negative delay")
	}

	if err := cmd.Flags().Set("settle-delay", "1s"); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	if err := applyDelayConfig(cmd, "settle-delay", &target, &value); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if target != 2500*time.Millisecond {
		t.Fatalf("explicit flag should win over config, got %v", target)
	}
}

func TestValidateConfigRejectsEmptyPlayer(t *testing.T) {
	if err := validateConfig(model.Config{Player: " "}); err == nil {
		t.Fatalf("expected error for empty player")
	}
	if err := validateConfig(model.Config{Player: "ada"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
