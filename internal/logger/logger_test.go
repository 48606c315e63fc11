package logger

import (
	"testing"

	"go.uber.org/zap"
)

func TestNew_Levels(t *testing.T) {
	cases := map[string]zap.AtomicLevel{
		"debug": zap.NewAtomicLevelAt(zap.DebugLevel),
		"info":  zap.NewAtomicLevelAt(zap.InfoLevel),
		"warn":  zap.NewAtomicLevelAt(zap.WarnLevel),
		"error": zap.NewAtomicLevelAt(zap.ErrorLevel),
		"bogus": zap.NewAtomicLevelAt(zap.InfoLevel),
		"":      zap.NewAtomicLevelAt(zap.InfoLevel),
	}
	for in, want := range cases {
		log, err := New(in)
		if err != nil {
			t.Fatalf("New(%q): %v", in, err)
		}
		if !log.Core().Enabled(want.Level()) {
			t.Fatalf("New(%q): level %s not enabled", in, want.Level())
		}
		if want.Level() > zap.DebugLevel && log.Core().Enabled(want.Level()-1) {
			t.Fatalf("New(%q): level below %s unexpectedly enabled", in, want.Level())
		}
	}
}
