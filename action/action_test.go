package action

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func TestParse(t *testing.T) {
	for _, c := range []struct {
		in   string
		want Action
	}{
		{"warn", Warn()},
		{"kick", Kick()},
		{"tempban", TempBan()},
		{"ban", Ban()},
		{" Ban ", Ban()},
		{"KICK", Kick()},
	} {
		got, err := Parse(c.in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("Parse(%q) = %v, want %v", c.in, got, c.want)
		}
	}
	if _, err := Parse("obliterate"); err == nil {
		t.Fatal("Parse accepted an unknown action")
	}
	if _, err := Parse(""); err == nil {
		t.Fatal("Parse accepted an empty action")
	}
}

func TestActionProperties(t *testing.T) {
	if Warn().RemovesPlayer() {
		t.Fatal("warn removes the player")
	}
	for _, a := range []Action{Kick(), TempBan(), Ban()} {
		if !a.RemovesPlayer() {
			t.Fatalf("%v does not remove the player", a)
		}
	}
	if !TempBan().RequiresDuration() {
		t.Fatal("tempban needs no duration")
	}
	if Ban().RequiresDuration() {
		t.Fatal("ban requires a duration")
	}
}

func TestActionTextRoundTrip(t *testing.T) {
	b, err := TempBan().MarshalText()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var a Action
	if err := a.UnmarshalText(b); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if a != TempBan() {
		t.Fatalf("round trip = %v, want tempban", a)
	}
	if err := a.UnmarshalText([]byte("nope")); err == nil {
		t.Fatal("unmarshal accepted an unknown action")
	}
}

func TestLogExecutor(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	log.Formatter = &logrus.TextFormatter{DisableColors: true}

	exec := LogExecutor{Log: log}
	exec.Execute(uuid.New(), "Steve", "speed", Kick(), 0, 52.5)
	out := buf.String()
	for _, want := range []string{"kick", "Steve", "speed"} {
		if !strings.Contains(out, want) {
			t.Fatalf("log output %q does not mention %q", out, want)
		}
	}

	buf.Reset()
	exec.Execute(uuid.New(), "Alex", "fly", TempBan(), time.Hour, 80)
	if out := buf.String(); !strings.Contains(out, "1h0m0s") {
		t.Fatalf("log output %q does not carry the tempban duration", out)
	}
}

func TestParseDuration(t *testing.T) {
	for _, c := range []struct {
		in   string
		want time.Duration
	}{
		{"30s", 30 * time.Second},
		{"5m", 5 * time.Minute},
		{"1h30m", 90 * time.Minute},
		{"2d", 48 * time.Hour},
		{"1w", 7 * 24 * time.Hour},
		{"1w2d3h4m5s", 7*24*time.Hour + 2*24*time.Hour + 3*time.Hour + 4*time.Minute + 5*time.Second},
		{" 1H ", time.Hour},
	} {
		got, err := ParseDuration(c.in)
		if err != nil {
			t.Fatalf("ParseDuration(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("ParseDuration(%q) = %v, want %v", c.in, got, c.want)
		}
	}
	for _, in := range []string{"", "h", "10", "5x", "m5", "0s"} {
		if _, err := ParseDuration(in); err == nil {
			t.Fatalf("ParseDuration(%q) did not error", in)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	for _, c := range []struct {
		in   time.Duration
		want string
	}{
		{90 * time.Minute, "1h30m"},
		{48 * time.Hour, "2d"},
		{8 * 24 * time.Hour, "1w1d"},
		{time.Second, "1s"},
		{500 * time.Millisecond, "0s"},
	} {
		if got := FormatDuration(c.in); got != c.want {
			t.Fatalf("FormatDuration(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestDurationTextRoundTrip(t *testing.T) {
	var d Duration
	if err := d.UnmarshalText([]byte("1h30m")); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if d.Std() != 90*time.Minute {
		t.Fatalf("duration = %v, want 1h30m", d.Std())
	}
	b, err := d.MarshalText()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != "1h30m" {
		t.Fatalf("marshal = %q, want 1h30m", b)
	}
}
