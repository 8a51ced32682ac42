package config

import (
	"strings"
	"testing"
	"time"

	perr "chatclean/internal/platform/errors"
	kit "chatclean/internal/platform/testkit"
)

func TestPrefixAndKey(t *testing.T) {
	store := New().Prefix("STORE_")
	if got := store.key("BUCKET"); got != "STORE_BUCKET" {
		t.Fatalf("key() = %q, want %q", got, "STORE_BUCKET")
	}
	nested := store.Prefix("S3_")
	if got := nested.key("REGION"); got != "STORE_S3_REGION" {
		t.Fatalf("nested key() = %q, want %q", got, "STORE_S3_REGION")
	}
}

func TestMustString(t *testing.T) {
	c := New().Prefix("APP_")
	t.Setenv("APP_NAME", "  chatclean ")
	if got := c.MustString("NAME"); got != "chatclean" {
		t.Fatalf("MustString = %q, want %q", got, "chatclean")
	}
	kit.MustPanic(t, func() { _ = c.MustString("MISSING") })
}

func TestMustParsers(t *testing.T) {
	c := New().Prefix("MP_")
	t.Setenv("MP_WORKERS", " 8 ")
	t.Setenv("MP_ON", " true ")
	t.Setenv("MP_TIMEOUT", " 250ms ")
	t.Setenv("MP_BAD", "x")

	if got := c.MustInt("WORKERS"); got != 8 {
		t.Fatalf("MustInt = %d, want 8", got)
	}
	if !c.MustBool("ON") {
		t.Fatalf("MustBool true expected")
	}
	if got := c.MustDuration("TIMEOUT"); got != 250*time.Millisecond {
		t.Fatalf("MustDuration = %v", got)
	}

	kit.MustPanic(t, func() { _ = c.MustInt("BAD") })
	kit.MustPanic(t, func() { _ = c.MustBool("BAD") })
	kit.MustPanic(t, func() { _ = c.MustDuration("BAD") })
	kit.MustPanic(t, func() { _ = c.MustInt("MISSING") })
}

func TestRequire(t *testing.T) {
	c := New().Prefix("REQ_")
	t.Setenv("REQ_A", "x")
	t.Setenv("REQ_B", "y")
	kit.MustNotPanic(t, func() { c.Require("A", "B") })
	kit.MustPanic(t, func() { c.Require("A", "C") })

	t.Setenv("REQ_WS", "   ")
	kit.MustPanic(t, func() { c.Require("WS") })
}

func TestHas(t *testing.T) {
	c := New().Prefix("H_")
	t.Setenv("H_SET", "v")
	t.Setenv("H_BLANK", "  ")
	if !c.Has("SET") {
		t.Fatalf("Has(SET) = false")
	}
	if c.Has("BLANK") || c.Has("MISSING") {
		t.Fatalf("blank or missing keys must report false")
	}
}

func TestMayFallbacks(t *testing.T) {
	c := New().Prefix("MAY_")
	t.Setenv("MAY_STR", " hello ")
	t.Setenv("MAY_INT", " 7 ")
	t.Setenv("MAY_F", "0.5")
	t.Setenv("MAY_BOOL", "true")
	t.Setenv("MAY_DUR", "150ms")
	t.Setenv("MAY_BAD", "nope")

	if got := c.MayString("MISSING", "def"); got != "def" {
		t.Fatalf("MayString default = %q", got)
	}
	if got := c.MayString("STR", "x"); got != "hello" {
		t.Fatalf("MayString value = %q", got)
	}
	if got := c.MayInt("INT", 0); got != 7 {
		t.Fatalf("MayInt = %d", got)
	}
	if got := c.MayInt("BAD", 3); got != 3 {
		t.Fatalf("MayInt bad -> default = %d", got)
	}
	if got := c.MayFloat64("F", 0); got != 0.5 {
		t.Fatalf("MayFloat64 = %v", got)
	}
	if got := c.MayFloat64("BAD", 0.25); got != 0.25 {
		t.Fatalf("MayFloat64 bad -> default = %v", got)
	}
	if !c.MayBool("BOOL", false) || c.MayBool("BAD", false) {
		t.Fatalf("MayBool mismatch")
	}
	if got := c.MayDuration("DUR", time.Second); got != 150*time.Millisecond {
		t.Fatalf("MayDuration = %v", got)
	}
	if got := c.MayDuration("BAD", time.Minute); got != time.Minute {
		t.Fatalf("MayDuration bad -> default = %v", got)
	}
}

func TestMayCSV(t *testing.T) {
	c := New().Prefix("CSV_")
	def := []string{"fallback"}

	t.Setenv("CSV_VALS", " one, two , ,three ,, ")
	got := c.MayCSV("VALS", nil)
	want := []string{"one", "two", "three"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("MayCSV = %#v, want %#v", got, want)
	}

	t.Setenv("CSV_EMPTY", " , ,  ,")
	if got := c.MayCSV("EMPTY", def); len(got) != 1 || got[0] != "fallback" {
		t.Fatalf("MayCSV all-empty -> default mismatch: %#v", got)
	}
}

func TestMayEnum(t *testing.T) {
	c := New().Prefix("E_")
	if got := c.MayEnum("MISS", "s3", "s3", "local", "mem"); got != "s3" {
		t.Fatalf("MayEnum default = %q", got)
	}
	t.Setenv("E_BACKEND", "Local")
	if got := c.MayEnum("BACKEND", "s3", "s3", "local", "mem"); got != "Local" {
		t.Fatalf("MayEnum allowed = %q", got)
	}
	if got := c.MayEnum("MISSING", "", "s3"); got != "" {
		t.Fatalf("MayEnum empty default = %q", got)
	}
	t.Setenv("E_BAD", "gcs")
	kit.MustPanic(t, func() { _ = c.MayEnum("BAD", "s3", "s3", "local", "mem") })
}

type sampleOpts struct {
	Bucket  string        `env:"STORE_BUCKET" validate:"required"`
	Workers int           `env:"CLEAN_WORKERS" validate:"gte=1,lte=64"`
	Timeout time.Duration `validate:"gt=0"`
}

func TestValidate(t *testing.T) {
	ok := sampleOpts{Bucket: "chat", Workers: 2, Timeout: time.Second}
	if err := Validate(ok); err != nil {
		t.Fatalf("Validate(ok) = %v", err)
	}

	err := Validate(sampleOpts{Workers: 100})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("code = %v, want invalid_argument", perr.CodeOf(err))
	}
	kit.MustContain(t, err.Error(), "STORE_BUCKET")
	kit.MustContain(t, err.Error(), "CLEAN_WORKERS")
	kit.MustContain(t, err.Error(), "Timeout")
}
