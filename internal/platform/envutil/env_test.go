package envutil

import "testing"

func TestGetEnv(t *testing.T) {
	t.Setenv("ENVUTIL_TEST_SET", "value")
	t.Setenv("ENVUTIL_TEST_BLANK", "   ")

	if got := GetEnv("ENVUTIL_TEST_SET", "fallback", nil); got != "value" {
		t.Fatalf("unexpected value: %q", got)
	}
	if got := GetEnv("ENVUTIL_TEST_BLANK", "fallback", nil); got != "fallback" {
		t.Fatalf("blank value should fall back: %q", got)
	}
	if got := GetEnv("ENVUTIL_TEST_MISSING", "fallback", nil); got != "fallback" {
		t.Fatalf("missing value should fall back: %q", got)
	}
}

func TestGetEnvAsInt(t *testing.T) {
	t.Setenv("ENVUTIL_TEST_INT", " 42 ")
	t.Setenv("ENVUTIL_TEST_NOT_INT", "forty-two")

	if got := GetEnvAsInt("ENVUTIL_TEST_INT", 7, nil); got != 42 {
		t.Fatalf("unexpected int: %d", got)
	}
	if got := GetEnvAsInt("ENVUTIL_TEST_NOT_INT", 7, nil); got != 7 {
		t.Fatalf("unparsable value should fall back: %d", got)
	}
	if got := GetEnvAsInt("ENVUTIL_TEST_MISSING", 7, nil); got != 7 {
		t.Fatalf("missing value should fall back: %d", got)
	}
}
