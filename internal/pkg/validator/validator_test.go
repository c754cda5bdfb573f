package validator

import (
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidLatitude(t *testing.T) {
	valid := []float64{0, -90, 90, 45.5, -6.2}
	invalid := []float64{90.0001, -90.0001, 180, -180}
	for _, lat := range valid {
		if !IsValidLatitude(lat) {
			t.Errorf("IsValidLatitude(%v) = false, want true", lat)
		}
	}
	for _, lat := range invalid {
		if IsValidLatitude(lat) {
			t.Errorf("IsValidLatitude(%v) = true, want false", lat)
		}
	}
}

func TestIsValidLongitude(t *testing.T) {
	valid := []float64{0, -180, 180, 106.8}
	invalid := []float64{180.0001, -180.0001, 360}
	for _, lon := range valid {
		if !IsValidLongitude(lon) {
			t.Errorf("IsValidLongitude(%v) = false, want true", lon)
		}
	}
	for _, lon := range invalid {
		if IsValidLongitude(lon) {
			t.Errorf("IsValidLongitude(%v) = true, want false", lon)
		}
	}
}

func TestMinRunes(t *testing.T) {
	cases := []struct {
		input string
		n     int
		want  bool
	}{
		{"wfh", 10, false},
		{"working from home", 10, true},
		{"   padded   ", 10, false},
		{"exactly10!", 10, true},
	}
	for _, c := range cases {
		got := MinRunes(c.input, c.n)
		if got != c.want {
			t.Errorf("MinRunes(%q, %d) = %v, want %v", c.input, c.n, got, c.want)
		}
	}
}

func TestIsValidTimeOfDay(t *testing.T) {
	h, m, ok := IsValidTimeOfDay("09:30")
	if !ok || h != 9 || m != 30 {
		t.Errorf("IsValidTimeOfDay(\"09:30\") = (%d, %d, %v), want (9, 30, true)", h, m, ok)
	}
	for _, bad := range []string{"", "25:00", "9am", "09:61"} {
		if _, _, ok := IsValidTimeOfDay(bad); ok {
			t.Errorf("IsValidTimeOfDay(%q) = true, want false", bad)
		}
	}
}

func TestValidationErrors(t *testing.T) {
	errs := ValidationErrors{
		{Field: "reason", Message: "too short"},
		{Field: "photo_ref", Message: "required"},
	}
	if errs.Error() != "reason: too short; photo_ref: required" {
		t.Errorf("unexpected error string: %q", errs.Error())
	}
	m := errs.ToMap()
	if len(m) != 2 || m["reason"] != "too short" || m["photo_ref"] != "required" {
		t.Errorf("unexpected map: %v", m)
	}
}
