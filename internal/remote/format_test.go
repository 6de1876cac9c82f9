package remote

import (
	"image"
	"testing"
)

func TestFormatDuration(t *testing.T) {
	cases := map[float64]string{
		0:       "00:00:00",
		59.4:    "00:00:59",
		59.5:    "00:01:00",
		3599.6:  "01:00:00",
		86399:   "23:59:59",
		90061.2: "25:01:01",
		-3:      "00:00:00",
	}
	for input, want := range cases {
		if got := FormatDuration(input); got != want {
			t.Errorf("FormatDuration(%v) = %q, want %q", input, got, want)
		}
	}
}

func TestFitWithin(t *testing.T) {
	cases := []struct {
		w, h, size   int
		wantW, wantH int
	}{
		{640, 360, 300, 300, 168},
		{360, 640, 300, 168, 300},
		{100, 100, 300, 300, 300},
		{1000, 1, 300, 300, 1},
	}
	for _, tc := range cases {
		got := fitWithin(image.Rect(0, 0, tc.w, tc.h), tc.size)
		if got.Dx() != tc.wantW || got.Dy() != tc.wantH {
			t.Errorf("fitWithin(%dx%d, %d) = %dx%d, want %dx%d",
				tc.w, tc.h, tc.size, got.Dx(), got.Dy(), tc.wantW, tc.wantH)
		}
	}
}
