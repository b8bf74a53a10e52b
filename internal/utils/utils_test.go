package utils

import (
	"math"
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		duration time.Duration
		expected string
	}{
		{0, "00:00:00"},
		{59 * time.Second, "00:00:59"},
		{60 * time.Second, "00:01:00"},
		{61*time.Minute + 1*time.Second, "01:01:01"},
		{25*time.Hour + 45*time.Minute + 30*time.Second, "25:45:30"},
	}

	for _, test := range tests {
		result := FormatDuration(test.duration)
		if result != test.expected {
			t.Errorf("FormatDuration(%v) = %s; expected %s", test.duration, result, test.expected)
		}
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		duration time.Duration
		expected string
	}{
		{0, "0:00"},
		{999 * time.Millisecond, "0:00"},
		{5 * time.Second, "0:05"},
		{59*time.Second + 900*time.Millisecond, "0:59"},
		{60 * time.Second, "1:00"},
		{12*time.Minute + 34*time.Second, "12:34"},
		{75 * time.Minute, "75:00"},
		{-time.Second, "0:00"},
	}

	for _, test := range tests {
		result := FormatElapsed(test.duration)
		if result != test.expected {
			t.Errorf("FormatElapsed(%v) = %s; expected %s", test.duration, result, test.expected)
		}
	}
}

func TestFormatSeconds(t *testing.T) {
	val := func(f float64) *float64 { return &f }

	tests := []struct {
		seconds  *float64
		expected string
	}{
		{nil, "--:--"},
		{val(math.NaN()), "--:--"},
		{val(-1), "--:--"},
		{val(0), "0:00"},
		{val(185.7), "3:05"},
	}

	for _, test := range tests {
		result := FormatSeconds(test.seconds)
		if result != test.expected {
			t.Errorf("FormatSeconds() = %s; expected %s", result, test.expected)
		}
	}
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		input    string
		maxLen   int
		expected string
	}{
		{"short", 10, "short"},
		{"exactly10", 10, "exactly10"},
		{"this is a very long string", 10, "this is..."},
		{"abc", 3, "abc"},
		{"abcd", 3, "abc"},
		{"abcde", 4, "a..."},
		{"Колыбельная", 7, "Колы..."},
		{"abc", 0, ""},
	}

	for _, test := range tests {
		result := TruncateString(test.input, test.maxLen)
		if result != test.expected {
			t.Errorf("TruncateString(%s, %d) = %s; expected %s", test.input, test.maxLen, result, test.expected)
		}
	}
}
