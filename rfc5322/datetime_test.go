package rfc5322

import "testing"

func TestParseDateTimeNumericZone(t *testing.T) {
	dt, err := ParseDateTime("21 Nov 1997 09:55:06 -0600", 2026)
	if err != nil {
		t.Fatal(err)
	}
	if dt.Day != 21 || dt.Month != 11 || dt.Year != 1997 {
		t.Errorf("date = %d-%d-%d, want 21-11-1997", dt.Day, dt.Month, dt.Year)
	}
	if dt.Hour != 9 || dt.Min != 55 || dt.Sec != 6 {
		t.Errorf("time = %02d:%02d:%02d, want 09:55:06", dt.Hour, dt.Min, dt.Sec)
	}
	if dt.TZ != TZOffset {
		t.Fatalf("TZ = %v, want TZOffset", dt.TZ)
	}
	positive, hour, min := DecodeOffset(dt.Offset)
	if positive || hour != 6 || min != 0 {
		t.Errorf("offset = %v %d:%d, want -06:00", positive, hour, min)
	}
}

func TestParseDateTimeWithDayName(t *testing.T) {
	dt, err := ParseDateTime("Fri, 21 Nov 1997 09:55:06 -0600", 2026)
	if err != nil {
		t.Fatal(err)
	}
	if dt.Day != 21 {
		t.Errorf("day = %d, want 21", dt.Day)
	}
}

func TestParseDateTimeTwoDigitYearPivot(t *testing.T) {
	// nowYear mod 100 == 26; year "06" <= 26 resolves to 2006.
	dt, err := ParseDateTime("2 Jan 06 15:04:05 -0700", 2026)
	if err != nil {
		t.Fatal(err)
	}
	if dt.Year != 2006 {
		t.Errorf("year = %d, want 2006", dt.Year)
	}

	// year "99" > 26 resolves to 1999.
	dt, err = ParseDateTime("2 Jan 99 15:04:05 -0700", 2026)
	if err != nil {
		t.Fatal(err)
	}
	if dt.Year != 1999 {
		t.Errorf("year = %d, want 1999", dt.Year)
	}
}

func TestParseDateTimeObsZoneCode(t *testing.T) {
	dt, err := ParseDateTime("21 Nov 1997 09:55:06 PST", 2026)
	if err != nil {
		t.Fatal(err)
	}
	if dt.TZ != TZCode || dt.Code != "PST" {
		t.Errorf("TZ = %v %q, want TZCode PST", dt.TZ, dt.Code)
	}
}

func TestParseDateTimeUnknownZoneCode(t *testing.T) {
	if _, err := ParseDateTime("21 Nov 1997 09:55:06 ZZZ", 2026); err == nil {
		t.Error("expected error for unknown zone code")
	}
}

func TestParseDateTimeBareZoneIsLenientPlus0000(t *testing.T) {
	dt, err := ParseDateTime("21 Nov 1997 09:55:06 0000", 2026)
	if err != nil {
		t.Fatal(err)
	}
	if dt.TZ != TZOffset {
		t.Fatalf("TZ = %v, want TZOffset", dt.TZ)
	}
	positive, hour, min := DecodeOffset(dt.Offset)
	if !positive || hour != 0 || min != 0 {
		t.Errorf("offset = %v %d:%d, want +00:00", positive, hour, min)
	}
}

func TestParseDateTimeSecondsDefaultToZero(t *testing.T) {
	dt, err := ParseDateTime("21 Nov 1997 09:55 -0600", 2026)
	if err != nil {
		t.Fatal(err)
	}
	if dt.Sec != 0 {
		t.Errorf("sec = %d, want 0", dt.Sec)
	}
}

func TestEncodeDecodeOffsetRoundTrip(t *testing.T) {
	tests := []struct {
		positive   bool
		hour, min int
	}{
		{true, 0, 0},
		{false, 6, 30},
		{true, 14, 45},
	}
	for _, tt := range tests {
		v := EncodeOffset(tt.positive, tt.hour, tt.min)
		gotPositive, gotHour, gotMin := DecodeOffset(v)
		if gotPositive != tt.positive || gotHour != tt.hour || gotMin != tt.min {
			t.Errorf("round-trip(%v,%d,%d) = %v,%d,%d", tt.positive, tt.hour, tt.min, gotPositive, gotHour, gotMin)
		}
	}
}
