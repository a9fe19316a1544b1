// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package an

import "testing"

func TestGetTimeScaleBound(t *testing.T) {
	cases := []struct {
		timeoutUsec, timeoutMax uint
	}{
		{50000, 512},
		{5, 512},
		{5000000, 512},
		{1, 2},
	}
	for _, c := range cases {
		scale, count, _ := GetTimeScale(c.timeoutUsec, c.timeoutMax)
		if scale < 2 || scale > 7 {
			t.Errorf("GetTimeScale(%d, %d) timescale = %d, want in [2,7]", c.timeoutUsec, c.timeoutMax, scale)
		}
		if count >= c.timeoutMax && scale < 7 {
			t.Errorf("GetTimeScale(%d, %d) count = %d, want < %d while timescale < 7", c.timeoutUsec, c.timeoutMax, count, c.timeoutMax)
		}
	}
}

func TestValidateLinkInhibitTimerDefault(t *testing.T) {
	v, err := ValidateLinkInhibitTimer(0, LinkInhibitTimerDefaultMsec, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != LinkInhibitTimerDefaultMsec {
		t.Errorf("got %d, want default %d", v, LinkInhibitTimerDefaultMsec)
	}
}

func TestValidateLinkInhibitTimerInSpecRange(t *testing.T) {
	v, err := ValidateLinkInhibitTimer(LinkInhibitTimerMaxMsec, LinkInhibitTimerDefaultMsec, false)
	if err != nil {
		t.Fatalf("unexpected error at in-spec max: %v", err)
	}
	if v != LinkInhibitTimerMaxMsec {
		t.Errorf("got %d, want %d", v, LinkInhibitTimerMaxMsec)
	}
}

func TestValidateLinkInhibitTimerRejectsOutOfSpecByDefault(t *testing.T) {
	_, err := ValidateLinkInhibitTimer(LinkInhibitTimerMaxMsec+1, LinkInhibitTimerDefaultMsec, false)
	if err == nil {
		t.Fatal("expected an error beyond the in-spec ceiling")
	}
}

func TestValidateLinkInhibitTimerAllowsOutOfSpecWhenEnabled(t *testing.T) {
	v, err := ValidateLinkInhibitTimer(LinkInhibitTimerMaxOutSpecMsec, LinkInhibitTimerDefaultMsec, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != LinkInhibitTimerMaxOutSpecMsec {
		t.Errorf("got %d, want %d", v, LinkInhibitTimerMaxOutSpecMsec)
	}
}
