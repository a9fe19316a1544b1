// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xcvrtype

import "testing"

func TestEplLaneMapNDefined(t *testing.T) {
	cases := []struct {
		ports [4]PortIndex
		want  uint
	}{
		{[4]PortIndex{NoPort, NoPort, NoPort, NoPort}, 0},
		{[4]PortIndex{0, NoPort, NoPort, NoPort}, 1},
		{[4]PortIndex{0, 1, 2, 3}, 4},
	}
	for _, c := range cases {
		m := &EplLaneMap{Port: c.ports}
		if got := m.NDefined(); got != c.want {
			t.Errorf("NDefined(%v) = %d, want %d", c.ports, got, c.want)
		}
	}
}

func TestEplLaneMapPortAt(t *testing.T) {
	m := &EplLaneMap{Port: [4]PortIndex{10, 11, NoPort, 13}}
	if p := m.PortAt(0); p != 10 {
		t.Errorf("PortAt(0) = %d, want 10", p)
	}
	if p := m.PortAt(2); p != NoPort {
		t.Errorf("PortAt(2) = %d, want NoPort", p)
	}
	if p := m.PortAt(4); p != NoPort {
		t.Errorf("PortAt(4) = %d, want NoPort (out of range)", p)
	}
}

func TestIntfTypeLane(t *testing.T) {
	cases := []struct {
		t    IntfType
		lane uint
	}{
		{QsfpLane0, 0},
		{QsfpLane1, 1},
		{QsfpLane2, 2},
		{QsfpLane3, 3},
	}
	for _, c := range cases {
		if l := c.t.Lane(); l != c.lane {
			t.Errorf("%v.Lane() = %d, want %d", c.t, l, c.lane)
		}
		if !c.t.IsQsfpLane() {
			t.Errorf("%v.IsQsfpLane() = false, want true", c.t)
		}
	}
	if Sfpp.IsQsfpLane() {
		t.Error("Sfpp.IsQsfpLane() = true, want false")
	}
}

func TestModBitString(t *testing.T) {
	s := (Present | Rxlos).String()
	if s != "PRESENT, RXLOS" {
		t.Errorf("String() = %q, want %q", s, "PRESENT, RXLOS")
	}
}
