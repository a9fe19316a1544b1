// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xcvr

import (
	"testing"

	"github.com/platinasystems/xcvrmgmt/xcvrtype"
)

func qsfpTable() *Table {
	cfgs := []PortConfig{
		{PortID: 0, IntfType: xcvrtype.QsfpLane0, Epl: 1, HwResourceID: 100},
		{PortID: 1, IntfType: xcvrtype.QsfpLane1, Epl: 1, HwResourceID: 101},
		{PortID: 2, IntfType: xcvrtype.QsfpLane2, Epl: 1, HwResourceID: 102},
		{PortID: 3, IntfType: xcvrtype.QsfpLane3, Epl: 1, HwResourceID: 103},
		{PortID: 4, IntfType: xcvrtype.Sfpp, Epl: 2, HwResourceID: 200},
	}
	return NewTable(cfgs)
}

func TestEepromOwnerRedirectsToLane0(t *testing.T) {
	tb := qsfpTable()
	for lane := xcvrtype.PortIndex(0); lane <= 3; lane++ {
		if owner := tb.EepromOwner(lane); owner != 0 {
			t.Errorf("EepromOwner(%d) = %d, want 0", lane, owner)
		}
	}
}

func TestEepromOwnerSfppIsItself(t *testing.T) {
	tb := qsfpTable()
	if owner := tb.EepromOwner(4); owner != 4 {
		t.Errorf("EepromOwner(4) = %d, want 4", owner)
	}
}

func TestPortByHwResourceID(t *testing.T) {
	tb := qsfpTable()
	if p := tb.PortByHwResourceID(102); p != 2 {
		t.Errorf("PortByHwResourceID(102) = %d, want 2", p)
	}
	if p := tb.PortByHwResourceID(999); p != xcvrtype.NoPort {
		t.Errorf("PortByHwResourceID(999) = %d, want NoPort", p)
	}
}

func TestLanesOf(t *testing.T) {
	tb := qsfpTable()
	m := tb.LanesOf(1)
	if m == nil {
		t.Fatal("LanesOf(1) returned nil")
	}
	if m.NDefined() != 4 {
		t.Errorf("NDefined() = %d, want 4", m.NDefined())
	}
	if m2 := tb.LanesOf(99); m2 != nil {
		t.Errorf("LanesOf(99) = %v, want nil", m2)
	}
}

func TestResetOnAbsenceClearsOnlyCurrentRecord(t *testing.T) {
	tb := qsfpTable()
	r0 := tb.Record(0)
	r1 := tb.Record(1)
	for i := range r0.Eeprom {
		r0.Eeprom[i] = 0x42
	}
	for i := range r1.Eeprom {
		r1.Eeprom[i] = 0x42
	}
	r0.EepromBaseValid = true
	r1.EepromBaseValid = true

	r0.resetOnAbsence()

	if r0.EepromBaseValid {
		t.Error("r0.EepromBaseValid should be cleared")
	}
	if !r1.EepromBaseValid {
		t.Error("r1.EepromBaseValid should be untouched by r0's reset")
	}
	if r1.Eeprom[0] != 0x42 {
		t.Error("r1.Eeprom should be untouched by r0's reset")
	}
}

func TestSwitchTokenTryAcquire(t *testing.T) {
	tok := NewSwitchToken()
	if !tok.TryAcquire() {
		t.Fatal("first TryAcquire should succeed")
	}
	if tok.TryAcquire() {
		t.Fatal("second TryAcquire should fail while held")
	}
	tok.Release()
	if !tok.TryAcquire() {
		t.Fatal("TryAcquire after Release should succeed")
	}
}
