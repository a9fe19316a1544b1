// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package an

import (
	"testing"

	"github.com/platinasystems/xcvrmgmt/xcvrtype"
)

func TestTablePortAtResolvesLane(t *testing.T) {
	cfgs := []PortConfig{
		{PortID: 0, Epl: 1, Lane: 0},
		{PortID: 1, Epl: 1, Lane: 1},
		{PortID: 2, Epl: 2, Lane: 0},
	}
	tbl := NewTable(cfgs)

	if p := tbl.PortAt(1, 0); p != 0 {
		t.Errorf("PortAt(1, 0) = %v, want 0", p)
	}
	if p := tbl.PortAt(1, 1); p != 1 {
		t.Errorf("PortAt(1, 1) = %v, want 1", p)
	}
	if p := tbl.PortAt(1, 2); p != xcvrtype.NoPort {
		t.Errorf("PortAt(1, 2) = %v, want NoPort", p)
	}
	if p := tbl.PortAt(99, 0); p != xcvrtype.NoPort {
		t.Errorf("PortAt(99, 0) = %v, want NoPort for an unknown epl", p)
	}
}

func TestTableRecordOutOfRange(t *testing.T) {
	tbl := NewTable([]PortConfig{{PortID: 0, Epl: 1, Lane: 0}})
	if tbl.Record(-1) != nil {
		t.Error("Record(-1) should be nil")
	}
	if tbl.Record(1) != nil {
		t.Error("Record(1) should be nil when only one port is configured")
	}
	if tbl.Record(0) == nil {
		t.Error("Record(0) should not be nil")
	}
}

func TestAddNextPageSetsNPOnPredecessor(t *testing.T) {
	s := newPortState(PortConfig{PortID: 0})
	if err := s.AddNextPage(Page(1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.AddNextPage(Page(2)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.NextPages[0].HasNP() {
		t.Error("expected the first page to gain NP once a successor was queued")
	}
	if s.NextPages[1].HasNP() {
		t.Error("the last queued page must not carry NP")
	}
}

func TestAddNextPageBoundedByMaxNextPages(t *testing.T) {
	s := newPortState(PortConfig{PortID: 0})
	for i := 0; i < MaxNextPages; i++ {
		if err := s.AddNextPage(Page(i)); err != nil {
			t.Fatalf("unexpected error queuing page %d: %v", i, err)
		}
	}
	if err := s.AddNextPage(Page(MaxNextPages)); err == nil {
		t.Error("expected an error once the queue is full")
	}
}

func TestNewPortStateDefaultTimers(t *testing.T) {
	s := newPortState(PortConfig{PortID: 0})
	if s.LinkInhibitTimerMsec != LinkInhibitTimerDefaultMsec {
		t.Errorf("LinkInhibitTimerMsec = %d, want default %d", s.LinkInhibitTimerMsec, LinkInhibitTimerDefaultMsec)
	}
	if s.LinkInhibitTimerKxMsec != LinkInhibitTimerKxDefaultMsec {
		t.Errorf("LinkInhibitTimerKxMsec = %d, want default %d", s.LinkInhibitTimerKxMsec, LinkInhibitTimerKxDefaultMsec)
	}
	if s.AnSmType != xcvrtype.SmNone {
		t.Errorf("AnSmType = %v, want SmNone", s.AnSmType)
	}
}
