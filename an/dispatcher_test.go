// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package an

import (
	"testing"

	"github.com/platinasystems/xcvrmgmt/xcvrtype"
)

type fakeFramework struct {
	events []Event
	failAt Event
	fail   bool
}

func (f *fakeFramework) StartStateMachine(port xcvrtype.PortIndex, smType xcvrtype.AnSmType, initial State) (interface{}, error) {
	return 1, nil
}
func (f *fakeFramework) StopStateMachine(handle interface{}) {}
func (f *fakeFramework) NotifyStateMachineEvent(handle interface{}, ev Event, info EventInfo) error {
	if f.fail && ev == f.failAt {
		return errTestAbort
	}
	f.events = append(f.events, ev)
	return nil
}

var errTestAbort = &abortError{}

type abortError struct{}

func (*abortError) Error() string { return "abort" }

type fakeMasker struct {
	calls    int
	lastEpl  xcvrtype.EplID
	lastLane uint
	lastMask uint32
}

func (m *fakeMasker) MaskAnIp(sw uint, epl xcvrtype.EplID, lane uint, mask uint32, enable bool) error {
	m.calls++
	m.lastEpl, m.lastLane, m.lastMask = epl, lane, mask
	return nil
}

func newDispatchEngine(smType xcvrtype.AnSmType) (*Engine, *fakeFramework, *fakeMasker) {
	cfgs := []PortConfig{{PortID: 0, Epl: 1, Lane: 0}}
	fw := &fakeFramework{}
	mk := &fakeMasker{}
	e := NewEngine(0, cfgs, fw, mk, nil, nil, Config{})
	e.Table.Record(0).AnSmType = smType
	return e, fw, mk
}

func TestEventHandlerDispatchesInOrder(t *testing.T) {
	e, fw, mk := newDispatchEngine(xcvrtype.SmC73)
	anIp := AnIp73AnGood | AnIp73AbilityDetect
	if err := e.EventHandler(1, 0, anIp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Event{EvAn73AbilityDetect, EvAn73AnGood}
	if len(fw.events) != len(want) {
		t.Fatalf("got %v events, want %v", fw.events, want)
	}
	for i := range want {
		if fw.events[i] != want[i] {
			t.Errorf("event[%d] = %v, want %v", i, fw.events[i], want[i])
		}
	}
	if mk.calls != 1 {
		t.Errorf("expected MaskAnIp called exactly once, got %d", mk.calls)
	}
	if mk.lastMask != anIp {
		t.Errorf("MaskAnIp mask = 0x%x, want 0x%x", mk.lastMask, anIp)
	}
}

func TestEventHandlerUnmasksEvenOnAbort(t *testing.T) {
	e, fw, mk := newDispatchEngine(xcvrtype.SmC73)
	fw.fail, fw.failAt = true, EvAn73AcknowledgeDetect
	anIp := AnIp73AbilityDetect | AnIp73AcknowledgeDetect | AnIp73AnGood

	err := e.EventHandler(1, 0, anIp)
	if err == nil {
		t.Fatal("expected the abort error to propagate")
	}
	if mk.calls != 1 {
		t.Errorf("expected unmask to run even on abort, got %d calls", mk.calls)
	}
	if len(fw.events) != 1 || fw.events[0] != EvAn73AbilityDetect {
		t.Errorf("expected dispatch to stop after the first event, got %v", fw.events)
	}
}

func TestEventHandlerUnresolvedLaneStillUnmasks(t *testing.T) {
	e, _, mk := newDispatchEngine(xcvrtype.SmC73)
	if err := e.EventHandler(1, 3, AnIp73AnGood); err != nil {
		t.Fatalf("unexpected error for unresolved lane: %v", err)
	}
	if mk.calls != 1 {
		t.Errorf("expected unmask even when no port owns the lane, got %d calls", mk.calls)
	}
}
