// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package an

import (
	"github.com/platinasystems/xcvrmgmt/mlog"
	"github.com/platinasystems/xcvrmgmt/xcvrtype"
)

// AN interrupt-pending bits, Clause 73. Declared in the exact
// dispatch order of §4.4.
const (
	AnIp73AbilityDetect uint32 = 1 << iota
	AnIp73AcknowledgeDetect
	AnIp73CompleteAcknowledge
	AnIp73NextPageWait
	AnIp73AnGoodCheck
	AnIp73AnGood
	AnIp73TransmitDisable
)

// C73IntMask is the AN interrupt mask template bound whenever a port
// runs Clause 73 (§3's "AN interrupt mask reflects the bound SM
// type").
const C73IntMask = AnIp73AbilityDetect | AnIp73AcknowledgeDetect |
	AnIp73CompleteAcknowledge | AnIp73NextPageWait | AnIp73AnGoodCheck |
	AnIp73AnGood | AnIp73TransmitDisable

// AN interrupt-pending bits, Clause 37/SGMII, in §4.4's dispatch
// order.
const (
	AnIp37AnEnable uint32 = 1 << iota
	AnIp37AnRestart
	AnIp37DisableLinkOk
	AnIp37AbilityDetect
	AnIp37CompleteAcknowledge
	AnIp37NextPageWait
	AnIp37IdleDetect
	AnIp37LinkOk
)

// C37IntMask is the Clause 37/SGMII interrupt mask template.
const C37IntMask = AnIp37AnEnable | AnIp37AnRestart | AnIp37DisableLinkOk |
	AnIp37AbilityDetect | AnIp37CompleteAcknowledge | AnIp37NextPageWait |
	AnIp37IdleDetect | AnIp37LinkOk

type ipEvent struct {
	bit uint32
	ev  Event
}

var c73Events = []ipEvent{
	{AnIp73AbilityDetect, EvAn73AbilityDetect},
	{AnIp73AcknowledgeDetect, EvAn73AcknowledgeDetect},
	{AnIp73CompleteAcknowledge, EvAn73CompleteAcknowledge},
	{AnIp73NextPageWait, EvAn73NextPageWait},
	{AnIp73AnGoodCheck, EvAn73AnGoodCheck},
	{AnIp73AnGood, EvAn73AnGood},
	{AnIp73TransmitDisable, EvAn73TransmitDisable},
}

var c37Events = []ipEvent{
	{AnIp37AnEnable, EvAn37Enable},
	{AnIp37AnRestart, EvAn37Restart},
	{AnIp37DisableLinkOk, EvAn37DisableLinkOk},
	{AnIp37AbilityDetect, EvAn37AbilityDetect},
	{AnIp37CompleteAcknowledge, EvAn37CompleteAcknowledge},
	{AnIp37NextPageWait, EvAn37NextPageWait},
	{AnIp37IdleDetect, EvAn37IdleDetect},
	{AnIp37LinkOk, EvAn37LinkOk},
}

// notifyEvents delivers, in table order, the events whose bit is set
// in anIp, aborting on the first error (§4.4, §7).
func (e *Engine) notifyEvents(s *PortState, lane uint, anIp uint32, table []ipEvent) error {
	if e.Framework == nil {
		return nil
	}
	for _, ie := range table {
		if anIp&ie.bit == 0 {
			continue
		}
		if err := e.Framework.NotifyStateMachineEvent(s.handle, ie.ev, EventInfo{PhysLane: lane}); err != nil {
			return err
		}
	}
	return nil
}

// EventHandler implements C5/an_event_handler: the ISR-path entry
// that must not block. It resolves (epl, lane) to a port, dispatches
// the pending bits to that port's bound AN state machine in the
// order of §4.4, and always re-arms the hardware AN-IP mask for the
// bits that were pending on entry, even when the chain aborts early.
func (e *Engine) EventHandler(epl xcvrtype.EplID, lane uint, anIp uint32) error {
	port := e.Table.PortAt(epl, lane)
	if port == xcvrtype.NoPort {
		e.unmask(epl, lane, anIp)
		return nil
	}
	s := e.Table.Record(port)
	if s == nil {
		e.unmask(epl, lane, anIp)
		return nil
	}

	mlog.Debugf(mlog.AnDebug, "an: interrupt on port %d (type %v): 0x%08x", port, s.AnSmType, anIp)

	var err error
	switch s.AnSmType {
	case xcvrtype.SmC73:
		err = e.notifyEvents(s, lane, anIp, c73Events)
	case xcvrtype.SmC37:
		err = e.notifyEvents(s, lane, anIp, c37Events)
	}

	e.unmask(epl, lane, anIp)
	return err
}

func (e *Engine) unmask(epl xcvrtype.EplID, lane uint, anIp uint32) {
	if e.Masker == nil {
		return
	}
	if err := e.Masker.MaskAnIp(e.Sw, epl, lane, anIp, false); err != nil {
		mlog.DaemonErr("an: mask_an_ip:", err)
	}
}
