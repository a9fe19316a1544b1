// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package an

import "github.com/platinasystems/xcvrmgmt/xcvrtype"

// Event is a tagged variant delivered to a port's bound AN state
// machine, matching §4.4's bit-enumeration order for Clause 73 and
// Clause 37.
type Event int

const (
	EvAn73AbilityDetect Event = iota
	EvAn73AcknowledgeDetect
	EvAn73CompleteAcknowledge
	EvAn73NextPageWait
	EvAn73AnGoodCheck
	EvAn73AnGood
	EvAn73TransmitDisable

	EvAn37Enable
	EvAn37Restart
	EvAn37DisableLinkOk
	EvAn37AbilityDetect
	EvAn37CompleteAcknowledge
	EvAn37NextPageWait
	EvAn37IdleDetect
	EvAn37LinkOk

	EvConfigReq
	EvDisableReq
)

// State names the one state C7 ever drives a newly (re)started SM
// into directly; the negotiation protocol's remaining states live
// inside the out-of-scope framework.
type State int

const StateDisabled State = 0

// smHandle is an opaque framework-assigned state machine instance,
// threaded back into Stop/Notify without this package inspecting it.
// It is a type alias (not a distinct named type) so that any
// Framework implementation can use a plain interface{} handle.
type smHandle = interface{}

// EventInfo carries an event's payload: either the physical lane an
// indication event arrived on, or the AN configuration an
// EvConfigReq/EvDisableReq event is requesting.
type EventInfo struct {
	PhysLane    uint
	AutoNegMode xcvrtype.AnMode
	BasePage    Page
	NextPages   []Page
}

// Framework is the out-of-scope, generic table-driven state-machine
// dispatcher named in §1 and §9's design notes: "(sm_type,
// current_state, event) -> (action, next_state)". This module only
// starts/stops instances and feeds them events; it never inspects or
// drives transitions directly, per §4.6's "directly writing the
// port's AN state is forbidden".
type Framework interface {
	StartStateMachine(port xcvrtype.PortIndex, smType xcvrtype.AnSmType, initial State) (smHandle, error)
	StopStateMachine(handle smHandle)
	NotifyStateMachineEvent(handle smHandle, ev Event, info EventInfo) error
}
