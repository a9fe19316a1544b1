// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package an

import (
	"github.com/platinasystems/xcvrmgmt/mlog"
	"github.com/platinasystems/xcvrmgmt/xcvrtype"
	"github.com/platinasystems/xcvrmgmt/xerr"
)

// IsPortAutonegReady implements the §4.6 readiness check: derive the
// expected SM type from anMode, and report readiness from ethMode.
func IsPortAutonegReady(ethMode xcvrtype.EthMode, anMode xcvrtype.AnMode) (ready bool, smType xcvrtype.AnSmType) {
	switch anMode {
	case xcvrtype.AnClause73:
		return ethMode == xcvrtype.EthAN73, xcvrtype.SmC73
	case xcvrtype.AnClause37, xcvrtype.AnSgmii:
		return ethMode == xcvrtype.Eth1000BaseX || ethMode == xcvrtype.Sgmii, xcvrtype.SmC37
	default:
		return false, xcvrtype.SmNone
	}
}

// sendConfigEvent implements fm10000AnSendConfigEvent's role: format
// and deliver an AN_CONFIG_REQ/AN_DISABLE_REQ event carrying the
// given autoneg configuration.
func (e *Engine) sendConfigEvent(s *PortState, ev Event, mode xcvrtype.AnMode, basePage Page, nextPages []Page) error {
	if e.Framework == nil {
		return xerr.Unsupportedf("an state machine framework")
	}
	return e.Framework.NotifyStateMachineEvent(s.handle, ev, EventInfo{
		AutoNegMode: mode,
		BasePage:    basePage,
		NextPages:   nextPages,
	})
}

// RestartOnNewConfig implements C7/an_restart_on_new_config: the sole
// entry point permitted to rebind a port's AN state machine or push a
// new negotiation configuration (§4.6 — "directly writing the port's
// AN state is forbidden").
func (e *Engine) RestartOnNewConfig(port xcvrtype.PortIndex, ethMode xcvrtype.EthMode, anMode xcvrtype.AnMode, basePage Page, nextPages []Page) error {
	s := e.Table.Record(port)
	if s == nil {
		return xerr.InvalidPort
	}

	ready, newSmType := IsPortAutonegReady(ethMode, anMode)
	if !ready {
		return nil
	}

	if newSmType != s.AnSmType {
		if s.AnSmType != xcvrtype.SmNone {
			// Disable carries the *current* config, not the
			// new one (§4.6): we are shutting the old SM down.
			if err := e.sendConfigEvent(s, EvDisableReq, s.AutonegMode, s.BasePage, s.NextPages); err != nil {
				mlog.DaemonErr("an: disable_req on port", port, ":", err)
			}
			if e.Framework != nil {
				e.Framework.StopStateMachine(s.handle)
			}
		}

		if e.Framework != nil {
			handle, err := e.Framework.StartStateMachine(port, newSmType, StateDisabled)
			if err != nil {
				return err
			}
			s.handle = handle
		}
		s.AnSmType = newSmType
	}

	switch anMode {
	case xcvrtype.AnClause73:
		s.AnInterruptMask = C73IntMask
	case xcvrtype.AnClause37, xcvrtype.AnSgmii:
		s.AnInterruptMask = C37IntMask
	}

	mlog.Debugf(mlog.AnDebug, "an: port %d an_mode=%v an_interrupt_mask=0x%08x", port, anMode, s.AnInterruptMask)

	s.AutonegMode = anMode
	s.BasePage = basePage
	s.NextPages = nextPages
	s.EthMode = ethMode

	return e.sendConfigEvent(s, EvConfigReq, anMode, basePage, nextPages)
}

// RestartOnEthModeChange implements the xcvr.AnRestarter seam C4
// calls when a module's eth_mode changes: it replays the port's
// currently cached AN configuration against the new eth_mode, so a
// module swap or re-validation can flip a port's readiness without
// the transceiver management engine ever importing this package.
func (e *Engine) RestartOnEthModeChange(sw uint, port xcvrtype.PortIndex, mode xcvrtype.EthMode) {
	s := e.Table.Record(port)
	if s == nil {
		return
	}
	if err := e.RestartOnNewConfig(port, mode, s.AutonegMode, s.BasePage, s.NextPages); err != nil {
		mlog.DaemonErr("an: restart_on_eth_mode_change port", port, ":", err)
	}
}
