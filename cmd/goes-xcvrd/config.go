// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/platinasystems/xcvrmgmt/an"
	"github.com/platinasystems/xcvrmgmt/xcvr"
	"github.com/platinasystems/xcvrmgmt/xcvrtype"
)

// nFrontPanelPorts mirrors mk1's front-panel port count (mk1.go
// iterates 32 front-panel cages); this daemon wires every one
// as a bare SFP+ cage rather than a breakout QSFP, since the board
// this module targets is otherwise unspecified.
const nFrontPanelPorts = 32

// discoverPortConfigs builds the static front-panel port table this
// daemon runs against. A real platform package would derive this
// from board EEPROM/FDT discovery the way goesd-platina-mk1's
// boardInit does; this daemon hard-codes one front-panel layout.
func discoverPortConfigs() []xcvr.PortConfig {
	cfgs := make([]xcvr.PortConfig, nFrontPanelPorts)
	for i := range cfgs {
		cfgs[i] = xcvr.PortConfig{
			PortID:               xcvrtype.PortIndex(i),
			IntfType:             xcvrtype.Sfpp,
			Epl:                  xcvrtype.EplID(i),
			HwResourceID:         uint(i),
			DeclaredCapabilities: capAllSpeeds,
			InitialEthMode:       xcvrtype.Disabled,
		}
	}
	return cfgs
}

const capAllSpeeds = an.CapSpeed1G | an.CapSpeed10G | an.CapSpeed25G |
	an.CapSpeed40G | an.CapSpeed100G

// discoverAnPortConfigs derives package an's port table from the
// already-built transceiver port table: every xcvr port index gets a
// matching AN extension record on the same EPL/lane.
func discoverAnPortConfigs(cfgs []xcvr.PortConfig) []an.PortConfig {
	anCfgs := make([]an.PortConfig, len(cfgs))
	for i, cfg := range cfgs {
		lane := uint(0)
		if cfg.IntfType.IsQsfpLane() {
			lane = cfg.IntfType.Lane()
		}
		anCfgs[i] = an.PortConfig{
			PortID:               cfg.PortID,
			Epl:                  cfg.Epl,
			Lane:                 lane,
			DeclaredCapabilities: cfg.DeclaredCapabilities,
			AutoNeg25GNxtPgOui:   uint32(*flagOui),
		}
	}
	return anCfgs
}
