// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package xcvrtype holds the enumerations shared by the transceiver
// management engine (xcvr) and the autonegotiation dispatcher (an):
// port interface type, negotiated ethernet mode, module bit state,
// and module identity, in the style of
// vnet/devices/optics/sfp's enum types (Id, ConnectorType, Compliance).
package xcvrtype

import "github.com/platinasystems/xcvrmgmt/elib"

// IntfType identifies how a port's single hardware resource maps onto
// the switch's port table: a bare SFP+ cage, or one of the four lanes
// fanned out of a QSFP cage's EPL.
type IntfType uint8

const (
	Sfpp IntfType = iota
	QsfpLane0
	QsfpLane1
	QsfpLane2
	QsfpLane3
	Other
)

func (t IntfType) String() string {
	var n = [...]string{
		Sfpp:      "sfp+",
		QsfpLane0: "qsfp-lane0",
		QsfpLane1: "qsfp-lane1",
		QsfpLane2: "qsfp-lane2",
		QsfpLane3: "qsfp-lane3",
		Other:     "other",
	}
	return elib.Stringer(n[:], int(t))
}

// IsQsfpLane reports whether t is one of the four QSFP lane interface
// types, regardless of which lane.
func (t IntfType) IsQsfpLane() bool { return t >= QsfpLane0 && t <= QsfpLane3 }

// Lane returns t's lane number within its EPL for a QSFP lane type.
func (t IntfType) Lane() uint { return uint(t - QsfpLane0) }

// ModBit is the bitset over the hardware-reported module signal state
// of §3: PRESENT, ENABLE, RXLOS, TXFAULT, INTR.
type ModBit uint8

const (
	Log2Present, Present ModBit = iota, 1 << iota
	Log2Enable, Enable
	Log2Rxlos, Rxlos
	Log2Txfault, Txfault
	Log2Intr, Intr
)

var modBitNames = [...]string{
	Log2Present: "PRESENT",
	Log2Enable:  "ENABLE",
	Log2Rxlos:   "RXLOS",
	Log2Txfault: "TXFAULT",
	Log2Intr:    "INTR",
}

func (m ModBit) String() string { return elib.FlagStringer(modBitNames[:], elib.Word(m)) }

// XcvrType is the module identity parsed from the EEPROM (C2).
type XcvrType uint8

const (
	NotPresent XcvrType = iota
	Unknown
	SfpSR
	SfpLR
	SfpCu
	SfpCu1000BaseT
	QsfpSR4
	QsfpLR4
	QsfpCR4
	Aoc
	Dac
)

func (t XcvrType) String() string {
	var n = [...]string{
		NotPresent:     "not-present",
		Unknown:        "unknown",
		SfpSR:          "sfp-sr",
		SfpLR:          "sfp-lr",
		SfpCu:          "sfp-cu",
		SfpCu1000BaseT: "sfp-cu-1000base-t",
		QsfpSR4:        "qsfp-sr4",
		QsfpLR4:        "qsfp-lr4",
		QsfpCR4:        "qsfp-cr4",
		Aoc:            "aoc",
		Dac:            "dac",
	}
	return elib.Stringer(n[:], int(t))
}

// EthMode is the negotiated or administratively configured ethernet
// mode of §3/§4.6.
type EthMode uint8

const (
	Disabled EthMode = iota
	Sgmii
	Eth1000BaseX
	Eth1000BaseKX
	EthAN73
	Eth10GBaseKR
	Eth25GBaseKR
	Eth25GBaseCR
	Eth40GBaseKR4
	Eth40GBaseCR4
	Eth100GBaseKR4
	Eth100GBaseCR4
)

func (m EthMode) String() string {
	var n = [...]string{
		Disabled:       "disabled",
		Sgmii:          "sgmii",
		Eth1000BaseX:   "1000base-x",
		Eth1000BaseKX:  "1000base-kx",
		EthAN73:        "an-73",
		Eth10GBaseKR:   "10gbase-kr",
		Eth25GBaseKR:   "25gbase-kr",
		Eth25GBaseCR:   "25gbase-cr",
		Eth40GBaseKR4:  "40gbase-kr4",
		Eth40GBaseCR4:  "40gbase-cr4",
		Eth100GBaseKR4: "100gbase-kr4",
		Eth100GBaseCR4: "100gbase-cr4",
	}
	return elib.Stringer(n[:], int(m))
}

// SpeedMbps returns m's negotiated link speed in Mbit/s, 0 if m does
// not carry a fixed speed (Disabled, AN73 pre-negotiation).
func (m EthMode) SpeedMbps() uint {
	switch m {
	case Sgmii, Eth1000BaseX, Eth1000BaseKX:
		return 1000
	case Eth10GBaseKR:
		return 10000
	case Eth25GBaseKR, Eth25GBaseCR:
		return 25000
	case Eth40GBaseKR4, Eth40GBaseCR4:
		return 40000
	case Eth100GBaseKR4, Eth100GBaseCR4:
		return 100000
	}
	return 0
}

// AnMode is the autonegotiation protocol a port is configured for,
// passed into an_restart_on_new_config (C7).
type AnMode uint8

const (
	AnNone AnMode = iota
	AnSgmii
	AnClause37
	AnClause73
)

func (m AnMode) String() string {
	var n = [...]string{
		AnNone:     "none",
		AnSgmii:    "sgmii",
		AnClause37: "clause-37",
		AnClause73: "clause-73",
	}
	return elib.Stringer(n[:], int(m))
}

// AnSmType names which Clause state machine, if any, is currently
// bound to a port (§3's an_sm_type).
type AnSmType uint8

const (
	SmNone AnSmType = iota
	SmC37
	SmC73
)

func (t AnSmType) String() string {
	var n = [...]string{SmNone: "none", SmC37: "c37", SmC73: "c73"}
	return elib.Stringer(n[:], int(t))
}

// LaneMode is the §4.8 lane-mode picker's output: whether a negotiated
// speed consumes all four SerDes lanes of a QSFP EPL or just one.
type LaneMode uint8

const (
	LaneSingle LaneMode = iota
	LaneQuad
)

func (l LaneMode) String() string {
	if l == LaneQuad {
		return "quad"
	}
	return "single"
}

// PortIndex is the index-handle used throughout this module in place
// of a pointer to a per-port record (per the rewrite's design notes):
// every per-port record, in both xcvr's transceiver table and an's AN
// extension table, is addressed by the same PortIndex space.
type PortIndex int32

// NoPort is the sentinel for "lane has no parent port" / "hardware
// resource id did not resolve to a port" (§4.3, §4.4).
const NoPort PortIndex = -1

// EplID names an Ethernet Port Logic block: an on-die grouping of four
// SerDes lanes shared by one QSFP cage or four independent backplane
// lanes.
type EplID uint16

// EplLaneMap is the fixed EPL-lane-to-port-index map of the rewrite's
// design notes: lanes_of(epl) -> [Option<PortIndex>; 4].
type EplLaneMap struct {
	Port [4]PortIndex
}

// PortAt returns the port index owning the given lane, or NoPort if
// the lane is undefined in this EPL.
func (m *EplLaneMap) PortAt(lane uint) PortIndex {
	if lane >= 4 {
		return NoPort
	}
	return m.Port[lane]
}

// NDefined counts how many of the EPL's four lanes have an owning
// port, used to tell 4×1 single-lane mode from multi-lane (40G/100G)
// mode in §4.3's SerDes fan-out and §8's QSFP_LANE0 notification rule.
func (m *EplLaneMap) NDefined() (n uint) {
	for _, p := range m.Port {
		if p != NoPort {
			n++
		}
	}
	return
}
