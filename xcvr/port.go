// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xcvr

import "github.com/platinasystems/xcvrmgmt/xcvrtype"

// PortConfig is the immutable-per-session port configuration of §3.
type PortConfig struct {
	PortID               xcvrtype.PortIndex
	IntfType             xcvrtype.IntfType
	Epl                  xcvrtype.EplID
	HwResourceID         uint
	DeclaredCapabilities uint64 // speed-bit set, shared encoding with package an's CapSpeed* bits
	InitialEthMode       xcvrtype.EthMode
}

// Record is the per-port-index transceiver record of §3.
type Record struct {
	cfg PortConfig

	ModState xcvrtype.ModBit
	Present  bool

	EthMode   xcvrtype.EthMode
	AnEnabled bool

	Type        xcvrtype.XcvrType
	CableLength uint
	Vendor      VendorInfo
	Monitor     Monitoring

	Eeprom          [CacheSize]byte
	EepromBaseValid bool
	EepromExtValid  bool

	EepromReadRetries int
	ConfigRetries     int

	// Disabled is the §3 administrative disable: set via
	// Manager.SetPortDisabled, independent of the live hardware
	// enable signal in ModState. configure_sfpp_xcvr skips a
	// disabled port entirely, and it is surfaced in PortDump.
	Disabled bool

	// AnRequested is the administratively desired Clause 37/SGMII
	// AN state for a 1000BASE-T copper SFP, set via
	// mgmt_config_sfpp_xcvr_autoneg and compared against AnEnabled
	// in configure_sfpp_xcvr (§4.3).
	AnRequested bool
}

func newRecord(cfg PortConfig) *Record {
	r := &Record{cfg: cfg, EthMode: cfg.InitialEthMode, AnRequested: cfg.InitialEthMode != xcvrtype.Disabled}
	for i := range r.Eeprom {
		r.Eeprom[i] = 0xff
	}
	r.Type = xcvrtype.NotPresent
	return r
}

// Config returns the record's immutable port configuration.
func (r *Record) Config() PortConfig { return r.cfg }

// resetOnAbsence is the update-state PRESENT-change handler of §4.3,
// called when a port's PRESENT bit clears: wipe the cache, identity,
// and retry state of this record, and only this record — see Open
// Question 1.
func (r *Record) resetOnAbsence() {
	for i := range r.Eeprom {
		r.Eeprom[i] = 0xff
	}
	r.Type = xcvrtype.NotPresent
	r.CableLength = 0
	r.Vendor = VendorInfo{}
	r.Monitor = Monitoring{}
	r.EepromBaseValid = false
	r.EepromExtValid = false
	r.EepromReadRetries = 0
	r.ConfigRetries = 0
}

// Table is the switch-owned array of per-port records (C3), indexed
// by PortIndex per the rewrite's design notes rather than by pointer.
type Table struct {
	records []*Record
	eplMap  map[xcvrtype.EplID]*xcvrtype.EplLaneMap
	token   SwitchToken
}

// NewTable allocates per-port records at switch init (mgmt_init, §6)
// for the given port configs. Configs must be supplied in PortIndex
// order; PortIndex i must equal i.
func NewTable(cfgs []PortConfig) *Table {
	t := &Table{
		records: make([]*Record, len(cfgs)),
		eplMap:  make(map[xcvrtype.EplID]*xcvrtype.EplLaneMap),
		token:   NewSwitchToken(),
	}
	for i, cfg := range cfgs {
		t.records[i] = newRecord(cfg)
		m, ok := t.eplMap[cfg.Epl]
		if !ok {
			m = &xcvrtype.EplLaneMap{Port: [4]xcvrtype.PortIndex{
				xcvrtype.NoPort, xcvrtype.NoPort, xcvrtype.NoPort, xcvrtype.NoPort,
			}}
			t.eplMap[cfg.Epl] = m
		}
		if cfg.IntfType.IsQsfpLane() {
			m.Port[cfg.IntfType.Lane()] = cfg.PortID
		} else if cfg.IntfType == xcvrtype.Sfpp {
			m.Port[0] = cfg.PortID
		}
	}
	return t
}

// Len returns the number of configured ports.
func (t *Table) Len() int { return len(t.records) }

// Record returns the record for port, or nil if port is out of range.
func (t *Table) Record(port xcvrtype.PortIndex) *Record {
	if port < 0 || int(port) >= len(t.records) {
		return nil
	}
	return t.records[port]
}

// LanesOf implements the design notes' lanes_of(epl) method.
func (t *Table) LanesOf(epl xcvrtype.EplID) *xcvrtype.EplLaneMap {
	return t.eplMap[epl]
}

// PortByHwResourceID resolves a hardware resource id back to a port
// index, used by update-state's interrupt-pending translation (§4.3).
// Mismatches are expected and handled by the caller, never fatal
// (§7).
func (t *Table) PortByHwResourceID(id uint) xcvrtype.PortIndex {
	for i, r := range t.records {
		if r.cfg.HwResourceID == id {
			return xcvrtype.PortIndex(i)
		}
	}
	return xcvrtype.NoPort
}

// EepromOwner implements §3's invariant that only the port-index
// holding QSFP_LANE0 owns the EEPROM cache: queries on LANE1..3
// redirect to LANE0. For SFP+ and OTHER ports it is the port itself.
func (t *Table) EepromOwner(port xcvrtype.PortIndex) xcvrtype.PortIndex {
	r := t.Record(port)
	if r == nil {
		return xcvrtype.NoPort
	}
	if !r.cfg.IntfType.IsQsfpLane() {
		return port
	}
	m := t.LanesOf(r.cfg.Epl)
	if m == nil {
		return port
	}
	return m.PortAt(0)
}

// SwitchToken is the try-acquire "switch protection token" of §5: a
// single-slot channel used as a mutex whose TryAcquire never blocks,
// matching the mgmt task's "on contention, abandon the iteration and
// retry next wake" rule.
type SwitchToken chan struct{}

func NewSwitchToken() SwitchToken {
	t := make(SwitchToken, 1)
	t <- struct{}{}
	return t
}

// Acquire blocks until the token is available; used by the
// synchronous upward API calls (mgmt_xcvr_initialize,
// mgmt_enable_interrupt) which are not subject to the mgmt task's
// try-and-abandon rule.
func (t SwitchToken) Acquire() { <-t }

func (t SwitchToken) TryAcquire() bool {
	select {
	case <-t:
		return true
	default:
		return false
	}
}

func (t SwitchToken) Release() { t <- struct{}{} }

// Token exposes the table's switch protection token to the mgmt
// engine and to the upward API's synchronous calls.
func (t *Table) Token() SwitchToken { return t.token }
