// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xcvr

import (
	"fmt"

	"github.com/platinasystems/xcvrmgmt/mlog"
	"github.com/platinasystems/xcvrmgmt/xcvrtype"
	"github.com/platinasystems/xcvrmgmt/xerr"
)

// Manager bundles the §6 upward API over one switch's Engine and
// Table, the way the driver's switch object exposes one xcvr handle
// per asic instance.
type Manager struct {
	Sw     uint
	Table  *Table
	Engine *Engine
}

// NewManager implements mgmt_init: allocate the port table and the
// management engine for one switch.
func NewManager(sw uint, cfgs []PortConfig, facade Facade, serdes SerDes, phy PhyDriver, notifier Notifier, anRestart AnRestarter, cfg Config) *Manager {
	mlog.Debug = cfg.Debug
	table := NewTable(cfgs)
	eng := NewEngine(sw, table, facade, serdes, phy, notifier, anRestart, cfg)
	m := &Manager{Sw: sw, Table: table, Engine: eng}
	eng.Init()
	return m
}

// XcvrInitialize implements mgmt_xcvr_initialize.
func (m *Manager) XcvrInitialize() { m.Engine.XcvrInitialize() }

// EnableInterrupt implements mgmt_enable_interrupt.
func (m *Manager) EnableInterrupt() { m.Engine.EnableInterrupt() }

// SignalInterrupt implements mgmt_signal_interrupt.
func (m *Manager) SignalInterrupt(gpio uint) { m.Engine.SignalInterrupt(gpio) }

// SignalPollingThread implements mgmt_signal_polling_thread.
func (m *Manager) SignalPollingThread() { m.Engine.SignalPollingThread() }

// Stop terminates the mgmt task, used only at switch teardown (§5).
func (m *Manager) Stop() { m.Engine.Stop() }

// GetTransceiverType implements mgmt_get_transceiver_type: a read of
// the cached, EEPROM-owner-redirected identity and cable length,
// never triggering I/O.
func (m *Manager) GetTransceiverType(port xcvrtype.PortIndex) (xcvrtype.XcvrType, uint, error) {
	owner := m.Table.EepromOwner(port)
	r := m.Table.Record(owner)
	if r == nil {
		return xcvrtype.NotPresent, 0, xerr.InvalidPort
	}
	return r.Type, r.CableLength, nil
}

// SetPortDisabled sets the §3 administrative disable for a port: a
// disabled port is skipped entirely by configure_sfpp_xcvr regardless
// of its live hardware enable signal.
func (m *Manager) SetPortDisabled(port xcvrtype.PortIndex, disabled bool) error {
	r := m.Table.Record(port)
	if r == nil {
		return xerr.InvalidPort
	}
	r.Disabled = disabled
	return nil
}

// NotifyEthModeChange implements mgmt_notify_eth_mode_change: the
// upward caller (the port's owning driver layer, after an AN restart
// or administrative reconfiguration) tells this module the port's
// negotiated ethernet mode changed. The SerDes TX settings are
// reapplied at once; for an SFP+ port with a module present the
// rate-select/AN config is reapplied inline when polling is disabled,
// or left to the retry-config sweep when polling is enabled.
func (m *Manager) NotifyEthModeChange(port xcvrtype.PortIndex, mode xcvrtype.EthMode) error {
	r := m.Table.Record(port)
	if r == nil {
		return xerr.InvalidPort
	}
	r.EthMode = mode
	m.Engine.updateSerdes(port)
	m.Engine.updateXcvrConfigWithRetry(port, MaxConfigRetry)
	return nil
}

// ConfigSfppXcvrAutoneg implements mgmt_config_sfpp_xcvr_autoneg: sets
// the administratively desired Clause 28/37 AN state for a 1000BASE-T
// copper SFP+ port and schedules the background config-retry sweep
// to apply it. There is no polling thread to pick the scheduled
// retry up when polling is disabled, so this is unsupported in that
// configuration; it never reconfigures inline.
func (m *Manager) ConfigSfppXcvrAutoneg(port xcvrtype.PortIndex, enable bool) error {
	r := m.Table.Record(port)
	if r == nil {
		return xerr.InvalidPort
	}
	if r.cfg.IntfType != xcvrtype.Sfpp {
		return xerr.Unsupportedf("config_sfpp_xcvr_autoneg on non-sfp+ port %d", port)
	}
	if m.Engine.Cfg.XcvrPollPeriod == 0 {
		return xerr.Unsupportedf("config_sfpp_xcvr_autoneg on port %d: requires polling enabled", port)
	}
	r.AnRequested = enable
	r.ConfigRetries = MaxConfigRetry
	m.Engine.SignalPollingThread()
	return nil
}

// DumpPort implements mgmt_dump_port: a diagnostics-only snapshot of
// one port's transceiver record, matching the field set a "show"
// command would print rather than any wire format.
type PortDump struct {
	Port              xcvrtype.PortIndex
	IntfType          xcvrtype.IntfType
	Present           bool
	ModState          xcvrtype.ModBit
	Type              xcvrtype.XcvrType
	EthMode           xcvrtype.EthMode
	CableLength       uint
	Disabled          bool
	AnEnabled         bool
	AnRequested       bool
	EepromBaseValid   bool
	EepromExtValid    bool
	EepromReadRetries int
	ConfigRetries     int
	Vendor            VendorInfo
	Monitor           Monitoring
}

func (d PortDump) String() string {
	s := fmt.Sprintf(
		"port %d (%s): present=%v state=%v type=%v eth-mode=%v cable=%dm disabled=%v an-enabled=%v an-requested=%v base-csum=%v ext-csum=%v eeprom-retries=%d config-retries=%d",
		d.Port, d.IntfType, d.Present, d.ModState, d.Type, d.EthMode, d.CableLength, d.Disabled,
		d.AnEnabled, d.AnRequested, d.EepromBaseValid, d.EepromExtValid, d.EepromReadRetries, d.ConfigRetries)
	if d.Present {
		s += fmt.Sprintf("\n  vendor=%q part=%q rev=%q serial=%q date=%q",
			d.Vendor.Name, d.Vendor.PartNumber, d.Vendor.Revision, d.Vendor.SerialNumber, d.Vendor.DateCode)
	}
	if d.EepromExtValid {
		s += fmt.Sprintf("\n  temp=%.1fC vcc=%.2fV tx-bias=%.1fmA tx-power=%.1fuW rx-power=%.1fuW",
			d.Monitor.TemperatureCelsius, d.Monitor.SupplyVolts, d.Monitor.TxBiasAmps*1000,
			d.Monitor.TxPowerWatts*1e6, d.Monitor.RxPowerWatts*1e6)
	}
	return s
}

// DumpPort implements mgmt_dump_port.
func (m *Manager) DumpPort(port xcvrtype.PortIndex) (PortDump, error) {
	r := m.Table.Record(port)
	if r == nil {
		return PortDump{}, xerr.InvalidPort
	}
	return PortDump{
		Port:              port,
		IntfType:          r.cfg.IntfType,
		Present:           r.Present,
		ModState:          r.ModState,
		Type:              r.Type,
		EthMode:           r.EthMode,
		CableLength:       r.CableLength,
		Disabled:          r.Disabled,
		AnEnabled:         r.AnEnabled,
		AnRequested:       r.AnRequested,
		EepromBaseValid:   r.EepromBaseValid,
		EepromExtValid:    r.EepromExtValid,
		EepromReadRetries: r.EepromReadRetries,
		ConfigRetries:     r.ConfigRetries,
		Vendor:            r.Vendor,
		Monitor:           r.Monitor,
	}, nil
}
