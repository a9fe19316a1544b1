// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xcvr

import (
	"sort"
	"sync"
	"time"

	"github.com/jpillora/backoff"

	"github.com/platinasystems/xcvrmgmt/mlog"
	"github.com/platinasystems/xcvrmgmt/xcvrtype"
	"github.com/platinasystems/xcvrmgmt/xerr"
)

// MaxEepromReadRetry and MaxConfigRetry are the retry budgets of §3's
// eeprom_read_retries/config_retries counters.
const (
	MaxEepromReadRetry = 4
	MaxConfigRetry     = 4
)

// Config holds the §6 "Configuration recognised" fields this package
// owns.
type Config struct {
	// XcvrPollPeriod is xcvrPollPeriodMsec: 0 disables the mgmt
	// task.
	XcvrPollPeriod time.Duration
	// GpioPortIntr is the port-interrupt GPIO, or nil if undefined.
	GpioPortIntr *uint
	Debug        mlog.DebugFlag
}

// Engine is C4, the single per-switch transceiver management task
// plus its event-driven update path.
type Engine struct {
	Sw       uint
	Table    *Table
	Facade   Facade
	SerDes   SerDes
	Phy      PhyDriver
	Notifier Notifier
	AnRestart AnRestarter
	Cfg      Config

	wake chan struct{}
	stop chan struct{}
	wg   sync.WaitGroup

	mu               sync.Mutex
	interruptPending bool
	pollingPending   bool
	enabled          bool

	// logBackoff paces repeated identical select_bus/bulk-read
	// error logs so a stuck I²C bus does not flood the log once
	// per poll tick; unrelated to the per-port retry counters,
	// which stay plain decrementing ints so the §8 invariant
	// ("retry counters decrease monotonically between successes")
	// holds exactly.
	logBackoff  *backoff.Backoff
	nextLogAt   time.Time
}

// NewEngine constructs the mgmt engine over an already-allocated port
// table. Collaborators may be nil; their absence degrades the
// corresponding feature rather than panicking (Facade capabilities
// are additionally probed per-method, §4.1).
func NewEngine(sw uint, table *Table, facade Facade, serdes SerDes, phy PhyDriver, notifier Notifier, anRestart AnRestarter, cfg Config) *Engine {
	return &Engine{
		Sw:        sw,
		Table:     table,
		Facade:    facade,
		SerDes:    serdes,
		Phy:       phy,
		Notifier:  notifier,
		AnRestart: anRestart,
		Cfg:       cfg,
		wake:      make(chan struct{}, 1),
		stop:      make(chan struct{}),
		logBackoff: &backoff.Backoff{
			Min:    1 * time.Second,
			Max:    30 * time.Second,
			Factor: 2,
		},
	}
}

func (e *Engine) signal() {
	select {
	case e.wake <- struct{}{}:
	default:
	}
}

// SignalInterrupt implements mgmt_signal_interrupt: ISR-context entry,
// must not block. It re-arms the GPIO and wakes the mgmt task.
func (e *Engine) SignalInterrupt(gpio uint) {
	e.mu.Lock()
	e.interruptPending = true
	e.mu.Unlock()
	if u, ok := e.Facade.(GpioIntrUnmasker); ok {
		if err := u.GpioUnmaskIntr(e.Sw, gpio); err != nil {
			mlog.DaemonErr("xcvr: gpio_unmask_intr:", err)
		}
	}
	e.signal()
}

// SignalPollingThread implements mgmt_signal_polling_thread.
func (e *Engine) SignalPollingThread() {
	e.mu.Lock()
	e.pollingPending = true
	e.mu.Unlock()
	e.signal()
}

func (e *Engine) consumeWakeReasons() (interrupt, polling bool) {
	e.mu.Lock()
	interrupt, e.interruptPending = e.interruptPending, false
	polling, e.pollingPending = e.pollingPending, false
	e.mu.Unlock()
	return
}

func (e *Engine) setEnabled(v bool) {
	e.mu.Lock()
	e.enabled = v
	e.mu.Unlock()
}

func (e *Engine) isEnabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.enabled
}

// run is the mgmt task's loop (§4.3, §5): wake on the binary semaphore
// or on the configured poll period, whichever first; try the switch
// protection token; abandon the iteration on contention rather than
// blocking.
func (e *Engine) run() {
	defer e.wg.Done()
	period := e.Cfg.XcvrPollPeriod
	if period <= 0 {
		period = time.Second
	}
	timer := time.NewTimer(period)
	defer timer.Stop()
	for {
		var fromTimer bool
		select {
		case <-e.stop:
			return
		case <-e.wake:
		case <-timer.C:
			fromTimer = true
		}
		if !fromTimer {
			timer.Reset(period)
		} else {
			timer.Reset(period)
		}

		if !e.Table.Token().TryAcquire() {
			continue
		}
		interrupt, polling := e.consumeWakeReasons()
		if e.isEnabled() {
			if polling || fromTimer {
				e.retryEepromReadSweep()
				e.retryConfigSweep()
			}
			if interrupt || fromTimer {
				e.updateState(interrupt, false)
			}
		}
		e.Table.Token().Release()
	}
}

// Init implements mgmt_init: start the mgmt task if the configured
// poll period is positive.
func (e *Engine) Init() {
	if e.Cfg.XcvrPollPeriod > 0 {
		e.wg.Add(1)
		go e.run()
	}
}

// Stop terminates the mgmt task at switch teardown (§5: "the mgmt
// task is terminated only at switch teardown").
func (e *Engine) Stop() {
	close(e.stop)
	e.wg.Wait()
}

// XcvrInitialize implements mgmt_xcvr_initialize: a one-time
// synchronous state+EEPROM sweep, independent of whether the
// background task is running.
func (e *Engine) XcvrInitialize() {
	e.Table.Token().Acquire()
	e.updateState(false, true)
	e.Table.Token().Release()
}

// EnableInterrupt implements mgmt_enable_interrupt: program the
// facade and the port-interrupt GPIO, run one forced update sweep,
// then set enable_mgmt.
func (e *Engine) EnableInterrupt() {
	hwIDs := make([]uint, 0, e.Table.Len())
	enable := make([]bool, 0, e.Table.Len())
	for i := 0; i < e.Table.Len(); i++ {
		r := e.Table.records[i]
		if r.cfg.IntfType == xcvrtype.Sfpp || r.cfg.IntfType == xcvrtype.QsfpLane0 {
			hwIDs = append(hwIDs, r.cfg.HwResourceID)
			enable = append(enable, true)
		}
	}
	if en, ok := e.Facade.(PortIntrEnabler); ok {
		if err := en.EnablePortIntr(e.Sw, hwIDs, enable); err != nil {
			mlog.DaemonErr("xcvr: enable_port_intr:", err)
		}
	}
	if e.Cfg.GpioPortIntr != nil {
		if d, ok := e.Facade.(GpioDirSetter); ok {
			if err := d.GpioSetDir(e.Sw, *e.Cfg.GpioPortIntr, false); err != nil {
				mlog.DaemonErr("xcvr: gpio_set_dir:", err)
			}
		}
	}
	e.Table.Token().Acquire()
	e.updateState(false, true)
	e.Table.Token().Release()
	e.setEnabled(true)
}

// updateState is the §4.3 update-state algorithm.
func (e *Engine) updateState(interrupt, force bool) {
	hwIDs := e.candidatePorts(interrupt)
	if len(hwIDs) == 0 {
		return
	}
	if bs, ok := e.Facade.(BusSelector); ok {
		kind := BusSfpp
		if p := e.Table.PortByHwResourceID(hwIDs[0]); p != xcvrtype.NoPort {
			if e.Table.Record(p).cfg.IntfType != xcvrtype.Sfpp {
				kind = BusQsfp
			}
		}
		// select_bus errors are logged, never abort the
		// sequence, so the lock is always released at the
		// normal exit point (§4.3, §7).
		if err := bs.SelectBus(e.Sw, kind, hwIDs[0]); err != nil {
			e.rateLimitedLog("xcvr: select_bus:", err)
		}
	}
	sg, ok := e.Facade.(PortXcvrStateGetter)
	if !ok {
		return
	}
	validMask, stateMask, err := sg.GetPortXcvrState(e.Sw, hwIDs)
	if err != nil {
		e.rateLimitedLog("xcvr: get_port_xcvr_state:", err)
		return
	}
	e.logBackoff.Reset()

	type item struct {
		port         xcvrtype.PortIndex
		valid, state xcvrtype.ModBit
	}
	items := make([]item, 0, len(hwIDs))
	mismatches := 0
	for i, id := range hwIDs {
		p := e.Table.PortByHwResourceID(id)
		if p == xcvrtype.NoPort {
			mismatches++
			continue
		}
		items = append(items, item{p, validMask[i], stateMask[i]})
	}
	if mismatches > 0 {
		mlog.Debugf(mlog.ModIntrDebug, "xcvr: %d hw resource ids did not resolve to a port", mismatches)
	}
	// Ordering guarantee (b): process all ports in port-index order.
	sort.Slice(items, func(a, b int) bool { return items[a].port < items[b].port })

	for _, it := range items {
		e.updatePort(it.port, it.valid, it.state, interrupt, force)
	}
}

func (e *Engine) rateLimitedLog(args ...interface{}) {
	now := time.Now()
	if now.Before(e.nextLogAt) {
		return
	}
	e.nextLogAt = now.Add(e.logBackoff.Duration())
	mlog.DaemonErr(args...)
}

// candidatePorts builds the §4.3 candidate port list: pending
// hardware resource ids when interrupt-driven and the capability is
// present, otherwise every SFP+/QSFP_LANE0 port.
func (e *Engine) candidatePorts(interrupt bool) []uint {
	if interrupt {
		if pg, ok := e.Facade.(PortIntrPendingGetter); ok {
			ids, err := pg.GetPortIntrPending(e.Sw, e.Table.Len())
			if err != nil {
				mlog.DaemonErr("xcvr: get_port_intr_pending:", err)
				return nil
			}
			return ids
		}
	}
	hwIDs := make([]uint, 0, e.Table.Len())
	for i := 0; i < e.Table.Len(); i++ {
		r := e.Table.records[i]
		if r.cfg.IntfType == xcvrtype.Sfpp || r.cfg.IntfType == xcvrtype.QsfpLane0 {
			hwIDs = append(hwIDs, r.cfg.HwResourceID)
		}
	}
	return hwIDs
}

// updatePort applies one port's hardware-signal delta, per §4.3's bit
// by bit PRESENT/ENABLE/RXLOS/TXFAULT/INTR handling.
func (e *Engine) updatePort(port xcvrtype.PortIndex, valid, newState xcvrtype.ModBit, interrupt, force bool) {
	r := e.Table.Record(port)
	if r == nil {
		return
	}
	old := r.ModState
	xor := (old ^ newState) & valid
	notify := false
	if xor != 0 {
		r.ModState = (old &^ valid) | (newState & valid)

		if xor&xcvrtype.Present != 0 {
			r.Present = r.ModState&xcvrtype.Present != 0
			if !r.Present {
				r.resetOnAbsence()
			}
			mlog.Debugf(mlog.ModStateDebug, "xcvr: port %d present=%v", port, r.Present)
			notify = true
		}
		if xor&xcvrtype.Enable != 0 {
			r.AnEnabled = false
			r.ConfigRetries = 0
			notify = true
		}
		if xor&xcvrtype.Rxlos != 0 {
			notify = true
		}
		if xor&xcvrtype.Txfault != 0 {
			notify = true
		}
		if xor&xcvrtype.Intr != 0 {
			mlog.Debugf(mlog.ModIntrDebug, "xcvr: port %d INTR", port)
			// Logged, never latched (§4.3).
			r.ModState &^= xcvrtype.Intr
		}
	}

	if notify && r.Present && r.ModState&xcvrtype.Enable != 0 {
		if err := e.readAndValidateEeprom(port, false); err == nil {
			e.updateSerdes(port)
			e.updateXcvrConfigWithRetry(port, MaxConfigRetry)
			if e.AnRestart != nil {
				e.AnRestart.RestartOnEthModeChange(e.Sw, port, r.EthMode)
			}
		}
	}

	if notify || force {
		e.composeAndNotify(port)
	}
}

// readAndValidateEeprom implements §4.3's read-and-validate-EEPROM.
// It always targets the EEPROM-owning record (§3), which for an SFP+
// or OTHER port is the port itself.
func (e *Engine) readAndValidateEeprom(port xcvrtype.PortIndex, isRetry bool) error {
	owner := e.Table.EepromOwner(port)
	r := e.Table.Record(owner)
	if r == nil {
		return xerr.InvalidPort
	}
	er, ok := e.Facade.(XcvrEepromReader)
	if !ok {
		return xerr.Unsupportedf("xcvr_eeprom_read")
	}
	var buf [CacheSize]byte
	err := er.XcvrEepromRead(e.Sw, r.cfg.HwResourceID, 0xa0, 0, buf[:])
	if err != nil {
		if !isRetry {
			r.EepromReadRetries = MaxEepromReadRetry
		} else if r.EepromReadRetries > 0 {
			r.EepromReadRetries--
		}
		r.Type = xcvrtype.Unknown
		return err
	}
	r.Eeprom = buf
	r.EepromBaseValid = IsBaseCsumValid(r.Eeprom[:])
	r.EepromExtValid = IsExtCsumValid(r.Eeprom[:])
	r.Type = GetType(r.Eeprom[:])
	r.CableLength = GetLength(r.Eeprom[:])
	r.Vendor = GetVendorInfo(r.Eeprom[:])
	if r.EepromExtValid {
		r.Monitor = GetMonitoring(r.Eeprom[:])
	}
	mlog.Debugf(mlog.ModTypeDebug, "xcvr: port %d type=%v length=%dm", owner, r.Type, r.CableLength)
	return nil
}

// retryEepromReadSweep implements §4.3's retry-eeprom-read sweep.
func (e *Engine) retryEepromReadSweep() {
	for i := 0; i < e.Table.Len(); i++ {
		port := xcvrtype.PortIndex(i)
		r := e.Table.Record(port)
		if r.EepromReadRetries <= 0 {
			continue
		}
		if err := e.readAndValidateEeprom(port, true); err == nil {
			r.EepromReadRetries = 0
			e.updateSerdes(port)
		}
	}
}

// retryConfigSweep implements §4.3's retry-config sweep.
func (e *Engine) retryConfigSweep() {
	for i := 0; i < e.Table.Len(); i++ {
		port := xcvrtype.PortIndex(i)
		r := e.Table.Record(port)
		if r.cfg.IntfType != xcvrtype.Sfpp {
			continue
		}
		if !r.EepromBaseValid || r.ConfigRetries <= 0 {
			continue
		}
		r.ConfigRetries--
		if err := e.configureSfppXcvr(port); err == nil {
			r.ConfigRetries = 0
		} else if r.ConfigRetries == 0 {
			mlog.DaemonErr("xcvr: port", port, "config retries exhausted:", err)
		}
	}
}

// configureSfppXcvr implements §4.3's configure-sfpp-xcvr policy.
func (e *Engine) configureSfppXcvr(port xcvrtype.PortIndex) error {
	r := e.Table.Record(port)
	if r.Disabled || r.ModState&xcvrtype.Enable == 0 {
		return nil
	}
	if Is10G1GDualRate(r.Eeprom[:]) {
		val := byte(0x08)
		switch r.EthMode {
		case xcvrtype.Disabled, xcvrtype.Sgmii, xcvrtype.Eth1000BaseX, xcvrtype.Eth1000BaseKX:
			val = 0x00
		}
		mw, ok := e.Facade.(XcvrMemWriter)
		if !ok {
			return xerr.Unsupportedf("xcvr_mem_write")
		}
		if err := mw.XcvrMemWrite(e.Sw, r.cfg.HwResourceID, 1, 110, []byte{val}); err != nil {
			return err
		}
		if err := mw.XcvrMemWrite(e.Sw, r.cfg.HwResourceID, 1, 118, []byte{val}); err != nil {
			return err
		}
	}
	if Is1000BaseT(r.Eeprom[:]) {
		desired := r.AnRequested
		if desired != r.AnEnabled {
			if e.Phy != nil {
				if err := e.Phy.Enable1000BaseTAutoneg(e.Sw, port, desired); err != nil {
					return err
				}
			}
			r.AnEnabled = desired
		}
	}
	return nil
}

// updateSerdes implements §4.3's update-SerDes.
func (e *Engine) updateSerdes(port xcvrtype.PortIndex) {
	if e.SerDes == nil {
		return
	}
	r := e.Table.Record(port)
	switch r.cfg.IntfType {
	case xcvrtype.Sfpp:
		e.SerDes.ConfigureSingleLaneTx(e.Sw, port, r.EthMode)
	case xcvrtype.QsfpLane0:
		m := e.Table.LanesOf(r.cfg.Epl)
		if m != nil && m.NDefined() > 1 {
			for lane := uint(0); lane < 4; lane++ {
				lp := m.PortAt(lane)
				if lp == xcvrtype.NoPort {
					continue
				}
				lr := e.Table.Record(lp)
				e.SerDes.ConfigureSingleLaneTx(e.Sw, lp, lr.EthMode)
			}
		} else {
			e.SerDes.ConfigureMultiLaneTx(e.Sw, port, r.EthMode)
		}
	}
}

// updateXcvrConfigWithRetry implements §4's notify-eth-mode-change
// policy for SFP+ ports with a module present: poll disabled
// reconfigures inline; poll enabled only schedules the retry sweep
// (retryConfigSweep) rather than attempting an inline write that
// would race the polling thread.
func (e *Engine) updateXcvrConfigWithRetry(port xcvrtype.PortIndex, budget int) {
	r := e.Table.Record(port)
	if r.cfg.IntfType != xcvrtype.Sfpp || !r.Present {
		return
	}
	if e.Cfg.XcvrPollPeriod == 0 {
		if err := e.configureSfppXcvr(port); err != nil {
			r.ConfigRetries = budget
			mlog.Debugf(mlog.ModStateDebug, "xcvr: port %d configure_sfpp_xcvr: %v", port, err)
		} else {
			r.ConfigRetries = 0
		}
		return
	}
	r.ConfigRetries = budget
	e.SignalPollingThread()
}

// composeAndNotify implements §4.3's upward-signal composition and
// the QSFP_LANE0 fan-out rule of §8.
func (e *Engine) composeAndNotify(port xcvrtype.PortIndex) {
	r := e.Table.Record(port)
	sig := r.ModState & (xcvrtype.Present | xcvrtype.Rxlos | xcvrtype.Txfault)
	ev := ChangeEvent{Port: port, Signals: sig}

	if e.Notifier != nil {
		e.Notifier.XcvrStateEvent(ev)
	}
	if e.Notifier == nil {
		return
	}
	if r.cfg.IntfType == xcvrtype.QsfpLane0 {
		m := e.Table.LanesOf(r.cfg.Epl)
		if m != nil && m.NDefined() > 1 {
			// 4×1 single-lane mode: once per defined lane-port
			// whose eth_mode != DISABLED.
			for lane := uint(0); lane < 4; lane++ {
				lp := m.PortAt(lane)
				if lp == xcvrtype.NoPort {
					continue
				}
				lr := e.Table.Record(lp)
				if lr.EthMode != xcvrtype.Disabled {
					e.Notifier.NotifyXcvrChange(ChangeEvent{Port: lp, Signals: sig})
				}
			}
			return
		}
	}
	// Multi-lane QSFP mode: once per lane 0..3 on the lane-0 record
	// itself, per §4.3. Any non-QSFP port: once on its own record.
	if r.EthMode == xcvrtype.Disabled {
		return
	}
	n := 1
	if r.cfg.IntfType == xcvrtype.QsfpLane0 {
		n = 4
	}
	for i := 0; i < n; i++ {
		e.Notifier.NotifyXcvrChange(ev)
	}
}
