// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package an

import (
	"sync"

	"github.com/platinasystems/xcvrmgmt/mlog"
	"github.com/platinasystems/xcvrmgmt/xcvrtype"
	"github.com/platinasystems/xcvrmgmt/xerr"
)

// AnIpMasker re-arms a lane's hardware AN interrupt-pending mask,
// the facade capability C5 always calls on its way out.
type AnIpMasker interface {
	MaskAnIp(sw uint, epl xcvrtype.EplID, lane uint, mask uint32, enable bool) error
}

// RegisterAccessor is the out-of-scope switch-register read/write
// primitive used only by An73SetIgnoreNonce's read-modify-write of
// AN_73_CFG (§6).
type RegisterAccessor interface {
	ReadReg(sw uint, addr uint32) (uint32, error)
	WriteReg(sw uint, addr uint32, val uint32) error
}

// Config holds the §6 configuration fields this package owns.
type Config struct {
	AnTimerAllowOutSpec bool
	AutoNeg25GNxtPgOui  uint32
	Debug               mlog.DebugFlag
}

// Engine is C5+C6+C7+C8+C9 bundled over one switch's AN port table,
// mirroring package xcvr's Manager/Engine split: a thin upward-API
// object over collaborator interfaces and a private port table.
type Engine struct {
	Sw        uint
	Table     *Table
	Framework Framework
	Masker    AnIpMasker
	Reg       RegisterAccessor
	Caps      MultiLaneCapable
	Cfg       Config

	regMu sync.Mutex
}

// NewEngine allocates the AN port table and binds collaborators.
// Collaborators may be nil; degraded capabilities are checked at each
// call site, in C1's style.
func NewEngine(sw uint, cfgs []PortConfig, framework Framework, masker AnIpMasker, reg RegisterAccessor, caps MultiLaneCapable, cfg Config) *Engine {
	return &Engine{
		Sw:        sw,
		Table:     NewTable(cfgs),
		Framework: framework,
		Masker:    masker,
		Reg:       reg,
		Caps:      caps,
		Cfg:       cfg,
	}
}

// AnValidateBasePage implements an_validate_base_page.
func (e *Engine) AnValidateBasePage(port xcvrtype.PortIndex, mode xcvrtype.AnMode, basePage Page) (Page, error) {
	s := e.Table.Record(port)
	if s == nil {
		return basePage, xerr.InvalidPort
	}
	if mode != xcvrtype.AnClause73 {
		return basePage, nil
	}
	return ValidateBasePage(s.cfg.DeclaredCapabilities, basePage)
}

// AnAddNextPage implements an_add_next_page.
func (e *Engine) AnAddNextPage(port xcvrtype.PortIndex, page Page) error {
	s := e.Table.Record(port)
	if s == nil {
		return xerr.InvalidPort
	}
	return s.AddNextPage(page)
}

// AnVerifyEeeNegotiation implements an_verify_eee_negotiation.
func (e *Engine) AnVerifyEeeNegotiation(port xcvrtype.PortIndex, ethMode xcvrtype.EthMode) error {
	s := e.Table.Record(port)
	if s == nil {
		return xerr.InvalidPort
	}
	s.NegotiatedEeeEnabled = VerifyEeeNegotiation(s.AutonegMode, ethMode, s.PartnerNextPages)
	mlog.Debugf(mlog.AnDebug, "an: port %d eee negotiated=%v", port, s.NegotiatedEeeEnabled)
	return nil
}

// AnGetMaxSpeedAbilityAndMode implements an_get_max_speed_ability_and_mode
// (§4.8), using the port's own OUI configuration.
func (e *Engine) AnGetMaxSpeedAbilityAndMode(port xcvrtype.PortIndex, mode xcvrtype.AnMode, basePage Page, nextPages []Page) (maxSpeedMbps uint, laneMode xcvrtype.LaneMode, err error) {
	s := e.Table.Record(port)
	if s == nil {
		return 0, xcvrtype.LaneSingle, xerr.InvalidPort
	}
	maxSpeedMbps, laneMode = GetMaxSpeedAbilityAndMode(port, mode, basePage, nextPages, s.cfg.AutoNeg25GNxtPgOui, e.Caps)
	return maxSpeedMbps, laneMode, nil
}

// An73SetLinkInhibitTimer implements an_73_set_link_inhibit_timer.
func (e *Engine) An73SetLinkInhibitTimer(port xcvrtype.PortIndex, timeoutMsec uint) error {
	s := e.Table.Record(port)
	if s == nil {
		return xerr.InvalidPort
	}
	v, err := ValidateLinkInhibitTimer(timeoutMsec, LinkInhibitTimerDefaultMsec, e.Cfg.AnTimerAllowOutSpec)
	if err != nil {
		return err
	}
	s.LinkInhibitTimerMsec = v
	return nil
}

// An73SetLinkInhibitTimerKx implements an_73_set_link_inhibit_timer_kx.
func (e *Engine) An73SetLinkInhibitTimerKx(port xcvrtype.PortIndex, timeoutMsec uint) error {
	s := e.Table.Record(port)
	if s == nil {
		return xerr.InvalidPort
	}
	v, err := ValidateLinkInhibitTimer(timeoutMsec, LinkInhibitTimerKxDefaultMsec, e.Cfg.AnTimerAllowOutSpec)
	if err != nil {
		return err
	}
	s.LinkInhibitTimerKxMsec = v
	return nil
}

// an73CfgIgnoreNonceMatch is the AN_73_CFG.IgnoreNonceMatch bit this
// module read-modify-writes; the rest of the register is preserved.
const an73CfgIgnoreNonceMatch uint32 = 1 << 0

// An73CfgAddresser supplies the AN_73_CFG register address: real
// switch register maps index AN_73_CFG by (epl, lane), which this
// module does not otherwise need to know; wiring it to the real
// address decoder is the embedding daemon's job (it owns the
// RegisterAccessor and the epl/lane layout).
type An73CfgAddresser interface {
	An73CfgAddr(port xcvrtype.PortIndex) uint32
}

// An73SetIgnoreNonce implements an_73_set_ignore_nonce: a
// register-lock-scoped read-modify-write of AN_73_CFG.IgnoreNonceMatch
// (§6).
func (e *Engine) An73SetIgnoreNonce(port xcvrtype.PortIndex, ignore bool, addresser An73CfgAddresser) error {
	s := e.Table.Record(port)
	if s == nil {
		return xerr.InvalidPort
	}
	if e.Reg == nil || addresser == nil {
		return xerr.Unsupportedf("an_73_set_ignore_nonce")
	}
	addr := addresser.An73CfgAddr(port)

	e.regMu.Lock()
	defer e.regMu.Unlock()

	val, err := e.Reg.ReadReg(e.Sw, addr)
	if err != nil {
		return err
	}
	if ignore {
		val |= an73CfgIgnoreNonceMatch
	} else {
		val &^= an73CfgIgnoreNonceMatch
	}
	if err := e.Reg.WriteReg(e.Sw, addr, val); err != nil {
		return err
	}
	s.IgnoreNonce = ignore
	return nil
}
