// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package an

import (
	"github.com/platinasystems/xcvrmgmt/mlog"
	"github.com/platinasystems/xcvrmgmt/xerr"
)

// abilityCapability ties one advertisable ability bit to the speed
// capability bit a port must declare to be allowed to advertise it.
var abilityCapability = []struct {
	ability uint32
	cap     uint64
	name    string
}{
	{Ability1000BaseKX, CapSpeed1G, "1000base-kx"},
	{Ability10GBaseKR, CapSpeed10G, "10gbase-kr"},
	{Ability25GBaseKR, CapSpeed25G, "25gbase-kr"},
	{Ability25GBaseCR, CapSpeed25G, "25gbase-cr"},
	{Ability40GBaseKR4, CapSpeed40G, "40gbase-kr4"},
	{Ability40GBaseCR4, CapSpeed40G, "40gbase-cr4"},
	{Ability100GBaseKR4, CapSpeed100G, "100gbase-kr4"},
	{Ability100GBaseCR4, CapSpeed100G, "100gbase-cr4"},
}

// Port capability bits referenced by declared_capabilities (§3);
// shared encoding with xcvr.PortConfig.DeclaredCapabilities.
const (
	CapSpeed1G   uint64 = 1 << 0
	CapSpeed10G  uint64 = 1 << 1
	CapSpeed25G  uint64 = 1 << 2
	CapSpeed40G  uint64 = 1 << 3
	CapSpeed100G uint64 = 1 << 4
)

// ValidateBasePage implements C6: mask off ability bits this module
// does not support (logged, not fatal), fail UNSUPPORTED if nothing
// supported remains, then fail UNSUPPORTED naming the first ability
// bit the port's declared capabilities do not cover. Idempotent: a
// page that has already been cleaned validates unchanged (§8).
func ValidateBasePage(declaredCapabilities uint64, basePage Page) (Page, error) {
	ability := basePage.TxAbility()
	if ability == 0 {
		return basePage, nil
	}

	unsupported := ability &^ SupportedAbilities
	if unsupported != 0 {
		mlog.Debugf(mlog.AnDebug, "an: masking unsupported Clause 73 abilities: 0x%x", unsupported)
	}
	ability &= SupportedAbilities

	if ability == 0 {
		return basePage, xerr.Unsupportedf("no supported Clause 73 abilities configured")
	}

	for _, ac := range abilityCapability {
		if ability&ac.ability != 0 && declaredCapabilities&ac.cap == 0 {
			return basePage, xerr.Unsupportedf("advertise %s but port does not declare that speed capability", ac.name)
		}
	}

	return basePage.WithTxAbility(ability), nil
}
