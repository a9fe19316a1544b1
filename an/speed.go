// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package an

import "github.com/platinasystems/xcvrmgmt/xcvrtype"

// MultiLaneCapable is the out-of-scope collaborator C8's max-speed
// picker consults to synthesize a supported-ability mask when no base
// page has been configured yet (§4.8).
type MultiLaneCapable interface {
	Is40GCapable(port xcvrtype.PortIndex) bool
	Is100GCapable(port xcvrtype.PortIndex) bool
}

// GetMaxSpeedAbilityAndMode implements §4.8's max-speed and lane-mode
// picker.
func GetMaxSpeedAbilityAndMode(port xcvrtype.PortIndex, mode xcvrtype.AnMode, basePage Page, nextPages []Page, wantOUI uint32, caps MultiLaneCapable) (maxSpeedMbps uint, laneMode xcvrtype.LaneMode) {
	switch mode {
	case xcvrtype.AnClause37, xcvrtype.AnSgmii:
		return 1000, xcvrtype.LaneSingle

	case xcvrtype.AnClause73:
		var ability uint32
		if basePage == 0 {
			ability = SupportedAbilities
			if caps != nil {
				if !caps.Is40GCapable(port) {
					ability &^= abilities40G
				}
				if !caps.Is100GCapable(port) {
					ability &^= abilities100G
				}
			}
		} else {
			ability = basePage.TxAbility()
		}

		is25GInNextPage := Is25GConfiguredInNextPage(nextPages, wantOUI)

		switch {
		case ability&abilities100G != 0:
			return 100000, xcvrtype.LaneQuad
		case ability&abilities40G != 0:
			return 40000, xcvrtype.LaneQuad
		case ability&(Ability25GBaseKR|Ability25GBaseCR) != 0 || is25GInNextPage:
			return 25000, xcvrtype.LaneSingle
		case ability&Ability10GBaseKR != 0:
			return 10000, xcvrtype.LaneSingle
		case ability&Ability1000BaseKX != 0:
			return 2500, xcvrtype.LaneSingle
		default:
			return 0, xcvrtype.LaneSingle
		}

	default:
		return 0, xcvrtype.LaneSingle
	}
}
