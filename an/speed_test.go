// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package an

import (
	"testing"

	"github.com/platinasystems/xcvrmgmt/xcvrtype"
)

func TestGetMaxSpeedAbilityAndModeClause37IsFixed1G(t *testing.T) {
	speed, mode := GetMaxSpeedAbilityAndMode(0, xcvrtype.AnClause37, 0, nil, 0, nil)
	if speed != 1000 || mode != xcvrtype.LaneSingle {
		t.Errorf("got (%d, %v), want (1000, LaneSingle)", speed, mode)
	}
}

func TestGetMaxSpeedAbilityAndModePicksHighestFromBasePage(t *testing.T) {
	p := Page(0).WithTxAbility(Ability10GBaseKR | Ability100GBaseKR4)
	speed, mode := GetMaxSpeedAbilityAndMode(0, xcvrtype.AnClause73, p, nil, 0, nil)
	if speed != 100000 || mode != xcvrtype.LaneQuad {
		t.Errorf("got (%d, %v), want (100000, LaneQuad)", speed, mode)
	}
}

func TestGetMaxSpeedAbilityAndMode25GFromNextPage(t *testing.T) {
	pages := buildOUITaggedNextPages(0x6A737, 1<<21)
	p := Page(0).WithTxAbility(Ability10GBaseKR)
	speed, mode := GetMaxSpeedAbilityAndMode(0, xcvrtype.AnClause73, p, pages, 0x6A737, nil)
	if speed != 25000 || mode != xcvrtype.LaneSingle {
		t.Errorf("got (%d, %v), want (25000, LaneSingle) from next-page 25G", speed, mode)
	}
}

type fakeMultiLaneCapable struct{ is40G, is100G bool }

func (f fakeMultiLaneCapable) Is40GCapable(port xcvrtype.PortIndex) bool  { return f.is40G }
func (f fakeMultiLaneCapable) Is100GCapable(port xcvrtype.PortIndex) bool { return f.is100G }

func TestGetMaxSpeedAbilityAndModeSyntheticMaskWithoutBasePage(t *testing.T) {
	caps := fakeMultiLaneCapable{is40G: false, is100G: false}
	speed, _ := GetMaxSpeedAbilityAndMode(0, xcvrtype.AnClause73, 0, nil, 0, caps)
	if speed == 100000 || speed == 40000 {
		t.Errorf("got %d, want neither 100G nor 40G when the port reports neither capable", speed)
	}
	if speed != 25000 {
		t.Errorf("got %d, want 25000 (highest remaining synthetic ability)", speed)
	}
}
