// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xerr

import "testing"

func TestCodeError(t *testing.T) {
	if InvalidPort.Error() != "invalid port" {
		t.Errorf("Error() = %q, want %q", InvalidPort.Error(), "invalid port")
	}
}

func TestIs(t *testing.T) {
	var err error = InvalidPort
	if !Is(err, InvalidPort) {
		t.Error("Is(InvalidPort, InvalidPort) = false, want true")
	}
	if Is(err, Unsupported) {
		t.Error("Is(InvalidPort, Unsupported) = true, want false")
	}
	if Is(Unsupportedf("x"), InvalidPort) {
		t.Error("Is(Unsupportedf(...), InvalidPort) = true, want false")
	}
}

func TestUnsupportedf(t *testing.T) {
	err := Unsupportedf("advertise %s", "25gbase-cr")
	if err.Error() != "unsupported: advertise 25gbase-cr" {
		t.Errorf("Error() = %q", err.Error())
	}
	ud, ok := err.(*UnsupportedDetail)
	if !ok {
		t.Fatalf("Unsupportedf did not return *UnsupportedDetail: %T", err)
	}
	if ud.Code() != Unsupported {
		t.Errorf("Code() = %v, want Unsupported", ud.Code())
	}
}
