// Copyright 2015-2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gpio provides the sysfs pin control this module's platform
// facade needs for the port-interrupt GPIO: direction, value, and
// edge-interrupt re-arm. Trimmed from a board-wide internal/gpio
// driver that drives the full pin set (fan trays, LEDs, resets); this
// module only ever touches one pin, the port-interrupt line named by
// the gpioPortIntr config field.
package gpio

import (
	"fmt"
	"os"
	"syscall"
	"time"
)

type Pin uint32

const PinIndexMask Pin = 0xffff

// prefix lets tests redirect the sysfs tree.
var prefix string

func SetDebugPrefix(p string) { prefix = p }

func exportPin(p Pin) error {
	f, err := os.OpenFile(prefix+"/sys/class/gpio/export", os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	defer f.Close()
	fmt.Fprintf(f, "%d\n", p&PinIndexMask)
	return nil
}

func pinOpen(p Pin, name string, flag int) (f *os.File, err error) {
	fn := fmt.Sprintf(prefix+"/sys/class/gpio/gpio%d/%s", p&PinIndexMask, name)
	f, err = os.OpenFile(fn, flag, 0)
	if e, ok := err.(*os.PathError); ok && e.Err == syscall.ENOENT {
		if err = exportPin(p); err != nil {
			return
		}
		time.Sleep(10 * time.Millisecond)
		f, err = os.OpenFile(fn, flag, 0)
	}
	return
}

// SetDir implements C1's gpio_set_dir: configure the pin as an input
// (used for the port-interrupt GPIO) or output.
func (p Pin) SetDir(isOutput bool) error {
	f, err := pinOpen(p, "direction", os.O_WRONLY)
	if err != nil {
		return err
	}
	defer f.Close()
	v := "in"
	if isOutput {
		v = "out"
	}
	_, err = fmt.Fprintf(f, "%s\n", v)
	return err
}

func (p Pin) SetEdge(edge string) error {
	f, err := pinOpen(p, "edge", os.O_WRONLY)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = fmt.Fprintf(f, "%s\n", edge)
	return err
}

func (p Pin) Value() (bool, error) {
	f, err := pinOpen(p, "value", os.O_RDONLY)
	if err != nil {
		return false, err
	}
	defer f.Close()
	var v int
	if _, err = fmt.Fscanf(f, "%d\n", &v); err != nil {
		return false, err
	}
	return v != 0, nil
}

// UnmaskInterrupt implements C1's gpio_unmask_intr: re-arm the
// edge-triggered line after the ISR has drained it. Sysfs edge-trigger
// GPIOs self-rearm once their value file is read, so this just
// performs that read and discards the result.
func (p Pin) UnmaskInterrupt() error {
	_, err := p.Value()
	return err
}
