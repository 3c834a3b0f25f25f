// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mcp23s17

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

func TestPins_fixedValues(t *testing.T) {
	dev, _, _ := newTestDev(t, nil)
	defer dev.Close()

	if len(dev.Pins[PortA]) != 8 || len(dev.Pins[PortB]) != 8 {
		t.Fatalf("expected 8 pins per port")
	}
	if got := dev.Pins[PortA][1].Name(); got != "MCP23S17_SPI0.0_0_GPA1" {
		t.Errorf("Name() = %q", got)
	}
	if got := dev.Pins[PortB][6].String(); got != "MCP23S17_SPI0.0_0_GPB6" {
		t.Errorf("String() = %q", got)
	}
	if dev.Pins[PortB][6].Number() != 6 {
		t.Errorf("Number() should return 6")
	}
	if dev.Pins[PortA][0].Func() != gpio.OUT || dev.Pins[PortB][0].Func() != gpio.IN {
		t.Errorf("port A must be OUT and port B IN")
	}
	if dev.Pins[PortA][0].Function() != string(gpio.OUT) {
		t.Errorf("Function() = %q", dev.Pins[PortA][0].Function())
	}
	if err := dev.Pins[PortA][0].SetFunc(gpio.OUT); err != nil {
		t.Error(err)
	}
	if err := dev.Pins[PortA][0].SetFunc(gpio.IN); !errors.Is(err, ErrNotSupported) {
		t.Errorf("SetFunc(IN) on output: got %v", err)
	}
	if dev.Pins[PortB][0].WaitForEdge(10*time.Millisecond) {
		t.Errorf("WaitForEdge() should return false")
	}
	if dev.Pins[PortB][5].DefaultPull() != gpio.Float {
		t.Errorf("DefaultPull() should return gpio.Float")
	}
	if err := dev.Pins[PortA][0].PWM(gpio.DutyHalf, physic.Hertz); !errors.Is(err, ErrNotSupported) {
		t.Errorf("PWM should return ErrNotSupported")
	}
	if err := dev.Pins[PortA][0].Halt(); err != nil {
		t.Error(err)
	}
}

func TestPins_out(t *testing.T) {
	dev, chip, _ := newTestDev(t, nil)
	defer dev.Close()

	p0 := dev.Pins[PortA][0]
	_ = p0.Out(gpio.Low) // unchanged, suppressed
	_ = p0.Out(gpio.High)
	_ = p0.Out(gpio.High) // unchanged, suppressed
	_ = p0.Out(gpio.Low)
	want := []frame{{0x40, regGPIOA, 0x01}, {0x40, regGPIOA, 0x00}}
	if diff := cmp.Diff(want, chip.Frames()); diff != "" {
		t.Errorf("frames mismatch (-want +got):\n%s", diff)
	}
	if p0.Read() != gpio.Low {
		t.Errorf("output should read back Low")
	}
	if err := dev.Pins[PortB][0].Out(gpio.High); !errors.Is(err, ErrNotSupported) {
		t.Errorf("Out on input: got %v", err)
	}
}

func TestPins_outReadBack(t *testing.T) {
	dev, chip, _ := newTestDev(t, nil)
	defer dev.Close()

	p5 := dev.Pins[PortA][5]
	g5 := dev.Group(PortA, 5)
	// Another program turned output 5 on.
	chip.Set(0, regGPIOA, 0x20)
	if p5.Read() != gpio.High {
		t.Errorf("pin should read the chip output back as High")
	}
	if v, err := g5.Read(0); err != nil || v != 1 {
		t.Errorf("group Read() = %d, %v; want 1", v, err)
	}
	chip.Set(0, regGPIOA, 0x00)
	if p5.Read() != gpio.Low {
		t.Errorf("pin should read the chip output back as Low")
	}
	if v, err := g5.Read(0); err != nil || v != 0 {
		t.Errorf("group Read() = %d, %v; want 0", v, err)
	}
}

func TestPins_in(t *testing.T) {
	dev, chip, _ := newTestDev(t, nil)
	defer dev.Close()

	p2 := dev.Pins[PortB][2]
	// Bit 2 low means the switch is pressed.
	chip.Set(0, regGPIOB, 0xFB)
	if p2.Read() != gpio.High {
		t.Errorf("input should be High")
	}
	chip.Set(0, regGPIOB, 0xFF)
	if p2.Read() != gpio.Low {
		t.Errorf("input should be Low")
	}
	if err := dev.Pins[PortA][0].In(gpio.PullUp, gpio.NoEdge); !errors.Is(err, ErrNotSupported) {
		t.Errorf("In on output: got %v", err)
	}
	if err := p2.In(gpio.PullNoChange, gpio.BothEdges); !errors.Is(err, ErrNotSupported) {
		t.Errorf("edge detection: got %v", err)
	}
	if err := p2.In(gpio.PullDown, gpio.NoEdge); !errors.Is(err, ErrNotSupported) {
		t.Errorf("PullDown: got %v", err)
	}
}

func TestPins_pullUp(t *testing.T) {
	opts := DefaultOpts
	opts.PullUps = 0x0F
	dev, chip, _ := newTestDev(t, &opts)
	defer dev.Close()

	p2 := dev.Pins[PortB][2]
	if p2.Pull() != gpio.PullUp {
		t.Errorf("Pull() = %s, want PullUp", p2.Pull())
	}
	// Already on, nothing sent.
	if err := p2.In(gpio.PullUp, gpio.NoEdge); err != nil {
		t.Fatal(err)
	}
	if err := p2.In(gpio.Float, gpio.NoEdge); err != nil {
		t.Fatal(err)
	}
	if err := dev.Pins[PortB][7].In(gpio.PullUp, gpio.NoEdge); err != nil {
		t.Fatal(err)
	}
	want := []frame{{0x40, regGPPUB, 0x0B}, {0x40, regGPPUB, 0x8B}}
	if diff := cmp.Diff(want, chip.Frames()); diff != "" {
		t.Errorf("frames mismatch (-want +got):\n%s", diff)
	}
	if p2.Pull() != gpio.Float {
		t.Errorf("Pull() = %s, want Float", p2.Pull())
	}
}

func TestPins_pullUpUnknown(t *testing.T) {
	opts := DefaultOpts
	opts.SkipInit = true
	dev, chip, _ := newTestDev(t, &opts)
	defer dev.Close()

	p0 := dev.Pins[PortB][0]
	if p0.Pull() != gpio.PullNoChange {
		t.Errorf("Pull() = %s, want PullNoChange before the register is known", p0.Pull())
	}
	chip.Set(0, regGPPUB, 0xF0)
	if err := p0.In(gpio.PullUp, gpio.NoEdge); err != nil {
		t.Fatal(err)
	}
	want := []frame{{0x41, regGPPUB, 0}, {0x40, regGPPUB, 0xF1}}
	if diff := cmp.Diff(want, chip.Frames()); diff != "" {
		t.Errorf("frames mismatch (-want +got):\n%s", diff)
	}
}

func TestPins_closed(t *testing.T) {
	dev, _, _ := newTestDev(t, nil)
	pa, pb := dev.Pins[PortA][0], dev.Pins[PortB][0]
	_ = dev.Close()
	if err := pa.Out(gpio.High); !errors.Is(err, ErrClosed) {
		t.Errorf("Out: got %v, want ErrClosed", err)
	}
	if err := pb.In(gpio.PullUp, gpio.NoEdge); !errors.Is(err, ErrClosed) {
		t.Errorf("In: got %v, want ErrClosed", err)
	}
	if pa.Read() != gpio.Low || pb.Read() != gpio.Low {
		t.Errorf("Read on a closed device should return Low")
	}
}
