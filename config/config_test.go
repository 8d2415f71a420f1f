/*
DESCRIPTION
  config_test.go tests Config.Validate and Config.Update.

AUTHORS
  Oscar contributors.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package config

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

type dumbLogger struct{}

func (dl *dumbLogger) Log(l int8, m string, a ...interface{})  {}
func (dl *dumbLogger) SetLevel(l int8)                         {}
func (dl *dumbLogger) Debug(msg string, args ...interface{})   {}
func (dl *dumbLogger) Info(msg string, args ...interface{})    {}
func (dl *dumbLogger) Warning(msg string, args ...interface{}) {}
func (dl *dumbLogger) Error(msg string, args ...interface{})   {}
func (dl *dumbLogger) Fatal(msg string, args ...interface{})   {}

func TestUpdateSetsFields(t *testing.T) {
	c := Default()
	c.Logger = &dumbLogger{}
	c.Update(map[string]string{
		KeyAOIX:             "10",
		KeyAOIY:              "20",
		KeyAOIWidth:         "200",
		KeyAOIHeight:        "100",
		KeyShutterUsecs:     "30000",
		KeyBlackLevel:       "5",
		KeyPerspective:      "2",
		KeyMultiBufferDepth: "4",
		KeyCalibrationFile:  "/tmp/calib.bin",
		KeyEnableHotpixel:   "true",
	})
	type aoi struct{ X, Y, Width, Height uint16 }
	got := aoi{c.AOIX, c.AOIY, c.AOIWidth, c.AOIHeight}
	want := aoi{10, 20, 200, 100}
	if !cmp.Equal(got, want) {
		t.Fatalf("AOI fields mismatch (-want +got):\n%s", cmp.Diff(want, got))
	}
	if c.ShutterUsecs != 30000 {
		t.Fatalf("ShutterUsecs = %d, want 30000", c.ShutterUsecs)
	}
	if c.BlackLevel != 5 {
		t.Fatalf("BlackLevel = %d, want 5", c.BlackLevel)
	}
	if c.Perspective != PerspectiveVerticalMirror {
		t.Fatalf("Perspective = %d, want %d", c.Perspective, PerspectiveVerticalMirror)
	}
	if c.MultiBufferDepth != 4 {
		t.Fatalf("MultiBufferDepth = %d, want 4", c.MultiBufferDepth)
	}
	if c.CalibrationFile != "/tmp/calib.bin" {
		t.Fatalf("CalibrationFile = %q", c.CalibrationFile)
	}
	if !c.EnableHotpixel {
		t.Fatal("EnableHotpixel not set")
	}
}

func TestUpdateIgnoresUnparseableValues(t *testing.T) {
	c := Default()
	c.Logger = &dumbLogger{}
	c.ShutterUsecs = 1234
	c.Update(map[string]string{KeyShutterUsecs: "not-a-number"})
	if c.ShutterUsecs != 1234 {
		t.Fatalf("ShutterUsecs changed to %d on invalid input", c.ShutterUsecs)
	}
}

func TestValidateRejectsOddAOIWidth(t *testing.T) {
	c := Default()
	c.Logger = &dumbLogger{}
	c.AOIWidth = 101
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
	if c.AOIWidth != 0 {
		t.Fatalf("AOIWidth = %d, want 0 after validation rejects an odd width", c.AOIWidth)
	}
}

func TestValidateRejectsOutOfRangeMultiBufferDepth(t *testing.T) {
	c := Default()
	c.Logger = &dumbLogger{}
	c.MultiBufferDepth = 20
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
	if c.MultiBufferDepth != 0 {
		t.Fatalf("MultiBufferDepth = %d, want 0 after validation rejects an out-of-range depth", c.MultiBufferDepth)
	}
}
