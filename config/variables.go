/*
DESCRIPTION
  variables.go lists Variables, the Name/Update/Validate triples that
  drive Config.Update and Config.Validate, adapted from revid's
  variables.go to Oscar's capture-pipeline settings.

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
	"strconv"
)

// Config map keys.
const (
	KeyAOIX                 = "AOIX"
	KeyAOIY                 = "AOIY"
	KeyAOIWidth             = "AOIWidth"
	KeyAOIHeight            = "AOIHeight"
	KeyShutterUsecs         = "ShutterUsecs"
	KeyBlackLevel           = "BlackLevel"
	KeyPerspective          = "Perspective"
	KeyMultiBufferDepth     = "MultiBufferDepth"
	KeyCalibrationFile      = "CalibrationFile"
	KeyEnableHotpixel       = "EnableHotpixel"
	KeyFilenameReaderConfig = "FilenameReaderConfig"
)

const (
	typeUint16 = "uint16"
	typeUint32 = "uint32"
	typeUint8  = "uint8"
	typeBool   = "bool"
	typeString = "string"
)

// Variables lists every Config field reachable through Update/Validate,
// mirroring revid's Variables slice: each entry names a field, parses
// an incoming string into it, and validates/defaults it in place.
var Variables = []struct {
	Name     string
	Type     string
	Update   func(*Config, string)
	Validate func(*Config)
}{
	{
		Name: KeyAOIX,
		Type: typeUint16,
		Update: func(c *Config, v string) {
			c.AOIX = parseUint16(c, KeyAOIX, v, c.AOIX)
		},
	},
	{
		Name: KeyAOIY,
		Type: typeUint16,
		Update: func(c *Config, v string) {
			c.AOIY = parseUint16(c, KeyAOIY, v, c.AOIY)
		},
	},
	{
		Name: KeyAOIWidth,
		Type: typeUint16,
		Update: func(c *Config, v string) {
			c.AOIWidth = parseUint16(c, KeyAOIWidth, v, c.AOIWidth)
		},
		Validate: func(c *Config) {
			if c.AOIWidth%2 != 0 {
				c.LogInvalidField(KeyAOIWidth, 0)
				c.AOIWidth = 0
			}
		},
	},
	{
		Name: KeyAOIHeight,
		Type: typeUint16,
		Update: func(c *Config, v string) {
			c.AOIHeight = parseUint16(c, KeyAOIHeight, v, c.AOIHeight)
		},
	},
	{
		Name: KeyShutterUsecs,
		Type: typeUint32,
		Update: func(c *Config, v string) {
			n, err := strconv.ParseUint(v, 10, 32)
			if err != nil {
				c.LogInvalidField(KeyShutterUsecs, c.ShutterUsecs)
				return
			}
			c.ShutterUsecs = uint32(n)
		},
	},
	{
		Name: KeyBlackLevel,
		Type: typeUint16,
		Update: func(c *Config, v string) {
			c.BlackLevel = parseUint16(c, KeyBlackLevel, v, c.BlackLevel)
		},
	},
	{
		Name: KeyPerspective,
		Type: typeUint8,
		Update: func(c *Config, v string) {
			n, err := strconv.Atoi(v)
			if err != nil || n < int(PerspectiveDefault) || n > int(Perspective180Rotate) {
				c.LogInvalidField(KeyPerspective, c.Perspective)
				return
			}
			c.Perspective = Perspective(n)
		},
	},
	{
		Name: KeyMultiBufferDepth,
		Type: typeUint8,
		Update: func(c *Config, v string) {
			n, err := strconv.ParseUint(v, 10, 8)
			if err != nil {
				c.LogInvalidField(KeyMultiBufferDepth, c.MultiBufferDepth)
				return
			}
			c.MultiBufferDepth = uint8(n)
		},
		Validate: func(c *Config) {
			if c.MultiBufferDepth != 0 && (c.MultiBufferDepth < 2 || c.MultiBufferDepth > 8) {
				c.LogInvalidField(KeyMultiBufferDepth, 0)
				c.MultiBufferDepth = 0
			}
		},
	},
	{
		Name: KeyCalibrationFile,
		Type: typeString,
		Update: func(c *Config, v string) {
			c.CalibrationFile = v
		},
	},
	{
		Name: KeyEnableHotpixel,
		Type: typeBool,
		Update: func(c *Config, v string) {
			b, err := strconv.ParseBool(v)
			if err != nil {
				c.LogInvalidField(KeyEnableHotpixel, c.EnableHotpixel)
				return
			}
			c.EnableHotpixel = b
		},
	},
	{
		Name: KeyFilenameReaderConfig,
		Type: typeString,
		Update: func(c *Config, v string) {
			c.FilenameReaderConfig = v
		},
	},
}

// parseUint16 parses v into a uint16, logging and falling back to def
// on failure.
func parseUint16(c *Config, name, v string, def uint16) uint16 {
	n, err := strconv.ParseUint(v, 10, 16)
	if err != nil {
		c.LogInvalidField(name, def)
		return def
	}
	return uint16(n)
}
