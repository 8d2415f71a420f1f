/*
DESCRIPTION
  config.go provides Config, the settings an Oscar application threads
  through framework construction: default capture geometry and
  exposure, the calibration and filename-reader file paths, multi-
  buffer depth, and logging. Adapted from revid's Config/Validate/Update
  pattern (config.go, variables.go of the original) to Oscar's capture-
  pipeline parameters.

AUTHORS
  Oscar contributors.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package config holds the settings that parameterize an Oscar
// application's capture pipeline, calibration, and logging, and the
// machinery to validate and live-update them from a string-keyed
// variable map.
package config

import (
	"github.com/ausocean/utils/logging"
)

// Perspective mirrors cam.Perspective's values without importing the
// cam package, the same decoupling revid's config uses for its own
// input/output/codec enums.
type Perspective int

const (
	PerspectiveDefault Perspective = iota
	PerspectiveHorizontalMirror
	PerspectiveVerticalMirror
	Perspective180Rotate
)

// TriggerMode mirrors cam.TriggerMode's values.
type TriggerMode int

const (
	TriggerExternal TriggerMode = iota
	TriggerManual
)

// Config holds every setting an Oscar application needs to construct
// its framework and capture pipeline. Default returns the documented
// defaults; call Validate after populating it (or after Update) to
// catch out-of-range values.
type Config struct {
	// AOIX, AOIY, AOIWidth, AOIHeight describe the default capture
	// window. A zero width/height pair means the full 752x480 frame.
	AOIX, AOIY, AOIWidth, AOIHeight uint16

	// ShutterUsecs is the default exposure time in microseconds. Zero
	// engages the sensor's automatic exposure control.
	ShutterUsecs uint32

	// BlackLevel is the default black-level offset, in grey levels.
	BlackLevel uint16

	// Perspective compensates for a non-upright camera/scene relation.
	Perspective Perspective

	// DefaultTriggerMode is the trigger mode setup-capture uses when an
	// application does not specify one explicitly.
	DefaultTriggerMode TriggerMode

	// MultiBufferDepth is the number of frame buffers grouped into the
	// default multi-buffer rotation, 2..8. Zero disables multi-buffer
	// creation; the application manages buffers by id instead.
	MultiBufferDepth uint8

	// CalibrationFile is the path to the binary FPN/PRNU/hot-pixel
	// table (spec.md §4.3). Missing or malformed files disable
	// correction without failing framework construction.
	CalibrationFile string

	// EnableHotpixel turns on hot-pixel interpolation in addition to
	// FPN/PRNU correction, once a calibration table has loaded.
	EnableHotpixel bool

	// FilenameReaderConfig is the path to the host-only filename-reader
	// configuration file (spec.md §6). Unused on the target.
	FilenameReaderConfig string

	// LogPath is the file lumberjack rotates application logs into.
	LogPath string
	// LogMaxSizeMB, LogMaxBackups, LogMaxAgeDays bound lumberjack's
	// rotation of LogPath.
	LogMaxSizeMB   int
	LogMaxBackups  int
	LogMaxAgeDays  int
	// LogVerbosity is the minimum level logging.Logger emits.
	LogVerbosity int8
	// LogSuppress, if true, suppresses duplicate consecutive log lines.
	LogSuppress bool

	// Logger is populated by the application after constructing its
	// logging.Logger; Oscar components accept it directly rather than
	// re-deriving it from the other Log* fields.
	Logger logging.Logger
}

// Default returns a Config populated with Oscar's documented power-on
// defaults: full frame, 15ms exposure, black level 13, no perspective
// correction, no multi-buffer, and a rotating log under /var/log.
func Default() *Config {
	return &Config{
		ShutterUsecs:   15000,
		BlackLevel:     13,
		LogPath:        "/var/log/oscar/oscar.log",
		LogMaxSizeMB:   500,
		LogMaxBackups:  10,
		LogMaxAgeDays:  28,
		LogVerbosity:   logging.Debug,
	}
}

// Validate applies every Variable's Validate function, catching
// out-of-range values. It never fails: invalid fields are reset to zero
// in place and logged through c.Logger, if set, matching revid's
// Config.Validate behaviour. Fields that are unset are left as they are.
func (c *Config) Validate() error {
	for _, v := range Variables {
		if v.Validate != nil {
			v.Validate(c)
		}
	}
	return nil
}

// Update takes a map of configuration variable names and string values,
// parses and applies each one found among Variables' keys.
func (c *Config) Update(vars map[string]string) {
	for _, v := range Variables {
		if val, ok := vars[v.Name]; ok && v.Update != nil {
			v.Update(c, val)
		}
	}
}

// LogInvalidField logs that a field was bad or unset and has been
// defaulted to def.
func (c *Config) LogInvalidField(name string, def interface{}) {
	if c.Logger == nil {
		return
	}
	c.Logger.Warning(name+" bad or unset, defaulting", name, def)
}
