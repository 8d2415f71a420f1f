/*
DESCRIPTION
  Oscarsim is a host-side simulation runner for the Oscar capture
  pipeline: it wires the host backend, the DMA engine, the calibration
  kernel, and the camera together exactly as a target application would,
  replaying BMP stand-in frames through a filename reader instead of a
  real MT9V032. Structured on cmd/looper/main.go's flag/logging setup.

AUTHORS
  Oscar contributors.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Command oscarsim drives the Oscar capture pipeline against the host
// backend, replaying a sequence of stand-in BMP frames.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ausocean/utils/logging"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/leanxcam/oscar/backend"
	"github.com/leanxcam/oscar/cam"
	"github.com/leanxcam/oscar/clb"
	"github.com/leanxcam/oscar/config"
	"github.com/leanxcam/oscar/dma"
	"github.com/leanxcam/oscar/frd"
)

func main() {
	frdConfigPtr := flag.String("frd-config", "", "Path to the filename-reader configuration file.")
	calibPtr := flag.String("calib", "", "Path to the calibration file.")
	widthPtr := flag.Uint("width", 752, "Capture window width.")
	heightPtr := flag.Uint("height", 480, "Capture window height.")
	shutterPtr := flag.Uint("shutter-usecs", 15000, "Default exposure time in microseconds.")
	iterationsPtr := flag.Uint("iterations", 1, "Number of setup/read cycles to run.")
	flag.Parse()

	cfg := config.Default()
	fileLog := &lumberjack.Logger{Filename: cfg.LogPath, MaxSize: cfg.LogMaxSizeMB, MaxBackups: cfg.LogMaxBackups, MaxAge: cfg.LogMaxAgeDays}
	log := logging.New(cfg.LogVerbosity, io.MultiWriter(fileLog, os.Stdout), cfg.LogSuppress)
	cfg.Logger = log
	cfg.AOIWidth = uint16(*widthPtr)
	cfg.AOIHeight = uint16(*heightPtr)
	cfg.ShutterUsecs = uint32(*shutterPtr)
	cfg.CalibrationFile = *calibPtr
	cfg.FilenameReaderConfig = *frdConfigPtr
	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", "error", err)
	}

	be := backend.NewHost(log)
	dmaEngine := dma.New(log)

	camera, err := cam.New(log, be)
	if err != nil {
		log.Fatal("could not construct camera", "error", err)
	}
	if err := camera.SetAreaOfInterest(cfg.AOIX, cfg.AOIY, cfg.AOIWidth, cfg.AOIHeight); err != nil {
		log.Fatal("could not set area of interest", "error", err)
	}
	if err := camera.SetShutterWidth(cfg.ShutterUsecs); err != nil {
		log.Fatal("could not set shutter width", "error", err)
	}
	if err := camera.SetBlackLevelOffset(cfg.BlackLevel); err != nil {
		log.Fatal("could not set black level offset", "error", err)
	}

	// Registers a real MT9V032 SensorDriver under the oscartarget build
	// tag; a no-op otherwise, leaving capture on the host BMP path.
	wireSensorDriver(camera, log)

	if cfg.CalibrationFile != "" {
		calibrator := clb.New(log)
		if err := calibrator.Setup(clb.SlopeFPNPRNU, cfg.EnableHotpixel); err != nil {
			log.Error("calibration setup rejected", "error", err)
		} else if err := calibrator.LoadInto(cfg.CalibrationFile, int(cfg.AOIWidth), int(cfg.AOIHeight)); err == nil {
			camera.RegisterCorrectionCallback(calibrator)
		}
		// A load failure is already logged by LoadInto and correction
		// stays disabled, matching spec.md §7's graceful degradation.
	}

	if cfg.FilenameReaderConfig != "" {
		reader, err := frd.Load(cfg.FilenameReaderConfig)
		if err != nil {
			log.Fatal("could not load filename-reader configuration", "error", err)
		}
		camera.SetFilenameReader(reader)
	}

	const bufID = 0
	frameSize := int(cfg.AOIWidth) * int(cfg.AOIHeight)
	frameBuf := make([]byte, frameSize)
	if err := camera.RegisterFrameBuffer(bufID, frameBuf, false); err != nil {
		log.Fatal("could not register frame buffer", "error", err)
	}

	// Exercise the DMA engine the way a real capture would stage a
	// frame out of the sensor FIFO: a single 32-bit memcpy chain moving
	// the just-captured bytes into a scratch buffer.
	scratch := make([]byte, (frameSize/4)*4)
	for i := uint(0); i < *iterationsPtr; i++ {
		if err := camera.SetupCapture(bufID, cam.TriggerManual); err != nil {
			log.Error("setup-capture failed", "error", err)
			continue
		}
		start := time.Now()
		if _, err := camera.ReadPicture(bufID, 0, 0); err != nil {
			log.Error("read-picture failed", "error", err)
			continue
		}
		log.Info("frame captured", "iteration", i, "elapsed", time.Since(start))

		if err := runDMAHandoff(dmaEngine, scratch, frameBuf); err != nil {
			log.Error("dma handoff failed", "error", err)
		}
	}

	fmt.Fprintf(os.Stdout, "oscarsim: completed %d capture cycles\n", *iterationsPtr)
}

// runDMAHandoff stages frameBuf through a single-move chain into
// scratch, mirroring how the target moves a completed sensor frame out
// of the DMA FIFO before the application touches it.
func runDMAHandoff(e *dma.Engine, scratch, frameBuf []byte) error {
	c, err := e.Allocate()
	if err != nil {
		return err
	}
	defer e.Free(c)

	if err := c.Memcpy(e, dma.HostAddr(scratch), dma.HostAddr(frameBuf), len(scratch)); err != nil {
		return err
	}
	return e.Sync(c)
}
