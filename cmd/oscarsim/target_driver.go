/*
DESCRIPTION
  target_driver.go wires a real MT9V032 SensorDriver into the camera
  when oscarsim is built with the oscartarget tag.

AUTHORS
  Oscar contributors.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

//go:build oscartarget

package main

import (
	"github.com/ausocean/utils/logging"

	"github.com/leanxcam/oscar/cam"
)

// wireSensorDriver opens the kernel character device and registers it
// with camera, so capture and sync ioctls reach the real sensor instead
// of replaying BMP stand-in frames.
func wireSensorDriver(camera *cam.Camera, log logging.Logger) {
	driver, err := cam.OpenDriver()
	if err != nil {
		log.Fatal("could not open sensor driver", "error", err)
	}
	camera.SetSensorDriver(driver)
}
