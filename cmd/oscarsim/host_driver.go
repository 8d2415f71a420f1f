/*
DESCRIPTION
  host_driver.go is the non-target counterpart to target_driver.go: the
  host backend has no ioctl character device, so capture already falls
  back to the filename-reader/BMP path in cam.Camera without a
  SensorDriver being set.

AUTHORS
  Oscar contributors.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

//go:build !oscartarget

package main

import (
	"github.com/ausocean/utils/logging"

	"github.com/leanxcam/oscar/cam"
)

// wireSensorDriver is a no-op on the host build: cam/capture.go
// dispatches to readHost whenever no SensorDriver has been registered.
func wireSensorDriver(camera *cam.Camera, log logging.Logger) {}
