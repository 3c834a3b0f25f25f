// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package devices is a container for the PiFace Digital drivers.
//
// The core driver is mcp23s17. piface offers the classic function interface
// on top of it and cmd/piface is a command line tool.
package devices
