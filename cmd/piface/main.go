// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// piface reads and drives PiFace Digital boards from the shell.
package main

import "github.com/GermanBionicSystems/piface-devices/cmd/piface/cmd"

func main() {
	cmd.Execute()
}
