// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad
//
// Lasercube - LaserCube Network Protocol Tool
//
// A CLI tool for discovering, monitoring and driving LaserCube laser
// projectors over their UDP network protocol.

package main

import (
	"os"

	"github.com/Thermoquad/lasercube/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
