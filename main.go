// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad
//
// acremote - Air conditioner IR remote
//
// Encodes air conditioner commands as IR waveforms and sends them through
// a serial or WebSocket IR bridge.

package main

import (
	"os"

	"github.com/acwebremote/acremote/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
