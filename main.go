// Copyright 2025 The FraLocator Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/fralocator/fralocator/cmd"
)

var Version = "development"

func main() {
	cmd.Execute(Version)
}
