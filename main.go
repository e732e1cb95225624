/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package main

import "github.com/orien/stackpilot/cmd"

func main() {
	cmd.Execute()
}
