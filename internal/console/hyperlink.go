/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package console

import "fmt"

// Hyperlink wraps text with terminal hyperlink escape codes (OSC 8).
//
// The OSC 8 format is: ESC ]8;;URL ESC \ TEXT ESC ]8;; ESC \
//
// Terminals without hyperlink support display the text unchanged. Returns
// just the text when either argument is empty.
func Hyperlink(url, text string) string {
	if url == "" || text == "" {
		return text
	}

	return fmt.Sprintf("\033]8;;%s\033\\%s\033]8;;\033\\", url, text)
}
