// SPDX-License-Identifier: MPL-2.0

package main

import "github.com/codesubmit/codesubmit/cmd/codesubmit"

func main() {
	cmd.Execute()
}
