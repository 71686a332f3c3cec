// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/regista/regista/cmd/regista"

func main() {
	cmd.Execute()
}
