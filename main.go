// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/webermax/meteor/cmd/meteor"

func main() {
	cmd.Execute()
}
