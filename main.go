// SPDX-License-Identifier: MPL-2.0

package main

import "github.com/chefkit/chef/cmd/chef"

func main() {
	cmd.Execute()
}
