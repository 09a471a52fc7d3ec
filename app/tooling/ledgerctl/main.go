// This program is a command line client for the fleet ledger service.
package main

import "github.com/fleetchain/ledger/app/tooling/ledgerctl/cmd"

func main() {
	cmd.Execute()
}
