// Copyright © 2018 One Concern

package main

import (
	"github.com/oneconcern/solsync/cmd/solsync/cmd"
)

func main() {
	cmd.Execute()
}
