package main

import (
	"github.com/kernel-phase/kpfits/kpfits/cmd"
)

func main() {
	cmd.Execute()
}
