package main

import (
	"fmt"
	"os"
)

var version = "devel"

func main() {
	cli := parseArgs(os.Args[1:])

	switch cli.mode {
	case runMode:
		runRom(cli)
	case romInfosMode:
		romInfos(cli.RomInfos.RomPath, cli.RomInfos.JSON)
	case versionMode:
		fmt.Println("famiko", version)
	}
}
