package main

import (
	"os"

	_ "time/tzdata" // TIMEZONE must resolve on hosts without zoneinfo
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
