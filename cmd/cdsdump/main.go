// Command cdsdump prints netCDF and schema files as CDL-like text and
// converts schema files to netCDF.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
