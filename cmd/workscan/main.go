// workscan - Workstation Log Activity Scanner
//
// workscan reconstructs work sessions, OCR attempts, idle gaps, and edit
// tallies from timestamped workstation log files.
package main

import (
	"os"

	"github.com/docuflow/workscan/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
