// admissionsctl runs maintenance tasks against the admissions database:
// migrations, seeding, staff accounts and session cleanup.
package main

import (
	"os"

	"github.com/gofiber/fiber/v2/log"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
