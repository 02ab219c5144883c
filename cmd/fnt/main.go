// Command fnt is the operator-facing front end for the toolbox's
// builtin catalogue: it lists registered methods and reports version
// information. It is deliberately not a test driver — running a method
// against an objective function is a caller's job, done through the
// driver package from Go code, not from this CLI.
package main

import (
	"log"
	"os"

	_ "github.com/cwbudde/fnt/internal/methods/bisection"
	_ "github.com/cwbudde/fnt/internal/methods/brentdekker"
	_ "github.com/cwbudde/fnt/internal/methods/de"
	_ "github.com/cwbudde/fnt/internal/methods/gradient"
	_ "github.com/cwbudde/fnt/internal/methods/localmin"
	_ "github.com/cwbudde/fnt/internal/methods/mayfly"
	_ "github.com/cwbudde/fnt/internal/methods/neldermead"
	_ "github.com/cwbudde/fnt/internal/methods/newton"
	_ "github.com/cwbudde/fnt/internal/methods/secant"
	_ "github.com/cwbudde/fnt/internal/methods/simpson"
	_ "github.com/cwbudde/fnt/internal/methods/trapezoidal"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Printf("error: %v\n", err)
		os.Exit(1)
	}
}
