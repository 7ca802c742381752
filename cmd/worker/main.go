package main

import (
	"fmt"
	"os"

	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/interfaces/cli/bootstrap"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/interfaces/cli/worker"
)

func main() {
	// Parse environment from command line or env variable
	env := "development"
	if len(os.Args) > 1 {
		env = os.Args[1]
	}
	env = bootstrap.ResolveEnv(env)

	if err := worker.Run(env, false); err != nil {
		fmt.Fprintf(os.Stderr, "worker failed: %v\n", err)
		os.Exit(1)
	}
}
