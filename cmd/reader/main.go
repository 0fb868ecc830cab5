package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/mr-joshcrane/freshet"
)

func main() {
	flag.Parse()
	if len(flag.Args()) != 1 {
		fmt.Println("Usage: reader <label>")
		os.Exit(1)
	}
	ctx := context.Background()
	lines, err := freshet.Read(ctx, flag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	for _, line := range lines {
		fmt.Println(line)
	}
}
