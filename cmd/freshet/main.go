package main

import (
	"fmt"
	"os"

	"github.com/mr-joshcrane/freshet"
)

func main() {
	err := freshet.Demo(os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
