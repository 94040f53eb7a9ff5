package main

import (
	"os"
	sys "os"
)

func run() int {
	os.Exit(1) // вне main допустимо
	return 0
}

func main() {
	if run() != 0 {
		os.Exit(2) // want "avoid direct os.Exit call in main function of main package"
	}
	defer func() {
		sys.Exit(3) // want "avoid direct os.Exit call in main function of main package"
	}()
}
