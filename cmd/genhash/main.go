// cmd/genhash prints a bcrypt hash for each password argument, using the same
// cost as the auth service.
// Usage: go run ./cmd/genhash <password>...
package main

import (
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
)

const cost = 12

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: genhash <password>...")
		os.Exit(2)
	}
	for _, pw := range os.Args[1:] {
		h, err := bcrypt.GenerateFromPassword([]byte(pw), cost)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(string(h))
	}
}
