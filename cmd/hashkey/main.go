// Command hashkey prints the bcrypt hash of an API access key read from
// stdin, for use as ACCESS_KEY_HASH.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"Floe/internal/auth"
)

func main() {
	fmt.Fprint(os.Stderr, "Access key: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	key := strings.TrimSpace(line)
	if key == "" {
		fmt.Fprintln(os.Stderr, "access key required", err)
		os.Exit(1)
	}
	hash, err := auth.HashKey(key)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
