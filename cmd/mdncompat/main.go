// Command mdncompat searches MDN and shows browser compatibility data.
package main

import "github.com/mdnkit/go-libmdn/internal/cli"

func main() {
	cli.Execute()
}
