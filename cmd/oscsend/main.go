// Command oscsend drives an oscd server with canned OSC test traffic.
package main

import "github.com/soundctl/oscd/cmd/oscsend/command"

func main() {
	command.Execute()
}
