package main

import "github.com/urbansense/trafficlens/cmd"

func main() {
	cmd.Execute()
}
