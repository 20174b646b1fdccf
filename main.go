/*
Copyright © 2026 Paulo Suderio
*/
package main

import "github.com/suderio/shieldwall/cmd"

func main() {
	cmd.Execute()
}
