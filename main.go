/*
Copyright © 2026 Paulo Suderio
*/
package main

import "github.com/suderio/dragondice/cmd"

func main() {
	cmd.Execute()
}
