package main

import "assetmobile/internal/cli/cmd"

func main() {
	cmd.Execute()
}
