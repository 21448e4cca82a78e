package main

import "dailyquest/cmd/dq/root"

func main() {
	root.Execute()
}
