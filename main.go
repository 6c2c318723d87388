package main

import "hr_records/cmd"

func main() {
	cmd.Execute()
}
