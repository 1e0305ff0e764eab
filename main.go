package main

import "blog-service/cmd"

func main() {
	cmd.Execute()
}
