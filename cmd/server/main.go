package main

import "hrmlite/internal/app/server"

func main() {
	server.Run()
}
