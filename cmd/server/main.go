package main

import "salon/internal/app/server"

func main() {
	server.Run()
}
