package main

import "github.com/killallgit/podfeed/cmd"

// @title           podfeed API
// @version         1.0.0
// @description     Loads podcast RSS feeds, with an optional disk cache, and keeps a small podcast library
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:8080
// @BasePath        /
// @schemes         http https
func main() {
	cmd.Execute()
}
