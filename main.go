package main

import "pastelrecipes/internal/app"

// @title           Pastel Recipes API
// @version         1.0
// @description     Recipe sharing backend: browse and submit recipes, comment, and recover accounts by SMS or voice code.
// @BasePath        /
func main() {
	app.Run()
}
