/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package main

import (
	"github.com/RobjayMella/Nexus-Web-App/cmd"
	"github.com/RobjayMella/Nexus-Web-App/internal/logger"
)

func main() {
	defer logger.HandlePanic()
	cmd.Execute()
}
