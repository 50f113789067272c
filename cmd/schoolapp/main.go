package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"runtime/debug"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-school-app/cmd/schoolapp/commands"
	"github.com/jrsteele09/go-school-app/internal/config"
)

func main() {
	if err := run(); err != nil {
		log.SetFlags(0)
		log.Fatalf("Error: %s\n", err)
	}
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	if len(os.Args) <= 1 {
		displayAppname(c.GetAppName())
	}
	returnError = commands.Execute(c)
	return returnError
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
