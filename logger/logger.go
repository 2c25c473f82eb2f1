package logger

import (
	"log"
	"os"
)

var (
	// progress and results, for whoever is running the bench
	OperatorLogger *log.Logger
	// diagnostic detail
	AdminLogger *log.Logger
)

func init() {
	OperatorLogger = log.New(os.Stdout, "", log.Lmicroseconds)
	AdminLogger = log.New(os.Stderr, "", log.Lmicroseconds)
}
