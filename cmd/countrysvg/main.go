package main

import (
	"errors"
	"os"

	"github.com/sirupsen/logrus"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, errHelpRequested) {
			os.Exit(0)
		}
		logrus.Error(err)
		os.Exit(2)
	}

	if err := run(opts); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}
