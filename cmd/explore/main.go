package main

import (
	"flag"
	"fmt"
	"os"

	kitlog "github.com/go-kit/kit/log"

	explore "github.com/SwaggyTyrion/asteroid-dumbbell"
)

var (
	output   string
	asteroid string
	maxIter  int
	help     bool
)

func init() {
	flag.StringVar(&output, "o", "", "output HDF5 file")
	flag.StringVar(&asteroid, "n", "", fmt.Sprintf("asteroid name, one of %v", explore.Asteroids()))
	flag.IntVar(&maxIter, "maxiter", 0, "cap on the number of iterations (0 = run to convergence)")
	flag.BoolVar(&help, "h", false, "print usage and exit")
}

func usage() {
	fmt.Fprintln(os.Stderr, "Kinematic only exploration with asteroid reconstruction")
	fmt.Fprintln(os.Stderr, "usage: explore -o output.hdf5 -n castalia")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()
	if help {
		usage()
		os.Exit(0)
	}
	if output == "" || asteroid == "" {
		usage()
		os.Exit(1)
	}

	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	logger = kitlog.With(logger, "asteroid", asteroid)

	cfg, err := explore.LoadAsteroidConfig(asteroid)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	truth, err := explore.Load(cfg.MeshPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	rec, err := explore.NewHDF5Recorder(output)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	driver, err := explore.NewExplorer(cfg, truth, rec, logger)
	if err != nil {
		rec.Close()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	driver.MaxIter = maxIter

	runErr := driver.Explore()
	if err := rec.Close(); err != nil && runErr == nil {
		runErr = err
	}
	if runErr != nil {
		fmt.Fprintln(os.Stderr, runErr)
		os.Exit(2)
	}
}
