package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"

	"github.com/fumin/sac"
	"github.com/fumin/sac/internal/logger"
	"github.com/pkg/errors"
)

var lower = flag.Uint("lower", 0, "lower bound of the initial coding interval")
var upper = flag.Uint("upper", math.MaxUint32, "upper bound of the initial coding interval")
var output = flag.String("o", "", "output file, stdout if empty")
var verbose = flag.Bool("verbose", false, "verbosity")

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] filename\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	name := flag.Arg(0)
	if name == "" {
		flag.Usage()
		os.Exit(1)
	}
	log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)

	if err := run(name); err != nil {
		log.Fatalf("%+v", err)
	}
}

func run(name string) error {
	if *lower > math.MaxUint32 || *upper > math.MaxUint32 {
		return errors.Errorf("bounds [%d, %d] exceed 32 bits", *lower, *upper)
	}
	cfg := sac.Config{LowerBound: uint32(*lower), UpperBound: uint32(*upper)}
	if *verbose {
		cfg.Logger = logger.New()
	}

	var w io.Writer = os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			return errors.Wrap(err, "")
		}
		defer f.Close()
		w = f
	}

	if err := sac.Compress(w, name, cfg); err != nil {
		return errors.Wrap(err, "")
	}
	if f, ok := w.(*os.File); ok && f != os.Stdout {
		return errors.Wrap(f.Close(), "")
	}
	return nil
}
