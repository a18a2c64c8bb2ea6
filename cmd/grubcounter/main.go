// Command grubcounter is the CLI collaborator around the grubcounter
// core: it parses arguments, resolves settings, and drives either
// one-shot save decoding or a 1 Hz live-process poll loop. None of the
// reverse-engineered decoding/locating logic lives here — it all calls
// into the github.com/flipkick/grubcounter package.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	"github.com/flipkick/grubcounter"
	"github.com/flipkick/grubcounter/cmd/grubcounter/config"
	"github.com/flipkick/grubcounter/cmd/grubcounter/overlay"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "decode":
		runDecode(os.Args[2:])
	case "watch":
		runWatch(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: grubcounter decode <path-or-dir> | watch [process-name]")
}

func runDecode(args []string) {
	flagSet := flag.NewFlagSet("decode", flag.ExitOnError)
	configPath := flagSet.String("config", "", "YAML config file")
	_ = flagSet.Parse(args)

	target := "."
	if flagSet.NArg() > 0 {
		target = flagSet.Arg(0)
	}

	cfg := resolveConfig(*configPath)
	if target == "." {
		target = cfg.SaveDir
	}

	info, err := os.Stat(target)
	if err != nil {
		logrus.Fatalf("grubcounter: %v", err)
	}

	if info.IsDir() {
		decodeDir(target)
		return
	}

	decodeOne(target)
}

// decodeDir scans every "*.save" file in dir. Directory-mode scanning is
// a CLI-only convenience; the core decodes exactly one buffer per call.
func decodeDir(dir string) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.save"))
	if err != nil {
		logrus.Fatalf("grubcounter: %v", err)
	}
	if len(matches) == 0 {
		fmt.Println("no .save files found")
		return
	}
	for _, path := range matches {
		decodeOne(path)
	}
}

func decodeOne(path string) {
	value, err := grubcounter.DecodeSave(path)
	if err != nil {
		fmt.Printf("%s: %v\n", path, err)
		return
	}
	fmt.Printf("%s: %d\n", path, value)
}

func runWatch(args []string) {
	flagSet := flag.NewFlagSet("watch", flag.ExitOnError)
	configPath := flagSet.String("config", "", "YAML config file")
	verbose := flagSet.Bool("verbose", false, "log every scan candidate")
	_ = flagSet.Parse(args)

	cfg := resolveConfig(*configPath)
	processName := cfg.ProcessName
	if flagSet.NArg() > 0 {
		processName = flagSet.Arg(0)
	}

	opts := grubcounter.ScanOptions{}
	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
		opts.Verbose = func(c grubcounter.CandidateNode) {
			logrus.WithFields(logrus.Fields{
				"address":  c.Address.String(),
				"locality": c.Locality,
				"value":    c.Value,
			}).Debug("candidate")
		}
	}

	locator, err := grubcounter.NewLocator(processName, opts)
	if err != nil {
		logrus.Fatalf("grubcounter: attach %s: %v", processName, err)
	}
	defer locator.Close()

	interval := time.Duration(cfg.PollIntervalSeconds) * time.Second
	if interval <= 0 {
		interval = time.Second
	}

	logrus.Infof("watching %s, writing to %s", processName, cfg.OutputPath)

	var lastWritten uint32
	first := true
	for {
		value, err := locator.Poll()
		if err != nil {
			logrus.Warnf("poll failed: %v", err)
			time.Sleep(interval)
			continue
		}

		if first || value != lastWritten {
			if err := overlay.Write(cfg.OutputPath, value); err != nil {
				logrus.Warnf("overlay write failed: %v", err)
			} else {
				lastWritten = value
				first = false
			}
		}

		time.Sleep(interval)
	}
}

func resolveConfig(path string) config.Config {
	if path == "" {
		path = "grubcounter.yaml"
	}
	cfg, err := config.Load(path)
	if err != nil {
		logrus.Warnf("config: %v, using defaults", err)
		return config.Default()
	}
	return cfg
}
