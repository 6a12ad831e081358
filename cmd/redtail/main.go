package main

import (
	"flag"
	"log"
	"os"
	"runtime/pprof"

	"github.com/georgemunyoro/rusty-redtail/internal/engine"
	"github.com/georgemunyoro/rusty-redtail/internal/storage"
	"github.com/georgemunyoro/rusty-redtail/internal/uci"
)

var (
	hashMB     = flag.Int("hash", 64, "transposition table size in MB")
	threads    = flag.Int("threads", 1, "number of search threads")
	bookPath   = flag.String("book", "", "polyglot opening book file")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
)

func main() {
	flag.Parse()

	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
	}

	eng := engine.NewEngine(*hashMB)
	session := uci.New(eng, os.Stdin, os.Stdout)

	// The store keeps persisted options and the tablebase cache. The engine
	// works without it, so a broken data directory is not fatal.
	if st, err := storage.Open(); err == nil {
		defer st.Close()
		session.SetStore(st)
	} else {
		log.Printf("persistent store unavailable: %v", err)
	}

	// Command-line flags win over persisted options.
	eng.SetThreads(*threads)
	if *bookPath != "" {
		session.UseBook(*bookPath)
	}

	if err := session.Run(); err != nil {
		log.Fatal(err)
	}
}
