// Command arenastat fills a block arena with shapes and reports how the
// blocks and index chunks were used.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strings"
	"time"
	"unicode"

	"github.com/dustin/go-humanize"
	"github.com/lmittmann/tint"
	"github.com/pavanmanishd/blockarena"
	"github.com/spf13/pflag"
)

var (
	EnvPrefix     = "ARENASTAT_"
	Objects       = pflag.IntP("objects", "n", 100000, "number of shapes to create")
	BlockSize     = pflag.IntP("block-size", "b", blockarena.DefaultBlockSize, "object block size in bytes")
	Alignment     = pflag.Int("alignment", blockarena.DefaultBlockAlignment, "block alignment in bytes")
	IndexCapacity = pflag.Int("index-capacity", blockarena.DefaultIndexCapacity, "object slots per index chunk")
	Source        = pflag.StringP("source", "s", "heap", "block source (heap, mmap)")
	Budget        = pflag.Int64("budget", 0, "maximum bytes of blocks outstanding (0 for unlimited)")
	LogLevel      = levelP("log-level", "L", slog.LevelInfo, "log level")
	LogJSON       = pflag.Bool("log-json", false, "use json logs")
	Help          = pflag.BoolP("help", "h", false, "show this help text")
)

func levelP(name, shorthand string, value slog.Level, usage string) *slog.LevelVar {
	level := new(slog.LevelVar)
	def := new(slog.LevelVar)
	def.Set(value)
	pflag.TextVarP(level, name, shorthand, def, usage)
	return level
}

// parseEnv sets flags from environment variables named prefix followed by
// the flag name in upper case with dashes as underscores. Unknown names are
// reported and skipped.
func parseEnv(prefix string) error {
	for _, env := range os.Environ() {
		k, v, ok := strings.Cut(env, "=")
		if !ok {
			continue
		}
		s, ok := strings.CutPrefix(k, prefix)
		if !ok {
			continue
		}
		n := strings.Map(func(r rune) rune {
			if r == '_' {
				return '-'
			}
			return unicode.ToLower(r)
		}, s)
		f := pflag.CommandLine.Lookup(n)
		if f == nil {
			fmt.Fprintf(pflag.CommandLine.Output(), "env %s: unknown flag --%s\n", k, n)
			continue
		}
		if err := f.Value.Set(v); err != nil {
			return fmt.Errorf("env %s: flag --%s: invalid argument: %w", k, n, err)
		}
	}
	return nil
}

func main() {
	if err := parseEnv(EnvPrefix); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
	pflag.Parse()

	if *Help || pflag.NArg() != 0 {
		fmt.Printf("usage: %s [options]\n%s", os.Args[0], pflag.CommandLine.FlagUsages())
		if *Help {
			return
		}
		os.Exit(2)
	}

	if *LogJSON {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: LogLevel,
		})))
	} else {
		slog.SetDefault(slog.New(tint.NewHandler(os.Stdout, &tint.Options{
			Level: LogLevel,
		})))
	}

	if err := run(); err != nil {
		slog.Error("failed to run", "error", err)
		os.Exit(1)
	}
}

type Shape interface {
	Area() float64
}

type Circle struct{ R float64 }

func (c *Circle) Area() float64 { return math.Pi * c.R * c.R }

type Rect struct{ W, H float64 }

func (r *Rect) Area() float64 { return r.W * r.H }

// Tri counts its destruction, standing in for objects that own a resource.
type Tri struct{ A, B, C float64 }

var trisDestroyed int

func (t *Tri) Area() float64 {
	s := (t.A + t.B + t.C) / 2
	return math.Sqrt(s * (s - t.A) * (s - t.B) * (s - t.C))
}

func (t *Tri) Destroy() { trisDestroyed++ }

func run() error {
	var src blockarena.BlockSource
	switch *Source {
	case "heap":
		src = blockarena.HeapSource{}
	case "mmap":
		src = blockarena.MmapSource{}
	default:
		return fmt.Errorf("unknown block source %q", *Source)
	}
	if *Budget > 0 {
		src = blockarena.NewBudgetSource(src, *Budget)
	}

	a, err := blockarena.New[Shape](
		blockarena.WithBlockSize(*BlockSize),
		blockarena.WithBlockAlignment(*Alignment),
		blockarena.WithIndexCapacity(*IndexCapacity),
		blockarena.WithSource(src),
		blockarena.WithLogger(slog.Default()),
	)
	if err != nil {
		return err
	}
	defer a.Release()

	start := time.Now()
	for i := range *Objects {
		f := float64(i%100 + 1)
		switch i % 3 {
		case 0:
			_, err = blockarena.Create(a, Circle{R: f})
		case 1:
			_, err = blockarena.Create(a, Rect{W: f, H: 2})
		default:
			_, err = blockarena.Create(a, Tri{A: f, B: f, C: f})
		}
		if errors.Is(err, blockarena.ErrOutOfMemory) {
			slog.Warn("arena exhausted", "created", a.Count(), "requested", *Objects, "error", err)
			break
		}
		if err != nil {
			return err
		}
	}
	created := time.Since(start)

	start = time.Now()
	var forward float64
	for s := range a.Objects().All() {
		forward += s.Area()
	}
	var backward float64
	for s := range a.Objects().Backward() {
		backward += s.Area()
	}
	walked := time.Since(start)

	m := a.Metrics()
	slog.Info("arena filled",
		"objects", m.Objects,
		"create_time", created,
		"walk_time", walked,
		"area", forward,
		"area_matches", math.Abs(forward-backward) <= 1e-6*math.Abs(forward),
	)
	slog.Info("arena blocks",
		"blocks", m.NumBlocks,
		"index_blocks", m.NumIndexBlocks,
		"index_chunks", m.NumIndexChunks,
		"in_use", humanize.IBytes(uint64(m.SizeInUse)),
		"capacity", humanize.IBytes(uint64(m.Capacity)),
		"utilization", fmt.Sprintf("%.1f%%", m.Utilization*100),
	)

	a.Reset()
	slog.Info("arena reset", "tris_destroyed", trisDestroyed, "objects", a.Count())
	return nil
}
