package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"strings"

	"github.com/snow-ghost/featsel/core"
	"github.com/snow-ghost/featsel/featsel"
	"github.com/snow-ghost/featsel/fieldset"
	"github.com/snow-ghost/featsel/pkg/cache"
	"github.com/snow-ghost/featsel/pkg/metrics"
	"github.com/snow-ghost/featsel/pkg/observability"
	"github.com/snow-ghost/featsel/scorer"
	"github.com/snow-ghost/featsel/worker"
)

func main() {
	var (
		configPath    = flag.String("config", "", "YAML configuration file")
		dataPath      = flag.String("data", "", "CSV dataset with a header row (required)")
		target        = flag.String("target", "", "Target column name (default: last column)")
		instancesPath = flag.String("instances", "", "File with one bit string per line ('-' for stdin)")
		random        = flag.Int("random", 0, "Evaluate this many random instances")
		density       = flag.Float64("density", 0.5, "Probability of a feature being selected in random instances")
		seed          = flag.Int64("seed", 1, "Seed for random instances")
		top           = flag.Int("top", 10, "Number of ranked results to print (0 for all)")
		logLevel      = flag.String("log-level", "", "Override log level: fine, debug, info, warn, error")
	)
	flag.Parse()

	config, err := worker.LoadConfigFile(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *logLevel != "" {
		config.LogLevel = *logLevel
	}
	if *dataPath == "" {
		log.Fatal("-data is required")
	}

	obs, err := observability.NewManager(observability.Config{
		ServiceName:    config.ServiceName,
		JaegerEndpoint: config.JaegerEndpoint,
		LogLevel:       config.LogLevel,
		LogFormat:      config.LogFormat,
		LogOutput:      "stderr",
	})
	if err != nil {
		log.Fatalf("Failed to set up observability: %v", err)
	}
	defer func() { _ = obs.Close(context.Background()) }()
	logger := obs.GetLogger()
	slog.SetDefault(logger.GetSlog())

	table, err := loadTable(*dataPath, *target)
	if err != nil {
		log.Fatalf("Failed to load dataset: %v", err)
	}
	layout, err := fieldset.New(table.NumFeatures())
	if err != nil {
		log.Fatalf("Failed to build layout: %v", err)
	}
	slog.Info("dataset loaded", "path", *dataPath, "rows", table.NumRows(), "features", table.NumFeatures(), "target", table.TargetName)

	pop, err := loadPopulation(layout, flag.Args(), *instancesPath, *random, *density, *seed)
	if err != nil {
		log.Fatalf("Failed to load instances: %v", err)
	}
	if len(pop) == 0 {
		fmt.Println("No instances to evaluate")
		return
	}

	var fsScorer core.FeatureSetScorer[float64] = scorer.NewMutualInformation(table)
	var memo *cache.Memo[float64]
	if config.CacheSize > 0 {
		memo, err = cache.NewMemo(fsScorer, &cache.CacheConfig{MaxSize: config.CacheSize})
		if err != nil {
			log.Fatalf("Failed to create score cache: %v", err)
		}
		fsScorer = memo
	}

	m := obs.GetMetrics()
	scoreLogger := logger.WithFields(map[string]interface{}{"dataset": *dataPath, "target": table.TargetName})
	instScorer := metrics.Instrument[float64](featsel.NewScorer(fsScorer, layout, featsel.WithLogger(scoreLogger)), m)
	evaluator := worker.NewEvaluator(instScorer,
		worker.WithWorkers(config.Workers),
		worker.WithTracer(obs.GetTracer()),
		worker.WithLogger(slog.Default()),
	)

	ctx := context.Background()
	if config.EvalTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.EvalTimeout)
		defer cancel()
	}

	scored, err := evaluator.EvaluatePopulation(ctx, pop)
	if err != nil {
		log.Fatalf("Evaluation failed: %v", err)
	}
	if memo != nil {
		m.ObserveCache(memo.Stats())
		stats := memo.Stats()
		slog.Info("score cache", "hits", stats.Hits, "misses", stats.Misses,
			"hit_rate", stats.HitRate, "dedup_rate", memo.DedupRate())
	}

	fitness := core.NewPenalizedFitness(config.ComplexityPenalty)
	ranked := worker.Rank(scored, fitness.Better)
	printRanked(os.Stdout, layout, table, ranked, fitness, *top)
}

func loadTable(path, target string) (*scorer.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return scorer.LoadCSV(f, target)
}

// loadPopulation collects instances from arguments, then the instances file,
// then random sampling.
func loadPopulation(layout *fieldset.Layout, args []string, path string, random int, density float64, seed int64) ([]*core.Instance, error) {
	var pop []*core.Instance
	for _, arg := range args {
		inst, err := layout.Parse(arg)
		if err != nil {
			return nil, err
		}
		pop = append(pop, inst)
	}

	if path != "" {
		var r io.Reader = os.Stdin
		if path != "-" {
			f, err := os.Open(path)
			if err != nil {
				return nil, err
			}
			defer f.Close()
			r = f
		}
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			inst, err := layout.Parse(line)
			if err != nil {
				return nil, err
			}
			pop = append(pop, inst)
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to read instances: %w", err)
		}
	}

	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < random; i++ {
		var fs core.FeatureSet
		for f := 0; f < layout.FieldCount(); f++ {
			if rng.Float64() < density {
				fs = append(fs, f)
			}
		}
		inst, err := layout.FromFeatureSet(fs)
		if err != nil {
			return nil, err
		}
		pop = append(pop, inst)
	}
	return pop, nil
}

func printRanked(w io.Writer, layout *fieldset.Layout, table *scorer.Table, ranked []worker.Scored[float64], fitness *core.PenalizedFitness, top int) {
	if top <= 0 || top > len(ranked) {
		top = len(ranked)
	}
	fmt.Fprintf(w, "%-4s %-10s %-10s %-6s %s\n", "RANK", "FITNESS", "MI", "SIZE", "INSTANCE")
	for i, s := range ranked[:top] {
		fs := featsel.Decode(layout, s.Instance)
		names := make([]string, 0, fs.Len())
		for _, f := range fs {
			names = append(names, table.Names[f])
		}
		fmt.Fprintf(w, "%-4d %-10.4f %-10.4f %-6d %s {%s}\n",
			i+1, fitness.Fitness(s.Score), s.Score.Score, s.Score.Complexity,
			layout.Stream(s.Instance), strings.Join(names, ","))
	}
}
