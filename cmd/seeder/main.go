package main

import (
	"bufio"
	"context"
	"flag"
	"iter"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/digitalpulse"
	"github.com/poiesic/digitalpulse/config"
	"github.com/poiesic/digitalpulse/storage"
)

var topics = []string{
	"Should schools require uniforms?",
	"Is remote work better for productivity?",
	"Should cities ban cars from downtown areas?",
}

var opinions = []string{
	"Uniforms reduce bullying because nobody is judged by their clothes.",
	"Uniforms stifle self-expression at an age when identity matters most.",
	"School uniforms save families money on back-to-school shopping.",
	"A study of urban districts found attendance rose after uniforms were introduced.",
	"Uniform costs fall hardest on low-income families who must buy several sets.",
	"Dress codes already solve the problems uniforms claim to fix.",
	"Students focus on lessons instead of fashion when everyone dresses alike.",
	"Uniforms make it easier to spot strangers on campus.",
	"Requiring uniforms teaches conformity rather than critical thinking.",
	"Teachers report fewer dress code disputes in uniform schools.",
	"Working from home removes the commute and gives people hours back.",
	"Remote teams struggle to build trust without face-to-face contact.",
	"Output per employee rose in companies that moved to remote work.",
	"Junior staff learn less when they cannot watch senior colleagues work.",
	"Remote work lets companies hire talent from anywhere.",
	"Home offices blur the line between work and rest, leading to burnout.",
	"Hybrid schedules capture most of the benefits of both models.",
	"Video meetings are more exhausting than in-person ones.",
	"Car-free downtowns are safer for pedestrians and cyclists.",
	"Banning cars hurts businesses that depend on drive-in customers.",
	"Air quality measurably improved in cities that closed streets to traffic.",
	"Disabled residents rely on cars to reach downtown services.",
	"Public transit must improve before cars can be banned.",
	"Pedestrian zones attract more foot traffic and tourism.",
	"Delivery trucks still need access even in car-free areas.",
	"The quick brown fox jumps over the lazy dog.",
	"I had pizza for lunch and it was excellent.",
	"The hummingbird hovered beside a vibrant purple flower.",
	"Rain drummed on the rooftop, creating a soothing rhythm.",
	"The old clock chimed thirteen times in an abandoned town.",
}

var (
	seedFileName = flag.String("src", "", "file of opinions, one per line")
	configPath   = flag.String("config", "", "path to the YAML configuration file")
	withTopics   = flag.Bool("topics", true, "also add the sample topics")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
}

// linesFromFile returns an iterator over lines in a file.
func linesFromFile(filename string) (iter.Seq[string], error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	return func(yield func(string) bool) {
		defer f.Close()
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			if !yield(scanner.Text()) {
				return
			}
		}
	}, nil
}

// linesFromSlice returns an iterator over a slice of strings.
func linesFromSlice(lines []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, line := range lines {
			if !yield(line) {
				return
			}
		}
	}
}

// seedOpinions stores every non-blank line of source as an unlinked opinion
// and returns how many were added.
func seedOpinions(ctx context.Context, store storage.RecordStore, source iter.Seq[string]) (int, error) {
	added := 0
	for line := range source {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if _, err := store.AddOpinion(ctx, line, "", "", ""); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}

func seedTopics(ctx context.Context, store storage.RecordStore) error {
	for _, text := range topics {
		key, err := store.AddTopic(ctx, text, "", "")
		if err != nil {
			return err
		}
		slog.Info("added topic", "key", key, "text", text)
	}
	return nil
}

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}
	ws, err := digitalpulse.Open(context.Background(), cfg)
	if err != nil {
		panic(err)
	}
	defer ws.Close()

	ctx := context.Background()

	// Determine source of seed data
	var source iter.Seq[string]
	if *seedFileName != "" {
		source, err = linesFromFile(*seedFileName)
		if err != nil {
			panic(err)
		}
	} else {
		source = linesFromSlice(opinions)
	}

	added, err := seedOpinions(ctx, ws.Store(), source)
	if err != nil {
		panic(err)
	}
	slog.Info("seeded opinions", "count", added, "store", cfg.Store.Path)

	if *withTopics {
		if err := seedTopics(ctx, ws.Store()); err != nil {
			panic(err)
		}
	}
}
