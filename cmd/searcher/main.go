// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Command searcher prints the stored opinions most similar to a topic without
// classifying them. Useful for tuning the threshold.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/digitalpulse"
	"github.com/poiesic/digitalpulse/config"
	"github.com/poiesic/digitalpulse/matcher"
)

var (
	configPath = flag.String("config", "", "path to the YAML configuration file")
	threshold  = flag.Float64("threshold", matcher.DefaultThreshold, "similarity cutoff (default: analysis.threshold)")
	limit      = flag.Int("k", matcher.DefaultTopK, "number of hits to show")
)

func init() {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})
	slog.SetDefault(slog.New(handler))
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

	cutoff := *threshold
	if !isSet("threshold") {
		cutoff = cfg.Analysis.Threshold
	}

	topic := "Should schools require uniforms?"
	if flag.NArg() > 0 {
		topic = strings.Join(flag.Args(), " ")
	}
	if err := search(context.Background(), ws, os.Stdout, topic, cutoff, *limit); err != nil {
		panic(err)
	}
}

func search(ctx context.Context, ws *digitalpulse.Workspace, w io.Writer, topic string, cutoff float64, k int) error {
	opinions, err := ws.Store().Opinions(ctx)
	if err != nil {
		return err
	}
	texts := make([]string, len(opinions))
	for i, o := range opinions {
		texts[i] = o.Text
	}

	matches, err := ws.Matcher().FindRelated(ctx, topic, texts, cutoff)
	if err != nil {
		return err
	}
	hits := matcher.Rank(matches, k)

	fmt.Fprintf(w, "Found %d hits\n", len(hits))
	for i, hit := range hits {
		fmt.Fprintf(w, "%d: '%s' (%s)[%0.3f]\n", i, hit.Text, opinions[hit.Index].ID, hit.Score)
	}
	return nil
}

func isSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
