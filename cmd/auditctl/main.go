package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"pokeraudit/internal/analyzer"
	"pokeraudit/internal/auditconfig"
	"pokeraudit/internal/auditerr"
	"pokeraudit/internal/cardset"
	"pokeraudit/internal/obslog"
)

func main() {
	transcriptPath := flag.String("transcript", "", "path to a captured hand transcript (JSON)")
	flag.Parse()

	if *transcriptPath == "" {
		_, _ = fmt.Fprintln(os.Stderr, "auditctl: -transcript is required")
		os.Exit(1)
	}

	cfg, err := auditconfig.Load()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	log := obslog.New(cfg.LogLevel, cfg.LogPretty)

	raw, err := os.ReadFile(*transcriptPath)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "read transcript: %v\n", err)
		os.Exit(1)
	}

	var doc transcriptDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "parse transcript: %v\n", err)
		os.Exit(1)
	}

	v, err := run(doc, cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("audit run failed")
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "encode verdict: %v\n", err)
		os.Exit(1)
	}
}

// run wires one Analyzer to the file-backed Source, replays the captured
// transcript, and waits for the terminal analyzed/scored signal.
func run(doc transcriptDoc, cfg auditconfig.Config, log zerolog.Logger) (verdict, error) {
	players := doc.players()
	src := newFileSource(doc.OwnPID, players)

	a := analyzer.New(src, doc.primitive(), cfg, log)
	a.Start()

	var (
		mu    sync.Mutex
		final analyzer.Analysis
		got   bool
		done  = make(chan struct{})
		once  sync.Once
	)
	settle := func(a analyzer.Analysis) {
		mu.Lock()
		final, got = a, true
		mu.Unlock()
		once.Do(func() { close(done) })
	}
	a.OnScored(settle)
	a.OnAnalyzed(func(a analyzer.Analysis) {
		if a.Err != nil {
			settle(a)
		}
	})

	if err := src.replay(doc.Events); err != nil {
		return verdict{}, err
	}

	timeout := time.Duration(cfg.KeychainCommitTimeoutMS)*time.Millisecond + 5*time.Second
	select {
	case <-done:
	case <-time.After(timeout):
		return verdict{}, fmt.Errorf("auditctl: analysis did not complete within %s", timeout)
	}

	mu.Lock()
	defer mu.Unlock()
	if !got {
		return verdict{}, fmt.Errorf("auditctl: no analysis result produced")
	}
	return toVerdict(final), nil
}

type verdict struct {
	Complete bool                `json:"complete"`
	Error    *errorJSON          `json:"error,omitempty"`
	Public   []string            `json:"public,omitempty"`
	Winners  []string            `json:"winners,omitempty"`
	HandsLen map[string]int      `json:"handPermutationCounts,omitempty"`
	Private  map[string][]string `json:"privateByPID,omitempty"`
}

type errorJSON struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func toVerdict(a analyzer.Analysis) verdict {
	v := verdict{Complete: a.Complete, Winners: a.Winners}
	if a.Err != nil {
		code := 99
		if coded, ok := a.Err.(auditerr.Coded); ok {
			code = coded.Code()
		}
		v.Error = &errorJSON{Code: code, Message: a.Err.Error()}
	}
	if a.Public != nil {
		v.Public = cardStrings(a.Public)
	}
	if a.PrivateByPID != nil {
		v.Private = make(map[string][]string, len(a.PrivateByPID))
		for pid, cards := range a.PrivateByPID {
			v.Private[pid] = cardStrings(cards)
		}
	}
	if a.Hands != nil {
		v.HandsLen = make(map[string]int, len(a.Hands))
		for pid, hands := range a.Hands {
			v.HandsLen[pid] = len(hands)
		}
	}
	return v
}

func cardStrings(cards []cardset.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.String()
	}
	return out
}
