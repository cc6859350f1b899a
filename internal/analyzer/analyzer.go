// Package analyzer implements the Analyzer façade, an event-driven
// orchestrator that captures one hand's transcript, waits for every
// player's keychain to commit, replays the cryptographic verification
// pipeline, scores the resulting hands, and emits the lifecycle signals
// analyzing/analyzed/scored.
package analyzer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"pokeraudit/internal/auditconfig"
	"pokeraudit/internal/auditerr"
	"pokeraudit/internal/cardset"
	"pokeraudit/internal/cryptoprim"
	"pokeraudit/internal/deckverify"
	"pokeraudit/internal/dealverify"
	"pokeraudit/internal/handeval"
	"pokeraudit/internal/transcript"
)

// Listener receives a snapshot of the analysis at a lifecycle signal.
type Listener func(Analysis)

// Analysis is the Analyzer's result, frozen and emitted at each lifecycle
// signal. Fields are always defensive copies: callers may not observe or
// cause later mutation of the Analyzer's own state.
type Analysis struct {
	PrivateByPID map[string][]cardset.Card
	Public       []cardset.Card
	Hands        map[string][]handeval.ScoredHand
	Winners      []string
	Complete     bool
	Err          error
}

func (a Analysis) clone() Analysis {
	out := Analysis{Complete: a.Complete, Err: a.Err}
	if a.PrivateByPID != nil {
		out.PrivateByPID = make(map[string][]cardset.Card, len(a.PrivateByPID))
		for pid, cards := range a.PrivateByPID {
			out.PrivateByPID[pid] = append([]cardset.Card{}, cards...)
		}
	}
	if a.Public != nil {
		out.Public = append([]cardset.Card{}, a.Public...)
	}
	if a.Hands != nil {
		out.Hands = make(map[string][]handeval.ScoredHand, len(a.Hands))
		for pid, hands := range a.Hands {
			out.Hands[pid] = append([]handeval.ScoredHand{}, hands...)
		}
	}
	if a.Winners != nil {
		out.Winners = append([]string{}, a.Winners...)
	}
	return out
}

// Analyzer is constructed once per hand. It owns no module-level state; its
// lifetime is coupled to the Source passed to New.
type Analyzer struct {
	source Source
	prim   cryptoprim.Primitive
	cfg    auditconfig.Config
	log    zerolog.Logger
	runID  string

	store *transcript.Store
	gate  *transcript.Gate

	mu            sync.Mutex
	registry      *cardset.Registry
	perMoveUnsub  []func()
	keychainUnsub func()

	listenersMu sync.Mutex
	onAnalyzing []Listener
	onAnalyzed  []Listener
	onScored    []Listener
}

// New builds an Analyzer bound to source for a single hand.
func New(source Source, prim cryptoprim.Primitive, cfg auditconfig.Config, log zerolog.Logger) *Analyzer {
	store := transcript.New(source.OwnPID(), source.CurrentPlayers())
	timeout := time.Duration(cfg.KeychainCommitTimeoutMS) * time.Millisecond
	return &Analyzer{
		source: source,
		prim:   prim,
		cfg:    cfg,
		log:    log.With().Str("run_id", ulid.Make().String()).Logger(),
		store:  store,
		gate:   transcript.NewGate(store, timeout),
	}
}

// OnAnalyzing registers a listener for the `analyzing` signal.
func (a *Analyzer) OnAnalyzing(fn Listener) {
	a.listenersMu.Lock()
	defer a.listenersMu.Unlock()
	a.onAnalyzing = append(a.onAnalyzing, fn)
}

// OnAnalyzed registers a listener for the `analyzed` signal.
func (a *Analyzer) OnAnalyzed(fn Listener) {
	a.listenersMu.Lock()
	defer a.listenersMu.Unlock()
	a.onAnalyzed = append(a.onAnalyzed, fn)
}

// OnScored registers a listener for the `scored` signal.
func (a *Analyzer) OnScored(fn Listener) {
	a.listenersMu.Lock()
	defer a.listenersMu.Unlock()
	a.onScored = append(a.onScored, fn)
}

// Start subscribes to the game layer's event surface. Per-move handlers are
// unsubscribed once `analyze` fires; the keychain handler is unsubscribed
// once the commit gate fires.
func (a *Analyzer) Start() {
	a.mu.Lock()
	a.perMoveUnsub = append(a.perMoveUnsub,
		a.source.Subscribe(EventCardsEncrypted, a.handleCardsEncrypted),
		a.source.Subscribe(EventDealSelected, a.handleDealSelected),
		a.source.Subscribe(EventDealMessage, a.handleDealMessage),
		a.source.Subscribe(EventCardDealt, a.handleCardDealt),
		a.source.Subscribe(EventGameDecrypt, a.handleGameDecrypt),
	)
	a.keychainUnsub = a.source.Subscribe(EventPlayerKeychain, a.handlePlayerKeychain)
	a.mu.Unlock()

	a.source.Subscribe(EventAnalyze, a.handleAnalyze)
}

func (a *Analyzer) handleCardsEncrypted(payload any) {
	ev, ok := payload.(CardsEncryptedEvent)
	if !ok {
		return
	}
	if ev.PlaintextDeck != nil {
		registry, err := cardset.NewStandardRegistry(ev.PlaintextDeck)
		if err != nil {
			a.log.Error().Err(err).Msg("invalid plaintext deck")
			return
		}
		a.mu.Lock()
		a.registry = registry
		a.mu.Unlock()
		if err := a.store.RecordDeckGeneration(ev.Player, ev.PlaintextDeck); err != nil {
			a.log.Error().Err(err).Msg("recordDeckGeneration")
		}
		return
	}
	if err := a.store.RecordEncryption(ev.Player, ev.Selected); err != nil {
		a.log.Error().Err(err).Msg("recordEncryption")
	}
}

func (a *Analyzer) handleDealSelected(payload any) {
	ev, ok := payload.(DealSelectedEvent)
	if !ok {
		return
	}
	if err := a.store.RecordSelection(ev.OwnPID, ev.OwnPID, ev.Selected, ev.Private); err != nil {
		a.log.Error().Err(err).Msg("recordSelection(self)")
	}
}

func (a *Analyzer) handleDealMessage(payload any) {
	ev, ok := payload.(DealMessageEvent)
	if !ok {
		return
	}
	if ev.From == ev.SourcePID {
		if err := a.store.RecordSelection(ev.SourcePID, ev.From, ev.Selected, ev.Private); err != nil {
			a.log.Error().Err(err).Msg("recordSelection")
		}
		return
	}
	if len(ev.Selected) == 0 {
		// A final-cards payload is surfaced via cardDealt, not here.
		return
	}
	if err := a.store.RecordDecryption(ev.SourcePID, ev.From, ev.Selected, ev.Private); err != nil {
		a.log.Error().Err(err).Msg("recordDecryption")
	}
}

func (a *Analyzer) handleCardDealt(payload any) {
	if _, ok := payload.(CardDealtEvent); !ok {
		return
	}
	// Informational only: the deal verifier resolves plaintexts from the
	// cryptographic chain, never from the game layer's own claim.
}

func (a *Analyzer) handleGameDecrypt(payload any) {
	ev, ok := payload.(GameDecryptEvent)
	if !ok {
		return
	}
	if err := a.store.RecordDecryption(ev.SourcePID, ev.OwnPID, ev.Selected, ev.Private); err != nil {
		a.log.Error().Err(err).Msg("recordDecryption(self)")
	}
}

func (a *Analyzer) handlePlayerKeychain(payload any) {
	ev, ok := payload.(PlayerKeychainEvent)
	if !ok {
		return
	}
	a.gate.RecordKeychain(ev.Player, ev.Keychain)
}

func (a *Analyzer) handleAnalyze(payload any) {
	a.mu.Lock()
	unsub := a.perMoveUnsub
	a.perMoveUnsub = nil
	a.mu.Unlock()
	for _, fn := range unsub {
		fn()
	}

	a.gate.Arm()
	a.emit(&a.onAnalyzing, Analysis{})

	go a.runVerification(context.Background())
}

func (a *Analyzer) runVerification(ctx context.Context) {
	keychains, err := a.gate.Await(ctx)

	a.mu.Lock()
	unsub := a.keychainUnsub
	a.keychainUnsub = nil
	a.mu.Unlock()
	if unsub != nil {
		unsub()
	}

	if err != nil {
		a.emit(&a.onAnalyzed, Analysis{Complete: true, Err: err})
		return
	}

	a.mu.Lock()
	registry := a.registry
	a.mu.Unlock()
	if registry == nil {
		a.emit(&a.onAnalyzed, Analysis{Complete: true, Err: auditerr.Internal{Reason: "no card registry: deck generation was never recorded"}})
		return
	}

	snapshots := a.store.Snapshots()
	pool, err := deckverify.Verify(ctx, a.prim, snapshots, keychains)
	if err != nil {
		a.emit(&a.onAnalyzed, Analysis{Complete: true, Err: err})
		return
	}

	order, deals := a.store.DealsByDealer()
	result, err := dealverify.Verify(ctx, a.prim, registry, order, deals, pool, keychains)
	if err != nil {
		a.emit(&a.onAnalyzed, Analysis{Complete: true, Err: err})
		return
	}

	a.emit(&a.onAnalyzed, Analysis{PrivateByPID: result.PrivateByPID, Public: result.Public, Complete: false})

	final, err := a.score(result)
	if err != nil {
		a.emit(&a.onAnalyzed, Analysis{Complete: true, Err: err})
		return
	}
	a.gate.MarkScored()
	a.emit(&a.onScored, final)
}

func (a *Analyzer) score(result dealverify.Result) (Analysis, error) {
	foldedSet := map[string]bool{}
	for _, p := range a.store.Players() {
		if p.HasFolded {
			foldedSet[p.PrivateID] = true
		}
	}

	hands := make(map[string][]handeval.ScoredHand, len(result.PrivateByPID))
	for pid, private := range result.PrivateByPID {
		if foldedSet[pid] {
			continue
		}
		scored, err := handeval.EnumerateAndScore(private, result.Public)
		if err != nil {
			return Analysis{}, auditerr.Internal{Reason: fmt.Sprintf("scoring %s: %v", pid, err)}
		}
		hands[pid] = scored
	}

	winners := handeval.ResolveWinners(hands, result.PrivateByPID)
	return Analysis{
		PrivateByPID: result.PrivateByPID,
		Public:       result.Public,
		Hands:        hands,
		Winners:      winners,
		Complete:     true,
	}, nil
}

func (a *Analyzer) emit(listeners *[]Listener, analysis Analysis) {
	a.listenersMu.Lock()
	fns := append([]Listener{}, *listeners...)
	a.listenersMu.Unlock()
	snapshot := analysis.clone()
	for _, fn := range fns {
		fn(snapshot)
	}
}
