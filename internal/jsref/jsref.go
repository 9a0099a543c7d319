// Package jsref runs the original browser settlement script on an
// embedded JavaScript runtime. It exists so the Go settlements can be
// checked line by line against the rules the scorekeeper shipped with.
package jsref

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/dop251/goja"

	"github.com/MJE43/golf-sidebets-go/internal/games"
)

//go:embed settle.js
var settleSource string

// Ref wraps a goja runtime holding the settlement script. goja runtimes
// are not safe for concurrent use, so calls are serialized on a mutex.
type Ref struct {
	runtime *goja.Runtime
	settle  goja.Callable
	mu      sync.Mutex
}

// New evaluates the embedded script and binds its settle() entry point.
func New() (*Ref, error) {
	rt := goja.New()
	if _, err := rt.RunString(settleSource); err != nil {
		return nil, fmt.Errorf("script execution error: %w", err)
	}

	fn := rt.Get("settle")
	if fn == nil || goja.IsUndefined(fn) || goja.IsNull(fn) {
		return nil, fmt.Errorf("settle() function is not defined")
	}
	callable, ok := goja.AssertFunction(fn)
	if !ok {
		return nil, fmt.Errorf("settle is not a function")
	}

	return &Ref{runtime: rt, settle: callable}, nil
}

// Settle folds the action log through the scripted rule for one game and
// returns the per-player balances. The script works in float64, so exact
// decimal comparison is up to the caller.
func (r *Ref) Settle(game games.GameType, players []string, cfg games.Config, actions []games.Action) (map[string]float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result, err := r.settle(goja.Undefined(),
		r.runtime.ToValue(string(game)),
		r.runtime.ToValue(players),
		r.runtime.ToValue(configValue(cfg)),
		r.runtime.ToValue(actionValues(actions)),
	)
	if err != nil {
		return nil, fmt.Errorf("settle(%s) error: %w", game, err)
	}

	balances := make(map[string]float64, len(players))
	if err := r.runtime.ExportTo(result, &balances); err != nil {
		return nil, fmt.Errorf("export balances: %w", err)
	}
	return balances, nil
}

// configValue converts a variant config to the plain object shape the
// script expects, with the bet amount as a JS number.
func configValue(cfg games.Config) map[string]interface{} {
	bet, _ := cfg.BetAmount.Float64()
	out := map[string]interface{}{
		"enabled":   cfg.Enabled,
		"betAmount": bet,
	}
	if len(cfg.Teams) > 0 {
		out["teams"] = cfg.Teams
	}
	if len(cfg.Rotation) > 0 {
		out["rotation"] = cfg.Rotation
	}
	if cfg.HolesPerWolf > 0 {
		out["holesPerWolf"] = cfg.HolesPerWolf
	}
	return out
}

func actionValues(actions []games.Action) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(actions))
	for _, a := range actions {
		out = append(out, map[string]interface{}{
			"hole":       a.Hole,
			"player":     a.Player,
			"winner":     a.Winner,
			"result":     a.Result,
			"wolf":       a.Wolf,
			"wolfChoice": a.WolfChoice,
			"partner":    a.Partner,
		})
	}
	return out
}
